package account

import (
	"context"
	"fmt"
	"strings"

	"travelagency/models"
	"travelagency/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultAccountService) signIn(ctx context.Context, u models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, utils.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}
	s.Session.set(ctx, u)
	return &models.AuthResponse{User: u.Public(), Token: token}, nil
}

// Login checks the built-in accounts first, then the stored profile. Profiles
// without a stored password are accepted on email alone.
func (s *DefaultAccountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if s.AllowBypass {
		if u, ok := bypassLogin(req.Email, req.Password); ok {
			utils.GetLogger().Info("Built-in account signed in", zap.String("user", u.ID))
			return s.signIn(ctx, *u)
		}
	}

	u, err := s.Store.FindProfileByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user for authentication: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.Password != "" && !passwordMatches(u.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if u.Role == utils.RoleAgent {
		switch u.Status {
		case models.ApprovalApproved:
		case models.ApprovalRejected:
			return nil, ErrAgentRejected
		default:
			return nil, ErrAgentNotApproved
		}
	}
	return s.signIn(ctx, *u)
}

func validateRegistration(req models.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return utils.NewValidationError("name", "is required")
	}
	if !utils.ValidEmail(req.Email) {
		return utils.NewValidationError("email", "a valid email is required")
	}
	if req.Password == "" {
		return utils.NewValidationError("password", "is required")
	}
	if req.IsAgent {
		if strings.TrimSpace(req.AgencyName) == "" {
			return utils.NewValidationError("agencyName", "is required for agency accounts")
		}
		if req.AgencyPhone != "" && !utils.ValidPhone(req.AgencyPhone) {
			return utils.NewValidationError("agencyPhone", "is not a valid phone number")
		}
	}
	return nil
}

// Register creates a client account, or an agency account awaiting approval,
// and signs it in.
func (s *DefaultAccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.Store.FindProfileByEmail(ctx, email)
	if err != nil {
		utils.GetLogger().Error("Failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	pw, err := s.encodePassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to process password: %w", err)
	}
	u := models.User{
		ID:       "USR-" + strings.ToUpper(uuid.NewString()[:8]),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Role:     utils.RoleClient,
		Password: pw,
	}
	if req.IsAgent {
		u.Role = utils.RoleAgent
		u.Status = models.ApprovalPending
		u.AgencyName = strings.TrimSpace(req.AgencyName)
		u.AgencyAddress = strings.TrimSpace(req.AgencyAddress)
		u.AgencyPhone = strings.TrimSpace(req.AgencyPhone)
		u.WalletBalance = 0
	}

	if _, err := s.Store.SaveProfile(ctx, u); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Account registered", zap.String("user", u.ID), zap.String("role", u.Role))
	return s.signIn(ctx, u)
}

func (s *DefaultAccountService) Logout(ctx context.Context, userID string) error {
	s.Session.clear(ctx, userID)
	return nil
}

// CurrentUser returns the persisted session profile.
func (s *DefaultAccountService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	u, ok := s.Session.Current(ctx, userID)
	if !ok {
		return nil, &utils.NotFoundError{Entity: "session", ID: userID}
	}
	return u, nil
}

// UpdateProfile applies a user's own edits. Agency fields and markup are only
// accepted from agents.
func (s *DefaultAccountService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	u, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, utils.NewValidationError("name", "must not be empty")
		}
		u.Name = name
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, utils.NewValidationError("password", "must not be empty")
		}
		pw, err := s.encodePassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to process password: %w", err)
		}
		u.Password = pw
	}

	agencyEdit := upd.AgencyName != nil || upd.AgencyAddress != nil || upd.AgencyPhone != nil || upd.MarkupPreference != nil
	if agencyEdit && u.Role != utils.RoleAgent {
		return nil, utils.NewBusinessError("agency details can only be set on agency accounts")
	}
	if upd.AgencyName != nil {
		u.AgencyName = strings.TrimSpace(*upd.AgencyName)
	}
	if upd.AgencyAddress != nil {
		u.AgencyAddress = strings.TrimSpace(*upd.AgencyAddress)
	}
	if upd.AgencyPhone != nil {
		if *upd.AgencyPhone != "" && !utils.ValidPhone(*upd.AgencyPhone) {
			return nil, utils.NewValidationError("agencyPhone", "is not a valid phone number")
		}
		u.AgencyPhone = strings.TrimSpace(*upd.AgencyPhone)
	}
	if upd.MarkupPreference != nil {
		m := *upd.MarkupPreference
		if m < 0 || m > 100 {
			return nil, utils.NewValidationError("markupPreference", "must be between 0 and 100")
		}
		u.MarkupPreference = &m
	}

	if _, err := s.Store.SaveProfile(ctx, *u); err != nil {
		return nil, err
	}
	s.Session.refresh(ctx, *u)
	pub := u.Public()
	return &pub, nil
}

func (s *DefaultAccountService) SetApprovalStatus(ctx context.Context, id, status string) (*models.User, error) {
	u, err := s.Store.SetApprovalStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if status != models.ApprovalApproved {
		s.Session.clear(ctx, id)
	}
	pub := u.Public()
	return &pub, nil
}

// DeleteAgent removes the agency and ends its session.
func (s *DefaultAccountService) DeleteAgent(ctx context.Context, id string) ([]models.User, error) {
	users, err := s.Store.DeleteAgent(ctx, id)
	s.Session.clear(ctx, id)
	return users, err
}

func (s *DefaultAccountService) Subscribe(fn func(SessionEvent)) func() {
	return s.Session.Subscribe(fn)
}
