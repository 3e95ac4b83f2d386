package account

import (
	"context"

	"travelagency/models"
	"travelagency/services/notification"
)

// Profiles is the part of the reservation store accounts are kept in.
type Profiles interface {
	FindProfileByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, id string) (*models.User, error)
	SaveProfile(ctx context.Context, u models.User) ([]models.User, error)
	SetApprovalStatus(ctx context.Context, id, status string) (*models.User, error)
	DeleteAgent(ctx context.Context, id string) ([]models.User, error)
}

// AccountService handles sign-in, registration and profile management.
type AccountService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
	SetApprovalStatus(ctx context.Context, id, status string) (*models.User, error)
	DeleteAgent(ctx context.Context, id string) ([]models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Subscribe(fn func(SessionEvent)) func()
}

// DefaultAccountService implements AccountService.
type DefaultAccountService struct {
	Store         Profiles
	Session       *Session
	Codes         CodeStore
	Mailer        notification.Mailer
	HashPasswords bool
	// AllowBypass enables the built-in administrator and demo client logins.
	AllowBypass bool
}
