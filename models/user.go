package models

// Agent approval statuses.
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// User is a client, agency or administrator profile.
type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	AgencyName       string   `json:"agencyName,omitempty"`
	AgencyAddress    string   `json:"agencyAddress,omitempty"`
	AgencyPhone      string   `json:"agencyPhone,omitempty"`
	WalletBalance    int64    `json:"walletBalance"`
	MarkupPreference *float64 `json:"markupPreference,omitempty"` // percent, agents only
	Status           string   `json:"status,omitempty"`
	Password         string   `json:"password,omitempty"`
	IsDeleted        bool     `json:"isDeleted,omitempty"`
}

func (u User) GetID() string { return u.ID }
func (u User) Deleted() bool { return u.IsDeleted }

// Public returns a copy without the stored password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// LoginRequest is the payload for /api/account/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for /api/account/register.
type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password"`
	IsAgent       bool   `json:"isAgent"`
	AgencyName    string `json:"agencyName,omitempty"`
	AgencyAddress string `json:"agencyAddress,omitempty"`
	AgencyPhone   string `json:"agencyPhone,omitempty"`
}

// ProfileUpdate carries the fields a user may edit on their own profile.
type ProfileUpdate struct {
	Name             *string  `json:"name,omitempty"`
	Password         *string  `json:"password,omitempty"`
	AgencyName       *string  `json:"agencyName,omitempty"`
	AgencyAddress    *string  `json:"agencyAddress,omitempty"`
	AgencyPhone      *string  `json:"agencyPhone,omitempty"`
	MarkupPreference *float64 `json:"markupPreference,omitempty"`
}

// AuthResponse is returned on login and registration.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
