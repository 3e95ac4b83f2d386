package utils

import "time"

// SessionKey is the fixed local key under which the signed-in user is persisted.
const SessionKey = "travel_current_user"

// Role names carried in tokens and profiles.
const (
	RoleClient = "CLIENT"
	RoleAgent  = "AGENT"
	RoleAdmin  = "ADMIN"
)

// TokenTTL is the lifetime of bearer tokens issued at login.
const TokenTTL = 24 * time.Hour

// ResetCodeTTL is how long a password reset code stays valid.
const ResetCodeTTL = 5 * time.Minute
