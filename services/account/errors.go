package account

import (
	"errors"

	"travelagency/utils"
)

var (
	ErrEmailInUse         = utils.NewBusinessError("an account with this email already exists")
	ErrAgentNotApproved   = utils.NewBusinessError("agency account is awaiting approval")
	ErrAgentRejected      = utils.NewBusinessError("agency account was rejected")
	ErrInvalidResetCode   = utils.NewBusinessError("reset code is invalid or expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
