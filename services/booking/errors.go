package booking

import "travelagency/utils"

var (
	ErrWizardClosed   = utils.NewBusinessError("booking wizard already submitted")
	ErrWrongStep      = utils.NewBusinessError("operation not allowed at the current wizard step")
	ErrNoPrevious     = utils.NewBusinessError("no previous step")
	ErrSubmitNotReady = utils.NewBusinessError("booking can only be submitted from the review step")
	ErrSessionExpired = utils.NewBusinessError("booking session not found or expired")
)
