package reservation

import (
	"fmt"

	"travelagency/utils"
)

var (
	ErrRequestNotPending   = utils.NewBusinessError("wallet request is not pending")
	ErrInsufficientBalance = utils.NewBusinessError("insufficient wallet balance")
	ErrNotAgent            = utils.NewBusinessError("profile is not an agency account")
)

// RemoteSyncWarning reports a hard delete that was applied locally but not remotely.
type RemoteSyncWarning struct {
	Table string
	ID    string
	Err   error
}

func (w *RemoteSyncWarning) Error() string {
	return fmt.Sprintf("%s %s removed locally but remote delete failed: %v", w.Table, w.ID, w.Err)
}

func (w *RemoteSyncWarning) Unwrap() error { return w.Err }

// PartialUpdateError reports a wallet decision whose status was recorded but whose
// balance credit failed. The request is no longer pending.
type PartialUpdateError struct {
	RequestID string
	Err       error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("wallet request %s marked approved but balance credit failed: %v", e.RequestID, e.Err)
}

func (e *PartialUpdateError) Unwrap() error { return e.Err }
