package models

// WalletRequest is an agency's top-up request awaiting operator review.
type WalletRequest struct {
	ID         string `json:"id"`
	AgencyID   string `json:"agencyId"`
	AgencyName string `json:"agencyName"`
	Amount     int64  `json:"amount"`
	ProofImage string `json:"proofImage,omitempty"`
	Status     string `json:"status"`
	Date       string `json:"date"`
	IsDeleted  bool   `json:"isDeleted,omitempty"`
}

func (w WalletRequest) GetID() string { return w.ID }
func (w WalletRequest) Deleted() bool { return w.IsDeleted }

// WalletTopUpRequest is the payload an agent submits.
type WalletTopUpRequest struct {
	Amount     int64  `json:"amount" binding:"required"`
	ProofImage string `json:"proofImage"`
}
