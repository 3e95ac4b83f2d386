package reservation

import (
	"context"
	"fmt"

	"travelagency/database/repository/remote"
	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

func (s *Store) GetWalletRequests(ctx context.Context) ([]models.WalletRequest, error) {
	return s.walletRequests.list(ctx)
}

// GetWalletRequestsByAgency returns one agency's top-up history.
func (s *Store) GetWalletRequestsByAgency(ctx context.Context, agencyID string) ([]models.WalletRequest, error) {
	all, err := s.walletRequests.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.WalletRequest
	for _, r := range all {
		if r.AgencyID == agencyID {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateWalletRequest files a PENDING top-up for an agency.
func (s *Store) CreateWalletRequest(ctx context.Context, agencyID string, amount int64, proofImage string) (*models.WalletRequest, error) {
	if amount < s.minTopUp || amount <= 0 {
		return nil, utils.NewValidationError("amount", "minimum top-up is %d", s.minTopUp)
	}
	agent, err := s.GetProfile(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if agent.Role != utils.RoleAgent {
		return nil, ErrNotAgent
	}
	req := models.WalletRequest{
		ID:         s.newID("WR-"),
		AgencyID:   agent.ID,
		AgencyName: agent.AgencyName,
		Amount:     amount,
		ProofImage: proofImage,
		Status:     models.ApprovalPending,
		Date:       s.timestamp(),
	}
	if _, err := s.walletRequests.save(ctx, req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ApproveWalletRequest marks a PENDING request APPROVED and credits the agency.
// If the credit fails after the status changed, a *PartialUpdateError is returned.
func (s *Store) ApproveWalletRequest(ctx context.Context, id string) (*models.WalletRequest, error) {
	return s.decideWalletRequest(ctx, id, models.ApprovalApproved)
}

// RejectWalletRequest marks a PENDING request REJECTED. The balance is untouched.
func (s *Store) RejectWalletRequest(ctx context.Context, id string) (*models.WalletRequest, error) {
	return s.decideWalletRequest(ctx, id, models.ApprovalRejected)
}

func (s *Store) decideWalletRequest(ctx context.Context, id, status string) (*models.WalletRequest, error) {
	req, ok, err := s.walletRequests.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.NotFoundError{Entity: "wallet request", ID: id}
	}
	if req.Status != models.ApprovalPending {
		return nil, ErrRequestNotPending
	}

	if err := s.remote.UpdatePartial(ctx, remote.TableWalletRequests, id, remote.Record{"status": status}); err != nil {
		return nil, fmt.Errorf("update wallet request %s: %w", id, err)
	}
	req.Status = status
	s.walletRequests.putCached(ctx, req)

	if status == models.ApprovalApproved {
		if err := s.adjustWallet(ctx, req.AgencyID, req.Amount); err != nil {
			s.logger.Error("wallet credit failed after approval",
				zap.String("request", id), zap.String("agency", req.AgencyID), zap.Error(err))
			return &req, &PartialUpdateError{RequestID: id, Err: err}
		}
	}
	return &req, nil
}
