package reservation

import (
	"context"
	"fmt"

	"travelagency/database/repository/remote"
	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

func (s *Store) GetBookings(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.list(ctx)
}

// GetBookingsByAgency returns the bookings placed through one agency.
func (s *Store) GetBookingsByAgency(ctx context.Context, agencyID string) ([]models.Booking, error) {
	all, err := s.bookings.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Booking
	for _, b := range all {
		if b.AgencyID == agencyID {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBookingsByEmail returns a customer's bookings.
func (s *Store) GetBookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	all, err := s.bookings.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Booking
	for _, b := range all {
		if b.Email != "" && equalFold(b.Email, email) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, ok, err := s.bookings.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.NotFoundError{Entity: "booking", ID: id}
	}
	return &b, nil
}

// SaveBooking replaces a booking as-is. New bookings go through CreateBooking.
func (s *Store) SaveBooking(ctx context.Context, b models.Booking) ([]models.Booking, error) {
	if b.ID == "" {
		return nil, utils.NewValidationError("id", "is required")
	}
	return s.bookings.save(ctx, b)
}

// CreateBooking persists a new booking in Pending status. Agency bookings debit the
// agency wallet first and fail without saving when the balance is short. After the
// save, a linked package's stock is decremented by the traveler count; that step
// is best-effort and only logged on failure.
func (s *Store) CreateBooking(ctx context.Context, b models.Booking) ([]models.Booking, *models.Booking, error) {
	if len(b.Travelers) == 0 {
		return nil, nil, utils.NewValidationError("travelers", "at least one traveler is required")
	}
	if b.Amount < 0 {
		return nil, nil, utils.NewValidationError("amount", "must not be negative")
	}
	if b.ID == "" {
		b.ID = s.newID("BK-")
	}
	if b.Date == "" {
		b.Date = s.timestamp()
	}
	if b.CustomerName == "" {
		first := b.Travelers[0]
		b.CustomerName = first.FirstName + " " + first.LastName
	}
	b.Status = models.BookingPending
	b.IsDeleted = false

	if b.AgencyID != "" {
		agent, err := s.GetProfile(ctx, b.AgencyID)
		if err != nil {
			return nil, nil, err
		}
		if agent.Role != utils.RoleAgent {
			return nil, nil, ErrNotAgent
		}
		if agent.WalletBalance < b.Amount {
			return nil, nil, ErrInsufficientBalance
		}
		if err := s.adjustWallet(ctx, agent.ID, -b.Amount); err != nil {
			return nil, nil, fmt.Errorf("debit agency wallet: %w", err)
		}
		if b.AgencyName == "" {
			b.AgencyName = agent.AgencyName
		}
		b.PaymentMethod = models.PaymentWallet
	}

	bookings, err := s.bookings.save(ctx, b)
	if err != nil {
		return nil, nil, err
	}

	if b.PackageID != "" {
		if err := s.DecrementStock(ctx, b.PackageID, len(b.Travelers)); err != nil {
			s.logger.Warn("stock decrement after booking failed",
				zap.String("booking", b.ID), zap.String("package", b.PackageID), zap.Error(err))
		}
	}
	return bookings, &b, nil
}

// UpdateBookingStatus is the operator's status change.
func (s *Store) UpdateBookingStatus(ctx context.Context, id, status string) ([]models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, utils.NewValidationError("status", "unknown booking status %q", status)
	}
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.remote.UpdatePartial(ctx, remote.TableBookings, id, remote.Record{"status": status}); err != nil {
		s.logger.Warn("remote status update failed, keeping local write", zap.String("booking", id), zap.Error(err))
	}
	b.Status = status
	return s.bookings.putCached(ctx, *b), nil
}

func (s *Store) DeleteBooking(ctx context.Context, id string) ([]models.Booking, error) {
	return s.bookings.hardDelete(ctx, id)
}
