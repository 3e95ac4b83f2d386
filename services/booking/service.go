package booking

import (
	"context"
	"fmt"
	"time"

	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) view(w *Wizard) *WizardView {
	return &WizardView{Wizard: w, Total: w.Total()}
}

// attachAgency marks the wizard as an agency booking paid from the wallet.
func (s *DefaultBookingService) attachAgency(ctx context.Context, w *Wizard, agencyID string) error {
	if agencyID == "" {
		return nil
	}
	agent, err := s.Store.GetProfile(ctx, agencyID)
	if err != nil {
		return err
	}
	if agent.Role != utils.RoleAgent {
		return utils.NewBusinessError("only agency accounts can book on behalf of customers")
	}
	if agent.Status != models.ApprovalApproved {
		return utils.NewBusinessError("agency account is not approved")
	}
	w.AgencyID = agent.ID
	w.AgencyName = agent.AgencyName
	w.PaymentMethod = models.PaymentWallet
	return nil
}

func (s *DefaultBookingService) StartWizard(ctx context.Context, packageID, agencyID string) (*WizardView, error) {
	pkg, err := s.Store.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	w := NewWizard(*pkg, s.Config)
	if err := s.attachAgency(ctx, w, agencyID); err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, w); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking wizard started", zap.String("sessionID", w.ID), zap.String("package", pkg.ID))
	return s.view(w), nil
}

// StartTicketing opens a TICKETING wizard for an offer returned by an earlier search.
// The fare is read from the kept offer, never from the caller.
func (s *DefaultBookingService) StartTicketing(ctx context.Context, offerID string, search models.FlightSearchRequest, agencyID string) (*WizardView, error) {
	if s.Offers == nil {
		return nil, utils.NewBusinessError("flight ticketing is not available")
	}
	offer, err := s.Offers.Offer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	w, err := NewTicketingWizard(*offer, search, s.Flights, s.Config)
	if err != nil {
		return nil, err
	}
	if err := s.attachAgency(ctx, w, agencyID); err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w), nil
}

func (s *DefaultBookingService) load(ctx context.Context, id string) (*Wizard, error) {
	w, err := s.Sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Attach(s.Config)
	return w, nil
}

func (s *DefaultBookingService) GetWizard(ctx context.Context, id string) (*WizardView, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(w), nil
}

// mutate loads a draft, applies fn and stores the result. Failed steps are not saved.
func (s *DefaultBookingService) mutate(ctx context.Context, id string, fn func(*Wizard) error) (*WizardView, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, w); err != nil {
		return nil, err
	}
	return s.view(w), nil
}

func (s *DefaultBookingService) UpdateWizard(ctx context.Context, id string, upd WizardUpdate) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		if upd.Counts != nil {
			if err := w.SetCounts(*upd.Counts); err != nil {
				return err
			}
		}
		for _, tu := range upd.Travelers {
			if err := w.UpdateTraveler(tu.Index, tu.Traveler); err != nil {
				return err
			}
		}
		if upd.Contact != nil {
			if err := w.SetContact(*upd.Contact); err != nil {
				return err
			}
		}
		if upd.PaymentMethod != "" || upd.PaymentProof != "" {
			method := upd.PaymentMethod
			if method == "" {
				method = w.PaymentMethod
			}
			if err := w.SetPayment(method, upd.PaymentProof); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *DefaultBookingService) Next(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, (*Wizard).Next)
}

func (s *DefaultBookingService) Back(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, (*Wizard).Back)
}

// SubmitWizard turns the draft into a Pending booking through the reservation store.
// The draft is claimed first so a repeated submit cannot book twice. It is put back
// when the booking cannot be created.
func (s *DefaultBookingService) SubmitWizard(ctx context.Context, id string) (*models.Booking, error) {
	w, err := s.Sessions.Claim(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Attach(s.Config)

	draft, err := w.Submit(time.Now())
	if err != nil {
		s.release(ctx, w)
		return nil, err
	}
	_, created, err := s.Store.CreateBooking(ctx, *draft)
	if err != nil {
		w.Submitted = false
		s.release(ctx, w)
		return nil, err
	}

	if s.NotificationSvc != nil {
		body := fmt.Sprintf("%s booked %s for %d traveler(s)", created.CustomerName, w.Title, len(created.Travelers))
		data := map[string]string{"bookingId": created.ID, "type": created.Type}
		if err := s.NotificationSvc.NotifyAdmins(ctx, "New booking", body, data); err != nil {
			utils.GetLogger().Warn("Failed to notify admins of new booking", zap.String("booking", created.ID), zap.Error(err))
		}
	}
	return created, nil
}

// release stores a claimed draft again after a failed submit.
func (s *DefaultBookingService) release(ctx context.Context, w *Wizard) {
	if err := s.Sessions.Save(ctx, w); err != nil {
		utils.GetLogger().Warn("Failed to restore booking session", zap.String("sessionID", w.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) CancelWizard(ctx context.Context, id string) error {
	return s.Sessions.Delete(ctx, id)
}

// Quote prices a package for a party. Agents see the total with their markup applied.
func (s *DefaultBookingService) Quote(ctx context.Context, packageID string, c Counts, agencyID string) (*Quote, error) {
	pkg, err := s.Store.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	c = c.Normalize()
	total := s.Config.Pricing.Total(c, PricesFor(*pkg))
	q := &Quote{PackageID: pkg.ID, Counts: c, Total: total, Display: total}
	if agencyID != "" {
		agent, err := s.Store.GetProfile(ctx, agencyID)
		if err != nil {
			return nil, err
		}
		q.Display = ApplyMarkup(total, agent.MarkupPreference)
	}
	return q, nil
}
