package booking

import (
	"strings"
	"time"

	"travelagency/models"
	"travelagency/utils"

	"github.com/google/uuid"
)

// Step is a state of the booking wizard.
type Step string

const (
	StepCounts     Step = "COUNTS"
	StepIdentities Step = "IDENTITIES"
	StepPayment    Step = "PAYMENT"
	StepReview     Step = "REVIEW"
)

var stepOrder = []Step{StepCounts, StepIdentities, StepPayment, StepReview}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Contact is the customer's contact details.
type Contact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// WizardConfig is the policy a wizard prices and validates with.
type WizardConfig struct {
	Pricing            PricingPolicy
	AllowDeferredProof bool
}

// DefaultWizardConfig uses the default pricing policy and requires transfer proof.
var DefaultWizardConfig = WizardConfig{Pricing: DefaultPricingPolicy}

// Wizard is the in-progress booking draft. It does no I/O; the service persists it
// between requests and hands the submitted Booking to the reservation store.
type Wizard struct {
	ID            string                       `json:"id"`
	Step          Step                         `json:"step"`
	ServiceType   string                       `json:"serviceType"`
	PackageID     string                       `json:"packageId,omitempty"`
	Title         string                       `json:"title"`
	Prices        Prices                       `json:"prices"`
	Counts        Counts                       `json:"counts"`
	Travelers     []models.Traveler            `json:"travelers"`
	Retained      map[string][]models.Traveler `json:"retained,omitempty"`
	Contact       Contact                      `json:"contact"`
	PaymentMethod string                       `json:"paymentMethod"`
	PaymentProof  string                       `json:"paymentProof,omitempty"`
	AgencyID      string                       `json:"agencyId,omitempty"`
	AgencyName    string                       `json:"agencyName,omitempty"`
	CountsLocked  bool                         `json:"countsLocked,omitempty"`
	FlightOfferID string                       `json:"flightOfferId,omitempty"`
	Submitted     bool                         `json:"submitted"`
	CreatedAt     time.Time                    `json:"createdAt"`

	cfg WizardConfig
}

// NewWizard starts a wizard for a package at the COUNTS step with one adult.
func NewWizard(p models.TravelPackage, cfg WizardConfig) *Wizard {
	w := &Wizard{
		ID:            uuid.NewString(),
		Step:          StepCounts,
		ServiceType:   p.Type,
		PackageID:     p.ID,
		Title:         p.Title,
		Prices:        PricesFor(p),
		Counts:        Counts{Adults: 1},
		PaymentMethod: models.PaymentCashAgency,
		CreatedAt:     time.Now().UTC(),
		cfg:           cfg,
	}
	w.syncTravelers()
	return w
}

// Attach sets the policy after a wizard is loaded from a session store.
func (w *Wizard) Attach(cfg WizardConfig) {
	w.cfg = cfg
}

// Total is the Pricing Engine output for the current counts and prices.
func (w *Wizard) Total() int64 {
	return w.cfg.Pricing.Total(w.Counts, w.Prices)
}

func (w *Wizard) requireStep(s Step) error {
	if w.Submitted {
		return ErrWizardClosed
	}
	if w.Step != s {
		return ErrWrongStep
	}
	return nil
}

// SetCounts changes traveler counts and rebuilds the traveler list.
func (w *Wizard) SetCounts(c Counts) error {
	if err := w.requireStep(StepCounts); err != nil {
		return err
	}
	w.Counts = c.Normalize()
	w.syncTravelers()
	return nil
}

// UpdateTraveler replaces the details at index i. The category of the slot is kept.
func (w *Wizard) UpdateTraveler(i int, t models.Traveler) error {
	if err := w.requireStep(StepIdentities); err != nil {
		return err
	}
	if i < 0 || i >= len(w.Travelers) {
		return errTravelerIndex(i, len(w.Travelers))
	}
	t.Type = w.Travelers[i].Type
	t.FirstName = strings.TrimSpace(t.FirstName)
	t.LastName = strings.TrimSpace(t.LastName)
	t.PassportNumber = strings.TrimSpace(t.PassportNumber)
	w.Travelers[i] = t
	return nil
}

// SetContact records the customer's contact details.
func (w *Wizard) SetContact(c Contact) error {
	if err := w.requireStep(StepIdentities); err != nil {
		return err
	}
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	w.Contact = c
	return nil
}

// SetPayment selects a payment method and optional proof image. Agency wizards
// are debited from the wallet and cannot switch method.
func (w *Wizard) SetPayment(method, proof string) error {
	if err := w.requireStep(StepPayment); err != nil {
		return err
	}
	if w.AgencyID != "" && method != models.PaymentWallet {
		return utils.NewValidationError("paymentMethod", "agency bookings are paid from the wallet")
	}
	w.PaymentMethod = method
	w.PaymentProof = proof
	return nil
}

// Next validates the current step and advances one step.
func (w *Wizard) Next() error {
	if w.Submitted {
		return ErrWizardClosed
	}
	switch w.Step {
	case StepCounts:
		w.Counts = w.Counts.Normalize()
		w.syncTravelers()
	case StepIdentities:
		if err := validateIdentities(w.Travelers, w.Contact); err != nil {
			return err
		}
	case StepPayment:
		if err := validatePayment(w.PaymentMethod, w.PaymentProof, w.AgencyID != "", w.cfg.AllowDeferredProof); err != nil {
			return err
		}
	case StepReview:
		return ErrSubmitNotReady
	}
	w.Step = stepOrder[w.Step.index()+1]
	return nil
}

// Back returns one step. Wizards that skipped COUNTS cannot go back to it.
func (w *Wizard) Back() error {
	if w.Submitted {
		return ErrWizardClosed
	}
	i := w.Step.index()
	if i <= 0 || (w.CountsLocked && stepOrder[i-1] == StepCounts) {
		return ErrNoPrevious
	}
	w.Step = stepOrder[i-1]
	return nil
}

// Submit finalizes the draft into a Pending booking and closes the wizard.
func (w *Wizard) Submit(now time.Time) (*models.Booking, error) {
	if w.Submitted {
		return nil, ErrWizardClosed
	}
	if w.Step != StepReview {
		return nil, ErrSubmitNotReady
	}
	// Gates are re-checked since a stored draft may have been edited out of band.
	if err := validateIdentities(w.Travelers, w.Contact); err != nil {
		return nil, err
	}
	if err := validatePayment(w.PaymentMethod, w.PaymentProof, w.AgencyID != "", w.cfg.AllowDeferredProof); err != nil {
		return nil, err
	}

	travelers := make([]models.Traveler, len(w.Travelers))
	copy(travelers, w.Travelers)
	first := travelers[0]

	b := &models.Booking{
		ID:            "BK-" + strings.ToUpper(uuid.NewString()[:8]),
		CustomerName:  strings.TrimSpace(first.FirstName + " " + first.LastName),
		Type:          w.ServiceType,
		Status:        models.BookingPending,
		Date:          now.UTC().Format(time.RFC3339),
		Amount:        w.Total(),
		Contact:       w.Contact.Phone,
		Email:         w.Contact.Email,
		Phone:         w.Contact.Phone,
		Address:       w.Contact.Address,
		Travelers:     travelers,
		PackageID:     w.PackageID,
		AgencyID:      w.AgencyID,
		AgencyName:    w.AgencyName,
		PaymentMethod: w.PaymentMethod,
		PaymentProof:  w.PaymentProof,
	}
	w.Submitted = true
	return b, nil
}
