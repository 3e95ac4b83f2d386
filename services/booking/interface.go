package booking

import (
	"context"

	"travelagency/models"
	"travelagency/services/notification"
)

// Reservations is the part of the reservation store the wizard service needs.
type Reservations interface {
	GetPackage(ctx context.Context, id string) (*models.TravelPackage, error)
	GetProfile(ctx context.Context, id string) (*models.User, error)
	CreateBooking(ctx context.Context, b models.Booking) ([]models.Booking, *models.Booking, error)
}

// Offers returns flight offers kept from an earlier search.
type Offers interface {
	Offer(ctx context.Context, id string) (*models.FlightOffer, error)
}

// TravelerUpdate replaces the traveler at Index.
type TravelerUpdate struct {
	Index    int             `json:"index"`
	Traveler models.Traveler `json:"traveler"`
}

// WizardUpdate carries the fields a client may change on the current step.
// Nil and empty fields are left untouched.
type WizardUpdate struct {
	Counts        *Counts          `json:"counts,omitempty"`
	Travelers     []TravelerUpdate `json:"travelers,omitempty"`
	Contact       *Contact         `json:"contact,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	PaymentProof  string           `json:"paymentProof,omitempty"`
}

// WizardView is a wizard together with its current quoted total.
type WizardView struct {
	*Wizard
	Total int64 `json:"total"`
}

// Quote is a storefront price with the agent's display markup applied.
type Quote struct {
	PackageID string `json:"packageId"`
	Counts    Counts `json:"counts"`
	Total     int64  `json:"total"`
	Display   int64  `json:"display"`
}

// BookingService drives booking wizards from the HTTP layer.
type BookingService interface {
	StartWizard(ctx context.Context, packageID, agencyID string) (*WizardView, error)
	StartTicketing(ctx context.Context, offerID string, search models.FlightSearchRequest, agencyID string) (*WizardView, error)
	GetWizard(ctx context.Context, id string) (*WizardView, error)
	UpdateWizard(ctx context.Context, id string, upd WizardUpdate) (*WizardView, error)
	Next(ctx context.Context, id string) (*WizardView, error)
	Back(ctx context.Context, id string) (*WizardView, error)
	SubmitWizard(ctx context.Context, id string) (*models.Booking, error)
	CancelWizard(ctx context.Context, id string) error
	Quote(ctx context.Context, packageID string, c Counts, agencyID string) (*Quote, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Store           Reservations
	Sessions        SessionStore
	NotificationSvc notification.NotificationService
	Config          WizardConfig
	Flights         FlightPricing
	Offers          Offers
}
