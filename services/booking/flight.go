package booking

import (
	"time"

	"travelagency/models"
	"travelagency/utils"

	"github.com/google/uuid"
)

// FlightPricing converts provider fares into local currency.
type FlightPricing struct {
	ExchangeRate float64
	Markup       int64
}

// NewTicketingWizard starts a TICKETING wizard from a chosen flight offer. Counts are
// taken from the offer, or the search when the offer has none, and the COUNTS step
// is skipped.
func NewTicketingWizard(offer models.FlightOffer, search models.FlightSearchRequest, fp FlightPricing, cfg WizardConfig) (*Wizard, error) {
	if offer.ID == "" {
		return nil, utils.NewValidationError("offerId", "a flight offer is required")
	}
	if offer.Price <= 0 {
		return nil, utils.NewValidationError("price", "flight offer has no price")
	}

	passengers := offer.Passengers
	if passengers < 1 {
		passengers = search.Passengers()
	}
	if passengers < 1 {
		passengers = 1
	}

	// Fares are quoted for the whole party and every seat is billed as an adult.
	total := utils.ConvertCurrency(offer.Price, fp.ExchangeRate, fp.Markup)
	perSeat := float64(total) / float64(passengers)

	title := "Flight"
	if len(offer.Segments) > 0 {
		first, last := offer.Segments[0], offer.Segments[len(offer.Segments)-1]
		title = "Flight " + first.From + " - " + last.To
	}

	w := &Wizard{
		ID:            uuid.NewString(),
		Step:          StepIdentities,
		ServiceType:   models.ServiceTicketing,
		Title:         title,
		Prices:        Prices{Adult: perSeat},
		Counts:        Counts{Adults: passengers},
		PaymentMethod: models.PaymentCashAgency,
		CountsLocked:  true,
		FlightOfferID: offer.ID,
		CreatedAt:     time.Now().UTC(),
		cfg:           cfg,
	}
	w.syncTravelers()
	return w, nil
}
