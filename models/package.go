package models

import "time"

// Service-type tags carried by packages and bookings.
const (
	ServiceVisa          = "VISA"
	ServiceEVisa         = "E-VISA"
	ServiceOrganizedTrip = "ORGANIZED_TRIP"
	ServicePilgrimage    = "PILGRIMAGE"
	ServiceTicketing     = "TICKETING"
)

// ValidServiceType reports whether t is a known service-type tag.
func ValidServiceType(t string) bool {
	switch t {
	case ServiceVisa, ServiceEVisa, ServiceOrganizedTrip, ServicePilgrimage, ServiceTicketing:
		return true
	}
	return false
}

// ItineraryDay is one day entry of a trip programme.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TravelPackage is a sellable product with tiered pricing and finite stock.
type TravelPackage struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`                // base price, used when tiers are absent
	PriceAdult  *float64       `json:"priceAdult,omitempty"` // tier prices override the base
	PriceChild  *float64       `json:"priceChild,omitempty"`
	PriceBaby   *float64       `json:"priceBaby,omitempty"`
	Image       string         `json:"image,omitempty"`
	Type        string         `json:"type"`
	Duration    string         `json:"duration,omitempty"`
	Stock       int            `json:"stock"`
	Itinerary   []ItineraryDay `json:"itinerary,omitempty"`
	Inclusions  []string       `json:"inclusions,omitempty"`
	Exclusions  []string       `json:"exclusions,omitempty"`
	IsDeleted   bool           `json:"isDeleted"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (p TravelPackage) GetID() string { return p.ID }
func (p TravelPackage) Deleted() bool { return p.IsDeleted }
