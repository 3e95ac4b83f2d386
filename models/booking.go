package models

// Booking lifecycle statuses. Pending is the only creation status.
const (
	BookingPending   = "Pending"
	BookingConfirmed = "Confirmed"
	BookingCompleted = "Completed"
	BookingCancelled = "Cancelled"
)

// Traveler categories.
const (
	TravelerAdult = "ADULT"
	TravelerChild = "CHILD"
	TravelerBaby  = "BABY"
)

// Payment method tags.
const (
	PaymentCashAgency   = "CASH_AGENCY"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentCCP          = "CCP"
	PaymentWallet       = "WALLET"
)

// ValidBookingStatus reports whether s is a known lifecycle status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Traveler is one person on a booking.
type Traveler struct {
	Type           string `json:"type"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	BirthDate      string `json:"birthDate"` // YYYY-MM-DD
	PassportNumber string `json:"passportNumber"`
	PassportImage  string `json:"passportImage,omitempty"`
}

// Booking is a customer reservation.
type Booking struct {
	ID            string     `json:"id"`
	CustomerName  string     `json:"customerName"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Date          string     `json:"date"` // RFC3339 creation timestamp
	Amount        int64      `json:"amount"`
	Contact       string     `json:"contact,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	Travelers     []Traveler `json:"travelers"`
	PackageID     string     `json:"packageId,omitempty"`
	AgencyID      string     `json:"agencyId,omitempty"`
	AgencyName    string     `json:"agencyName,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaymentProof  string     `json:"paymentProof,omitempty"`
	IsDeleted     bool       `json:"isDeleted"`
}

func (b Booking) GetID() string { return b.ID }
func (b Booking) Deleted() bool { return b.IsDeleted }
