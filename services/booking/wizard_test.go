package booking

import (
	"testing"
	"time"

	"travelagency/models"
	"travelagency/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPackage() models.TravelPackage {
	return models.TravelPackage{
		ID:    "PKG-1",
		Title: "Istanbul 7 days",
		Type:  models.ServiceOrganizedTrip,
		Price: 100000,
		Stock: 10,
	}
}

func person(first, last string) models.Traveler {
	return models.Traveler{FirstName: first, LastName: last, BirthDate: "1990-05-01", PassportNumber: "P" + first}
}

func validContact() Contact {
	return Contact{Email: "amel@example.com", Phone: "+213 555 12 34 56"}
}

// toReview walks a wizard with the given counts to the REVIEW step.
func toReview(t *testing.T, w *Wizard, c Counts) {
	t.Helper()
	require.NoError(t, w.SetCounts(c))
	require.NoError(t, w.Next())
	for i := range w.Travelers {
		require.NoError(t, w.UpdateTraveler(i, person(string(rune('A'+i))+"li", "Benali")))
	}
	require.NoError(t, w.SetContact(validContact()))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetPayment(models.PaymentCCP, ""))
	require.NoError(t, w.Next())
	require.Equal(t, StepReview, w.Step)
}

func TestNewWizardDefaults(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)

	assert.Equal(t, StepCounts, w.Step)
	assert.Equal(t, Counts{Adults: 1}, w.Counts)
	require.Len(t, w.Travelers, 1)
	assert.Equal(t, models.TravelerAdult, w.Travelers[0].Type)
	assert.Equal(t, models.PaymentCashAgency, w.PaymentMethod)
	assert.Equal(t, int64(100000), w.Total())
}

func TestSetCountsOrdersTravelersByCategory(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	require.NoError(t, w.SetCounts(Counts{Adults: 2, Children: 1, Babies: 1}))

	var types []string
	for _, tr := range w.Travelers {
		types = append(types, tr.Type)
	}
	assert.Equal(t, []string{"ADULT", "ADULT", "CHILD", "BABY"}, types)
}

func TestSetCountsKeepsAtLeastOneAdult(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	require.NoError(t, w.SetCounts(Counts{Adults: 0, Children: -2}))

	assert.Equal(t, Counts{Adults: 1}, w.Counts)
	assert.Len(t, w.Travelers, 1)
}

func TestCountRoundTripRestoresTravelers(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	require.NoError(t, w.SetCounts(Counts{Adults: 2, Children: 1}))
	require.NoError(t, w.Next())
	require.NoError(t, w.UpdateTraveler(0, person("Ali", "Benali")))
	require.NoError(t, w.UpdateTraveler(1, person("Sara", "Benali")))
	require.NoError(t, w.UpdateTraveler(2, person("Yanis", "Benali")))
	require.NoError(t, w.Back())

	require.NoError(t, w.SetCounts(Counts{Adults: 1}))
	require.Len(t, w.Travelers, 1)
	assert.Equal(t, "Ali", w.Travelers[0].FirstName)

	require.NoError(t, w.SetCounts(Counts{Adults: 2, Children: 1}))
	require.Len(t, w.Travelers, 3)
	assert.Equal(t, "Ali", w.Travelers[0].FirstName)
	assert.Equal(t, "Sara", w.Travelers[1].FirstName)
	assert.Equal(t, "Yanis", w.Travelers[2].FirstName)
	assert.Equal(t, models.TravelerChild, w.Travelers[2].Type)
}

func TestUpdateTravelerKeepsSlotCategory(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	require.NoError(t, w.SetCounts(Counts{Adults: 1, Babies: 1}))
	require.NoError(t, w.Next())

	baby := person("Lina", "Benali")
	baby.Type = models.TravelerAdult
	require.NoError(t, w.UpdateTraveler(1, baby))
	assert.Equal(t, models.TravelerBaby, w.Travelers[1].Type)

	err := w.UpdateTraveler(5, baby)
	assert.True(t, utils.IsValidation(err))
}

func TestOperationsOutsideTheirStep(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)

	assert.ErrorIs(t, w.UpdateTraveler(0, person("Ali", "B")), ErrWrongStep)
	assert.ErrorIs(t, w.SetPayment(models.PaymentCCP, ""), ErrWrongStep)
	assert.ErrorIs(t, w.Back(), ErrNoPrevious)

	require.NoError(t, w.Next())
	assert.ErrorIs(t, w.SetCounts(Counts{Adults: 3}), ErrWrongStep)
}

func TestIdentityGate(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	require.NoError(t, w.Next())

	err := w.Next()
	require.Error(t, err)
	assert.True(t, utils.IsValidation(err))
	assert.Contains(t, err.Error(), "adult 1")
	assert.Equal(t, StepIdentities, w.Step)

	tr := person("Ali", "Benali")
	tr.PassportNumber = "  "
	require.NoError(t, w.UpdateTraveler(0, tr))
	require.NoError(t, w.SetContact(validContact()))
	err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passport")

	tr = person("Ali", "Benali")
	tr.BirthDate = "01/05/1990"
	require.NoError(t, w.UpdateTraveler(0, tr))
	assert.Error(t, w.Next())

	require.NoError(t, w.UpdateTraveler(0, person("Ali", "Benali")))
	require.NoError(t, w.SetContact(Contact{Email: "not-an-email", Phone: "+213555123456"}))
	assert.Error(t, w.Next())

	require.NoError(t, w.SetContact(Contact{Email: "ali@example.com", Phone: "12"}))
	assert.Error(t, w.Next())

	require.NoError(t, w.SetContact(validContact()))
	require.NoError(t, w.Next())
	assert.Equal(t, StepPayment, w.Step)
}

func TestPaymentGate(t *testing.T) {
	cases := []struct {
		name     string
		method   string
		proof    string
		agency   bool
		deferred bool
		ok       bool
	}{
		{"cash", models.PaymentCashAgency, "", false, false, true},
		{"ccp", models.PaymentCCP, "", false, false, true},
		{"transfer with proof", models.PaymentBankTransfer, "https://img/proof.jpg", false, false, true},
		{"transfer without proof", models.PaymentBankTransfer, "", false, false, false},
		{"transfer deferred proof", models.PaymentBankTransfer, "", false, true, true},
		{"wallet for client", models.PaymentWallet, "", false, false, false},
		{"wallet for agency", models.PaymentWallet, "", true, false, true},
		{"empty", "", "", false, false, false},
		{"unknown", "BITCOIN", "", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := WizardConfig{Pricing: DefaultPricingPolicy, AllowDeferredProof: tc.deferred}
			w := NewWizard(testPackage(), cfg)
			if tc.agency {
				w.AgencyID = "AG-1"
			}
			require.NoError(t, w.Next())
			require.NoError(t, w.UpdateTraveler(0, person("Ali", "Benali")))
			require.NoError(t, w.SetContact(validContact()))
			require.NoError(t, w.Next())

			require.NoError(t, w.SetPayment(tc.method, tc.proof))
			err := w.Next()
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, StepReview, w.Step)
			} else {
				require.Error(t, err)
				assert.True(t, utils.IsValidation(err))
				assert.Equal(t, StepPayment, w.Step)
			}
		})
	}
}

func TestAgencyWizardKeepsWalletPayment(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	w.AgencyID = "AG-1"
	w.PaymentMethod = models.PaymentWallet
	require.NoError(t, w.Next())
	require.NoError(t, w.UpdateTraveler(0, person("Ali", "Benali")))
	require.NoError(t, w.SetContact(validContact()))
	require.NoError(t, w.Next())

	for _, method := range []string{models.PaymentCashAgency, models.PaymentBankTransfer, models.PaymentCCP} {
		err := w.SetPayment(method, "https://img/proof.jpg")
		require.Error(t, err, method)
		assert.True(t, utils.IsValidation(err))
	}
	assert.Equal(t, models.PaymentWallet, w.PaymentMethod)
	require.NoError(t, w.SetPayment(models.PaymentWallet, ""))
}

func TestBackMovesOneStep(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	toReview(t, w, Counts{Adults: 1})

	require.NoError(t, w.Back())
	assert.Equal(t, StepPayment, w.Step)
	require.NoError(t, w.Back())
	assert.Equal(t, StepIdentities, w.Step)
	require.NoError(t, w.Back())
	assert.Equal(t, StepCounts, w.Step)
}

func TestSubmitProducesPendingBooking(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)
	toReview(t, w, Counts{Adults: 2, Children: 1})
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	b, err := w.Submit(now)
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, int64(270000), b.Amount)
	assert.Equal(t, CalculateTotal(w.Counts, w.Prices), b.Amount)
	assert.Equal(t, "PKG-1", b.PackageID)
	assert.Equal(t, models.ServiceOrganizedTrip, b.Type)
	assert.Equal(t, "2025-03-01T10:00:00Z", b.Date)
	assert.Equal(t, "Ali Benali", b.CustomerName)
	assert.Equal(t, "amel@example.com", b.Email)
	assert.Len(t, b.Travelers, 3)
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, b.ID)
	assert.True(t, w.Submitted)

	_, err = w.Submit(now)
	assert.ErrorIs(t, err, ErrWizardClosed)
	assert.ErrorIs(t, w.Next(), ErrWizardClosed)
	assert.ErrorIs(t, w.Back(), ErrWizardClosed)
}

func TestSubmitOnlyFromReview(t *testing.T) {
	w := NewWizard(testPackage(), DefaultWizardConfig)

	_, err := w.Submit(time.Now())
	assert.ErrorIs(t, err, ErrSubmitNotReady)
	assert.False(t, w.Submitted)
}

func TestSubmitUsesPackageTiers(t *testing.T) {
	p := testPackage()
	p.PriceAdult = ptr(320000)
	p.PriceChild = ptr(250000)
	p.PriceBaby = ptr(90000)
	w := NewWizard(p, DefaultWizardConfig)
	toReview(t, w, Counts{Adults: 2, Children: 1, Babies: 1})

	b, err := w.Submit(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2*320000+250000+90000), b.Amount)
}

func TestTicketingWizardSkipsCounts(t *testing.T) {
	offer := models.FlightOffer{
		ID:    "OF-1",
		Price: 100,
		Segments: []models.FlightSegment{
			{From: "ALG", To: "IST"},
			{From: "IST", To: "JED"},
		},
	}
	search := models.FlightSearchRequest{Origin: "ALG", Destination: "JED", Date: "2025-06-01", Adults: 2}

	w, err := NewTicketingWizard(offer, search, FlightPricing{ExchangeRate: 250, Markup: 2000}, DefaultWizardConfig)
	require.NoError(t, err)

	assert.Equal(t, StepIdentities, w.Step)
	assert.Equal(t, models.ServiceTicketing, w.ServiceType)
	assert.Equal(t, "Flight ALG - JED", w.Title)
	assert.Equal(t, Counts{Adults: 2}, w.Counts)
	assert.Len(t, w.Travelers, 2)
	assert.Equal(t, int64(27000), w.Total())
	assert.ErrorIs(t, w.Back(), ErrNoPrevious)

	for i := range w.Travelers {
		require.NoError(t, w.UpdateTraveler(i, person(string(rune('A'+i))+"mine", "Kaci")))
	}
	require.NoError(t, w.SetContact(validContact()))
	require.NoError(t, w.Next())
	require.NoError(t, w.Back())
	assert.Equal(t, StepIdentities, w.Step)
}

func TestTicketingWizardRejectsEmptyOffer(t *testing.T) {
	_, err := NewTicketingWizard(models.FlightOffer{}, models.FlightSearchRequest{}, FlightPricing{ExchangeRate: 250}, DefaultWizardConfig)
	assert.True(t, utils.IsValidation(err))
}
