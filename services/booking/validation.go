package booking

import (
	"strings"
	"time"

	"travelagency/models"
	"travelagency/utils"
)

func validateIdentities(travelers []models.Traveler, c Contact) error {
	if len(travelers) == 0 {
		return utils.NewValidationError("travelers", "at least one traveler is required")
	}
	for i, t := range travelers {
		label := travelerLabel(travelers, i)
		switch {
		case strings.TrimSpace(t.FirstName) == "":
			return utils.NewValidationError("travelers", "%s: first name is required", label)
		case strings.TrimSpace(t.LastName) == "":
			return utils.NewValidationError("travelers", "%s: last name is required", label)
		case strings.TrimSpace(t.BirthDate) == "":
			return utils.NewValidationError("travelers", "%s: birth date is required", label)
		case strings.TrimSpace(t.PassportNumber) == "":
			return utils.NewValidationError("travelers", "%s: passport number is required", label)
		}
		if _, err := time.Parse("2006-01-02", t.BirthDate); err != nil {
			return utils.NewValidationError("travelers", "%s: birth date must be YYYY-MM-DD", label)
		}
	}
	if !utils.ValidEmail(c.Email) {
		return utils.NewValidationError("email", "a valid contact email is required")
	}
	if !utils.ValidPhone(c.Phone) {
		return utils.NewValidationError("phone", "a valid contact phone is required")
	}
	return nil
}

func validatePayment(method, proof string, agency, allowDeferredProof bool) error {
	switch method {
	case "":
		return utils.NewValidationError("paymentMethod", "a payment method is required")
	case models.PaymentCashAgency, models.PaymentCCP:
		return nil
	case models.PaymentWallet:
		if !agency {
			return utils.NewValidationError("paymentMethod", "wallet payment is reserved for agencies")
		}
		return nil
	case models.PaymentBankTransfer:
		if proof == "" && !allowDeferredProof {
			return utils.NewValidationError("paymentProof", "a transfer receipt is required for bank transfers")
		}
		return nil
	default:
		return utils.NewValidationError("paymentMethod", "unknown payment method %q", method)
	}
}
