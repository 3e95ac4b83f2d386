package ai

import (
	"fmt"
	"strings"

	"travelagency/models"
	"travelagency/utils"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// Intents recognized by the local responder.
const (
	IntentGreeting = "greeting"
	IntentVisa     = "visa"
	IntentEVisa    = "evisa"
	IntentOmra     = "omra"
	IntentTrip     = "trip"
	IntentFlight   = "flight"
	IntentPrice    = "price"
	IntentContact  = "contact"
	IntentChat     = "chat"
)

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{IntentEVisa, []string{"e-visa", "evisa", "visa electronique", "visa électronique"}},
	{IntentVisa, []string{"visa", "schengen", "تأشيرة"}},
	{IntentOmra, []string{"omra", "omrah", "umrah", "hajj", "عمرة", "حج"}},
	{IntentFlight, []string{"flight", "vol", "billet", "ticket", "avion", "طيران"}},
	{IntentTrip, []string{"trip", "voyage", "circuit", "tour", "istanbul", "رحلة"}},
	{IntentPrice, []string{"price", "prix", "tarif", "combien", "cost", "سعر"}},
	{IntentContact, []string{"contact", "phone", "téléphone", "adresse", "address", "agence"}},
	{IntentGreeting, []string{"hello", "hi", "bonjour", "salut", "salam", "سلام"}},
}

var intentService = map[string]string{
	IntentVisa:   models.ServiceVisa,
	IntentEVisa:  models.ServiceEVisa,
	IntentOmra:   models.ServicePilgrimage,
	IntentTrip:   models.ServiceOrganizedTrip,
	IntentFlight: models.ServiceTicketing,
}

// DetectIntent matches the first keyword group found in text.
func DetectIntent(text string) string {
	lower := strings.ToLower(text)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if containsWord(lower, kw) {
				return group.intent
			}
		}
	}
	return IntentChat
}

// containsWord avoids matching short keywords inside longer words ("hi" in "hijab").
func containsWord(text, kw string) bool {
	idx := strings.Index(text, kw)
	for idx >= 0 {
		before := idx == 0 || !isLetter(text[idx-1])
		end := idx + len(kw)
		after := end == len(text) || !isLetter(text[end])
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], kw)
		if next < 0 {
			break
		}
		idx += next + 1
	}
	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// LocalResponse answers from keywords and the live catalog.
func LocalResponse(text string, catalog []models.TravelPackage) *models.AIResponse {
	intent := DetectIntent(text)
	resp := &models.AIResponse{Intent: intent, Source: SourceLocal}

	switch intent {
	case IntentGreeting:
		resp.ResponseText = "Hello! I can help you with visas, Omrah packages, organized trips and flight tickets. What are you looking for?"
	case IntentContact:
		resp.ResponseText = "You can reach the agency by phone or visit us during opening hours. Leave your email and we will get back to you."
		resp.Actions = []models.AIAction{{Label: "Contact the agency", Type: "contact"}}
	case IntentFlight:
		resp.ResponseText = "Search flights from the ticketing page; I can then prepare the booking for your travelers."
		resp.Actions = []models.AIAction{{Label: "Search flights", Type: "open_service", Service: models.ServiceTicketing}}
	case IntentPrice:
		resp.ResponseText, resp.Actions = describe(catalog, "", 3)
		if resp.ResponseText == "" {
			resp.ResponseText = "Our catalog is being updated. Please contact the agency for current prices."
		}
	case IntentChat:
		resp.ResponseText = "I'm not sure I understood. Ask me about visas, Omrah, organized trips or flights."
	default:
		service := intentService[intent]
		text, actions := describe(catalog, service, 3)
		if text == "" {
			text = "We have no open offers for this service right now. Leave your contact and the agency will call you back."
			actions = []models.AIAction{{Label: "Contact the agency", Type: "contact"}}
		}
		resp.ResponseText = text
		resp.Actions = append(actions, models.AIAction{Label: "See all offers", Type: "open_service", Service: service})
	}
	return resp
}

// describe lists up to limit packages of a service type (any type when empty).
func describe(catalog []models.TravelPackage, service string, limit int) (string, []models.AIAction) {
	var lines []string
	var actions []models.AIAction
	for _, p := range catalog {
		if service != "" && p.Type != service {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: from %s", p.Title, formatPrice(p)))
		actions = append(actions, models.AIAction{Label: p.Title, Type: "open_package", PackageID: p.ID})
		if len(lines) == limit {
			break
		}
	}
	if len(lines) == 0 {
		return "", nil
	}
	return "Here is what we currently offer:\n- " + strings.Join(lines, "\n- "), actions
}

func formatPrice(p models.TravelPackage) string {
	price := p.Price
	if p.PriceAdult != nil {
		price = *p.PriceAdult
	}
	return pricePrinter.Sprintf("%d DZD", utils.RoundHalfUp(price))
}
