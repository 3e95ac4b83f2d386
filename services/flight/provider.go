package flight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no provider endpoint is set.
var ErrNotConfigured = errors.New("flight provider is not configured")

// Provider searches fares and returns offers from earlier searches.
type Provider interface {
	Search(ctx context.Context, req models.FlightSearchRequest) ([]models.FlightOffer, error)
	Offer(ctx context.Context, id string) (*models.FlightOffer, error)
}

// HTTPProvider calls a JSON fare-search endpoint: POST <baseURL>/search with the
// request body and an {"offers": [...]} response. Returned offers are kept in the
// offer cache until they are ticketed or expire.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	offers  OfferCache
}

func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, offers OfferCache) *HTTPProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if offers == nil {
		offers = NewMemoryOfferCache(OfferTTL)
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		offers:  offers,
	}
}

type searchResponse struct {
	Offers []models.FlightOffer `json:"offers"`
}

func validateSearch(req models.FlightSearchRequest) error {
	if len(strings.TrimSpace(req.Origin)) != 3 || len(strings.TrimSpace(req.Destination)) != 3 {
		return utils.NewValidationError("origin", "origin and destination must be IATA codes")
	}
	if strings.EqualFold(req.Origin, req.Destination) {
		return utils.NewValidationError("destination", "destination must differ from origin")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return utils.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	if req.ReturnDate != "" {
		ret, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			return utils.NewValidationError("returnDate", "return date must be YYYY-MM-DD")
		}
		dep, _ := time.Parse("2006-01-02", req.Date)
		if ret.Before(dep) {
			return utils.NewValidationError("returnDate", "return date is before departure")
		}
	}
	if req.Adults < 1 {
		return utils.NewValidationError("adults", "at least one adult is required")
	}
	if req.Children < 0 || req.Infants < 0 {
		return utils.NewValidationError("children", "passenger counts must not be negative")
	}
	if req.Infants > req.Adults {
		return utils.NewValidationError("infants", "each infant must travel with an adult")
	}
	return nil
}

func (p *HTTPProvider) Search(ctx context.Context, req models.FlightSearchRequest) ([]models.FlightOffer, error) {
	if p.baseURL == "" {
		return nil, ErrNotConfigured
	}
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	if err := validateSearch(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("flight search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		utils.GetLogger().Warn("Flight provider error",
			zap.Int("status", resp.StatusCode), zap.String("body", string(msg)))
		return nil, fmt.Errorf("flight search: provider returned status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("flight search: decode response: %w", err)
	}

	passengers := req.Passengers()
	offers := out.Offers[:0]
	for _, o := range out.Offers {
		if o.ID == "" || o.Price <= 0 {
			continue
		}
		if o.Passengers == 0 {
			o.Passengers = passengers
		}
		offers = append(offers, o)
	}
	if err := p.offers.Put(ctx, offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// Offer returns an offer from a previous search.
func (p *HTTPProvider) Offer(ctx context.Context, id string) (*models.FlightOffer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, utils.NewValidationError("offerId", "a flight offer is required")
	}
	return p.offers.Get(ctx, id)
}
