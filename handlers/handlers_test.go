package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelagency/handlers"
	"travelagency/models"
	"travelagency/routes"
	"travelagency/services/account"
	"travelagency/services/booking"
	"travelagency/services/flight"
	ai "travelagency/services/intelligence"
	"travelagency/services/notification"
	"travelagency/services/reservation"
	"travelagency/services/tasks"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouterWithFlights(t, "")
}

func newRouterWithFlights(t *testing.T, flightURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := reservation.NewStore(nil, nil, reservation.Options{
		SeedPackages: reservation.DefaultSeedPackages(),
		MinTopUp:     10000,
	})
	mailer := notification.NewSendGridMailer("", "contact@agency.local", "Agency")
	notifier := notification.New(nil)
	flights := flight.NewHTTPProvider(flightURL, "", time.Second, nil)

	bookingService := &booking.DefaultBookingService{
		Store:           store,
		Sessions:        booking.NewMemorySessionStore(booking.SessionTTL),
		NotificationSvc: notifier,
		Config:          booking.DefaultWizardConfig,
		Flights:         booking.FlightPricing{ExchangeRate: 250, Markup: 2000},
		Offers:          flights,
	}
	accountService := &account.DefaultAccountService{
		Store:       store,
		Session:     account.NewSession(reservation.NewMemoryCache()),
		Codes:       account.NewMemoryCodeStore(),
		Mailer:      mailer,
		AllowBypass: true,
	}

	hb := &handlers.HandlerBundle{
		Packages:    handlers.NewPackageHandler(store),
		Bookings:    handlers.NewBookingHandler(store),
		Wizard:      handlers.NewWizardHandler(bookingService),
		Wallet:      handlers.NewWalletHandler(store, notifier),
		Account:     handlers.NewAccountHandler(accountService),
		Subscribers: handlers.NewSubscriberHandler(store, &tasks.Broadcaster{Subscribers: store, Mailer: mailer}),
		AI:          handlers.NewAIHandler(ai.NewAIService(nil, ai.NewMemoryContextStore(), store)),
		Flights:     handlers.NewFlightHandler(flights, bookingService),
		Admin:       handlers.NewAdminHandler(store, accountService),
	}
	r := gin.New()
	routes.RegisterRoutes(r, hb)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, id, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(id, id+"@agency.local", role, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestListPackagesServesSeedWhileOffline(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/packages", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pkgs []models.TravelPackage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pkgs))
	ids := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "PKG-ISTANBUL")

	w = doJSON(t, r, http.MethodGet, "/api/packages?type="+models.ServiceVisa, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pkgs))
	for _, p := range pkgs {
		assert.Equal(t, models.ServiceVisa, p.Type)
	}
}

func TestDeletePackageReportsRemoteWarning(t *testing.T) {
	r := newTestRouter(t)
	admin := tokenFor(t, "ADMIN-001", utils.RoleAdmin)

	w := doJSON(t, r, http.MethodDelete, "/api/packages/PKG-ISTANBUL", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items   []models.TravelPackage `json:"items"`
		Warning string                 `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Warning)
	for _, p := range resp.Items {
		assert.NotEqual(t, "PKG-ISTANBUL", p.ID)
	}

	w = doJSON(t, r, http.MethodGet, "/api/packages/PKG-ISTANBUL", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/admin/agents", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/agents", tokenFor(t, "USR-1", utils.RoleClient), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/admin/agents", tokenFor(t, "ADMIN-001", utils.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWizardFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/booking/wizard", "", gin.H{"packageId": "PKG-ISTANBUL"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view struct {
		ID    string `json:"id"`
		Step  string `json:"step"`
		Total int64  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "COUNTS", view.Step)
	assert.Equal(t, int64(145000), view.Total)
	base := "/api/booking/wizard/" + view.ID

	w = doJSON(t, r, http.MethodPatch, base, "", gin.H{"counts": gin.H{"adults": 2}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, int64(290000), view.Total)

	w = doJSON(t, r, http.MethodPost, base+"/next", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Identities are incomplete, so the gate refuses and the step stays put.
	w = doJSON(t, r, http.MethodPost, base+"/next", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	travelers := []gin.H{}
	for i, name := range []string{"Amina", "Karim"} {
		travelers = append(travelers, gin.H{"index": i, "traveler": gin.H{
			"firstName": name, "lastName": "Benali", "birthDate": "1990-04-12", "passportNumber": "P10000" + name,
		}})
	}
	w = doJSON(t, r, http.MethodPatch, base, "", gin.H{
		"travelers": travelers,
		"contact":   gin.H{"email": "amina@example.com", "phone": "+213 555 12 34 56"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, base+"/next", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, r, http.MethodPatch, base, "", gin.H{"paymentMethod": models.PaymentCashAgency})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(t, r, http.MethodPost, base+"/next", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "REVIEW", view.Step)

	w = doJSON(t, r, http.MethodPost, base+"/submit", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, int64(290000), b.Amount)
	assert.Len(t, b.Travelers, 2)

	// The session is gone once the booking exists.
	w = doJSON(t, r, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginThenMe(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/account/login", "", gin.H{"email": "demo@agency.local", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/account/login", "", gin.H{"email": "demo@agency.local", "password": "demo2024"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.Token)

	w = doJSON(t, r, http.MethodGet, "/api/account/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "DEMO-CLIENT", me.ID)

	w = doJSON(t, r, http.MethodPost, "/api/account/logout", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/account/me", auth.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPasswordResetResponseCarriesNoCode(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/account/register", "", gin.H{"name": "Amel", "email": "amel@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	known := doJSON(t, r, http.MethodPost, "/api/account/password/reset", "", gin.H{"email": "amel@example.com"})
	require.Equal(t, http.StatusOK, known.Code, known.Body.String())
	unknown := doJSON(t, r, http.MethodPost, "/api/account/password/reset", "", gin.H{"email": "ghost@example.com"})
	require.Equal(t, http.StatusOK, unknown.Code, unknown.Body.String())

	assert.Equal(t, unknown.Body.String(), known.Body.String())
	assert.NotContains(t, known.Body.String(), "mailto")
	var resp map[string]any
	require.NoError(t, json.Unmarshal(known.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Contains(t, resp, "message")
}

func TestFlightSearchWithoutProvider(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/flights/search", "", gin.H{
		"origin": "ALG", "destination": "IST", "date": "2026-12-01", "adults": 1,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTicketingUsesSearchedFare(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(gin.H{"offers": []gin.H{{"id": "OF-1", "price": 100, "currency": "EUR"}}})
	}))
	defer srv.Close()
	r := newRouterWithFlights(t, srv.URL)
	search := gin.H{"origin": "ALG", "destination": "IST", "date": "2026-12-01", "adults": 2}

	w := doJSON(t, r, http.MethodPost, "/api/flights/search", "", search)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A price sent by the client is ignored.
	w = doJSON(t, r, http.MethodPost, "/api/flights/ticketing", "", gin.H{
		"offerId": "OF-1",
		"offer":   gin.H{"id": "OF-1", "price": 0.01},
		"search":  search,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, int64(27000), view.Total)

	w = doJSON(t, r, http.MethodPost, "/api/flights/ticketing", "", gin.H{"offerId": "OF-404", "search": search})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatFallsBackToLocalReplies(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/ai/chat", "", gin.H{"userId": "guest-1", "text": "Bonjour"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ai.SourceLocal, resp.Source)
	assert.NotEmpty(t, resp.ResponseText)
}

func TestBroadcastWithoutSubscribersConflicts(t *testing.T) {
	r := newTestRouter(t)
	admin := tokenFor(t, "ADMIN-001", utils.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/subscribers/broadcast", admin, gin.H{"subject": "Promo", "html": "<p>Omra</p>"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/subscribers", "", gin.H{"email": "fan@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/subscribers/broadcast", admin, gin.H{"subject": "Promo", "html": "<p>Omra</p>"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res tasks.BroadcastResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Queued)
	assert.Equal(t, 1, res.Recipients)
	require.NotNil(t, res.Result)
}
