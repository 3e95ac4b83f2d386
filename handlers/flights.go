package handlers

import (
	"errors"
	"net/http"

	"travelagency/models"
	"travelagency/services/booking"
	"travelagency/services/flight"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
)

// FlightHandler searches fares and turns a chosen offer into a ticketing wizard.
type FlightHandler struct {
	Provider flight.Provider
	Bookings booking.BookingService
}

func NewFlightHandler(p flight.Provider, bs booking.BookingService) *FlightHandler {
	return &FlightHandler{Provider: p, Bookings: bs}
}

func (h *FlightHandler) SearchHandler(c *gin.Context) {
	var req models.FlightSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	offers, err := h.Provider.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, flight.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// StartTicketingHandler opens a wizard for an offer from a previous search.
func (h *FlightHandler) StartTicketingHandler(c *gin.Context) {
	var input struct {
		OfferID string                     `json:"offerId" binding:"required"`
		Search  models.FlightSearchRequest `json:"search"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.Bookings.StartTicketing(c.Request.Context(), input.OfferID, input.Search, agencyScope(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}
