package handlers

import (
	"net/http"

	"travelagency/models"
	"travelagency/services/reservation"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes stored bookings to operators, agencies and clients.
type BookingHandler struct {
	Store *reservation.Store
}

func NewBookingHandler(store *reservation.Store) *BookingHandler {
	return &BookingHandler{Store: store}
}

// ListBookingsHandler returns every live booking (admin).
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.Store.GetBookings(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// MyBookingsHandler returns the agency's bookings for agents and the
// bookings placed under the caller's email otherwise.
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	var (
		bookings []models.Booking
		err      error
	)
	if agencyID := agencyScope(c); agencyID != "" {
		bookings, err = h.Store.GetBookingsByAgency(c.Request.Context(), agencyID)
	} else {
		bookings, err = h.Store.GetBookingsByEmail(c.Request.Context(), currentEmail(c))
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Store.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateStatusHandler moves a booking to another lifecycle status.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	bookings, err := h.Store.UpdateBookingStatus(c.Request.Context(), c.Param("id"), input.Status)
	respondList(c, bookings, err)
}

func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	bookings, err := h.Store.DeleteBooking(c.Request.Context(), c.Param("id"))
	respondList(c, bookings, err)
}
