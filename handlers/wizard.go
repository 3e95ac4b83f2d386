package handlers

import (
	"net/http"
	"strconv"

	"travelagency/services/booking"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
)

// WizardHandler drives booking wizards. Agency callers get their agency
// attached to every wizard they start.
type WizardHandler struct {
	Service booking.BookingService
}

func NewWizardHandler(svc booking.BookingService) *WizardHandler {
	return &WizardHandler{Service: svc}
}

func (h *WizardHandler) respond(c *gin.Context, status int, view *booking.WizardView, err error) {
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(status, view)
}

// StartWizardHandler opens a wizard for a catalog package.
func (h *WizardHandler) StartWizardHandler(c *gin.Context) {
	var input struct {
		PackageID string `json:"packageId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.Service.StartWizard(c.Request.Context(), input.PackageID, agencyScope(c))
	h.respond(c, http.StatusCreated, view, err)
}

func (h *WizardHandler) GetWizardHandler(c *gin.Context) {
	view, err := h.Service.GetWizard(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *WizardHandler) UpdateWizardHandler(c *gin.Context) {
	var upd booking.WizardUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.Service.UpdateWizard(c.Request.Context(), c.Param("id"), upd)
	h.respond(c, http.StatusOK, view, err)
}

func (h *WizardHandler) NextHandler(c *gin.Context) {
	view, err := h.Service.Next(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

func (h *WizardHandler) BackHandler(c *gin.Context) {
	view, err := h.Service.Back(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, view, err)
}

// SubmitHandler turns a reviewed wizard into a pending booking.
func (h *WizardHandler) SubmitHandler(c *gin.Context) {
	b, err := h.Service.SubmitWizard(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *WizardHandler) CancelHandler(c *gin.Context) {
	if err := h.Service.CancelWizard(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wizard cancelled"})
}

// QuoteHandler prices a package for ?adults=&children=&babies= without
// opening a wizard.
func (h *WizardHandler) QuoteHandler(c *gin.Context) {
	counts := booking.Counts{
		Adults:   queryInt(c, "adults", 1),
		Children: queryInt(c, "children", 0),
		Babies:   queryInt(c, "babies", 0),
	}
	q, err := h.Service.Quote(c.Request.Context(), c.Param("id"), counts, agencyScope(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
