package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"travelagency/models"
	"travelagency/services/notification"
	"travelagency/services/reservation"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler covers agency top-up requests and their review.
type WalletHandler struct {
	Store           *reservation.Store
	NotificationSvc notification.NotificationService
}

func NewWalletHandler(store *reservation.Store, ns notification.NotificationService) *WalletHandler {
	return &WalletHandler{Store: store, NotificationSvc: ns}
}

// CreateRequestHandler files a top-up request for the calling agency.
func (h *WalletHandler) CreateRequestHandler(c *gin.Context) {
	var input models.WalletTopUpRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	req, err := h.Store.CreateWalletRequest(c.Request.Context(), currentUserID(c), input.Amount, input.ProofImage)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if h.NotificationSvc != nil {
		body := fmt.Sprintf("%s requested a top-up of %d DZD", req.AgencyName, req.Amount)
		if err := h.NotificationSvc.NotifyAdmins(c.Request.Context(), "New wallet request", body, map[string]string{"requestId": req.ID}); err != nil {
			zap.L().Warn("Failed to notify admins of wallet request", zap.String("request", req.ID), zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, req)
}

// MyRequestsHandler lists the calling agency's requests.
func (h *WalletHandler) MyRequestsHandler(c *gin.Context) {
	reqs, err := h.Store.GetWalletRequestsByAgency(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *WalletHandler) ListRequestsHandler(c *gin.Context) {
	reqs, err := h.Store.GetWalletRequests(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *WalletHandler) ApproveHandler(c *gin.Context) {
	req, err := h.Store.ApproveWalletRequest(c.Request.Context(), c.Param("id"))
	h.respondDecision(c, req, err)
}

func (h *WalletHandler) RejectHandler(c *gin.Context) {
	req, err := h.Store.RejectWalletRequest(c.Request.Context(), c.Param("id"))
	h.respondDecision(c, req, err)
}

// A partial update leaves the request approved without the credit, so the
// operator must see it as a failure and reconcile the balance by hand.
func (h *WalletHandler) respondDecision(c *gin.Context, req *models.WalletRequest, err error) {
	var partial *reservation.PartialUpdateError
	if errors.As(err, &partial) {
		zap.L().Error("Wallet credit failed after approval", zap.String("request", partial.RequestID), zap.Error(partial.Err))
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse{Message: "Balance credit failed", Details: partial.Error()})
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
