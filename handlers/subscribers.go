package handlers

import (
	"net/http"

	"travelagency/models"
	"travelagency/services/reservation"
	"travelagency/services/tasks"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
)

// SubscriberHandler manages the newsletter list and broadcasts.
type SubscriberHandler struct {
	Store       *reservation.Store
	Broadcaster *tasks.Broadcaster
}

func NewSubscriberHandler(store *reservation.Store, b *tasks.Broadcaster) *SubscriberHandler {
	return &SubscriberHandler{Store: store, Broadcaster: b}
}

// SubscribeHandler adds an email to the newsletter. Repeats are no-ops.
func (h *SubscriberHandler) SubscribeHandler(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	sub, err := h.Store.Subscribe(c.Request.Context(), input.Email)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SubscriberHandler) ListSubscribersHandler(c *gin.Context) {
	subs, err := h.Store.GetSubscribers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *SubscriberHandler) DeleteSubscriberHandler(c *gin.Context) {
	subs, err := h.Store.DeleteSubscriber(c.Request.Context(), c.Param("id"))
	respondList(c, subs, err)
}

// BroadcastHandler sends one newsletter to every subscriber.
func (h *SubscriberHandler) BroadcastHandler(c *gin.Context) {
	var req models.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Broadcaster.Broadcast(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if res.Queued {
		status = http.StatusAccepted
	}
	c.JSON(status, res)
}
