package handlers

import (
	"net/http"

	"travelagency/models"
	ai "travelagency/services/intelligence"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AIHandler serves the storefront chat assistant.
type AIHandler struct {
	Service ai.AIService
}

func NewAIHandler(svc ai.AIService) *AIHandler {
	return &AIHandler{Service: svc}
}

// ChatHandler answers one message. Signed-in callers keep their history under
// their user id; anonymous callers may pass their own session id.
func (h *AIHandler) ChatHandler(c *gin.Context) {
	var req models.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if uid := currentUserID(c); uid != "" {
		req.UserID = uid
	}
	resp, err := h.Service.ProcessUserInput(c.Request.Context(), req)
	if err != nil {
		zap.L().Error("AI chat failed", zap.String("user", req.UserID), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) ClearContextHandler(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		userID = c.Query("userId")
	}
	if err := h.Service.ClearContext(c.Request.Context(), userID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "conversation cleared"})
}
