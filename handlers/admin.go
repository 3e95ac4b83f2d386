package handlers

import (
	"net/http"

	"travelagency/models"
	"travelagency/services/account"
	"travelagency/services/reservation"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler covers operator-only profile management.
type AdminHandler struct {
	Store    *reservation.Store
	Accounts account.AccountService
}

func NewAdminHandler(store *reservation.Store, accounts account.AccountService) *AdminHandler {
	return &AdminHandler{Store: store, Accounts: accounts}
}

func publicUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out
}

// GetAllProfilesHandler returns every profile without passwords.
func (ah *AdminHandler) GetAllProfilesHandler(c *gin.Context) {
	users, err := ah.Store.GetProfiles(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch profiles", zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicUsers(users))
}

func (ah *AdminHandler) GetAgentsHandler(c *gin.Context) {
	agents, err := ah.Store.GetAgents(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch agents", zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicUsers(agents))
}

// SetApprovalHandler approves or rejects an agency account.
func (ah *AdminHandler) SetApprovalHandler(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	u, err := ah.Accounts.SetApprovalStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

func (ah *AdminHandler) DeleteAgentHandler(c *gin.Context) {
	users, err := ah.Accounts.DeleteAgent(c.Request.Context(), c.Param("id"))
	respondList(c, publicUsers(users), err)
}
