package handlers

import (
	"errors"
	"net/http"

	"travelagency/middleware"
	"travelagency/services/reservation"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondList writes the refreshed list of a mutation. A remote delete
// failure still succeeds locally and is reported as a warning.
func respondList[T any](c *gin.Context, items []T, err error) {
	var warn *reservation.RemoteSyncWarning
	if errors.As(err, &warn) {
		zap.L().Warn("remote delete failed", zap.String("table", warn.Table), zap.String("id", warn.ID), zap.Error(warn.Err))
		c.JSON(http.StatusOK, gin.H{"items": items, "warning": warn.Error()})
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func currentUserID(c *gin.Context) string { return c.GetString(middleware.CtxUserID) }

func currentRole(c *gin.Context) string { return c.GetString(middleware.CtxRole) }

func currentEmail(c *gin.Context) string { return c.GetString(middleware.CtxEmail) }

// agencyScope returns the caller's id when the caller is an agency.
func agencyScope(c *gin.Context) string {
	if currentRole(c) == utils.RoleAgent {
		return currentUserID(c)
	}
	return ""
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
}
