package handlers

import (
	"net/http"

	"travelagency/models"
	"travelagency/services/reservation"
	"travelagency/utils"

	"github.com/gin-gonic/gin"
)

// PackageHandler serves the storefront catalog and its admin editing.
type PackageHandler struct {
	Store *reservation.Store
}

func NewPackageHandler(store *reservation.Store) *PackageHandler {
	return &PackageHandler{Store: store}
}

// ListPackagesHandler returns live packages, optionally filtered by ?type=.
func (h *PackageHandler) ListPackagesHandler(c *gin.Context) {
	var (
		pkgs []models.TravelPackage
		err  error
	)
	if t := c.Query("type"); t != "" {
		pkgs, err = h.Store.GetPackagesByType(c.Request.Context(), t)
	} else {
		pkgs, err = h.Store.GetPackages(c.Request.Context())
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkgs)
}

func (h *PackageHandler) GetPackageHandler(c *gin.Context) {
	pkg, err := h.Store.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// SavePackageHandler creates or replaces a package.
func (h *PackageHandler) SavePackageHandler(c *gin.Context) {
	var pkg models.TravelPackage
	if err := c.ShouldBindJSON(&pkg); err != nil {
		badRequest(c, err)
		return
	}
	if id := c.Param("id"); id != "" {
		pkg.ID = id
	}
	pkgs, err := h.Store.SavePackage(c.Request.Context(), pkg)
	respondList(c, pkgs, err)
}

func (h *PackageHandler) ArchivePackageHandler(c *gin.Context) {
	pkgs, err := h.Store.ArchivePackage(c.Request.Context(), c.Param("id"))
	respondList(c, pkgs, err)
}

func (h *PackageHandler) DeletePackageHandler(c *gin.Context) {
	pkgs, err := h.Store.DeletePackage(c.Request.Context(), c.Param("id"))
	respondList(c, pkgs, err)
}
