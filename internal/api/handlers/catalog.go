package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i9-energia/solar-estimator/internal/api/response"
	"github.com/i9-energia/solar-estimator/internal/catalog"
)

// CatalogHandler serves the lookup tables currently in effect.
type CatalogHandler struct {
	store *catalog.Store
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// HandleListCities handles GET /api/v1/cities.
func (h *CatalogHandler) HandleListCities(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Load().ListCities())
}

// HandleListKits handles GET /api/v1/kits. An empty catalog lists the default kit.
func (h *CatalogHandler) HandleListKits(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Load().ListKits())
}

// HandleListTariffs handles GET /api/v1/tariffs.
func (h *CatalogHandler) HandleListTariffs(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Load().ListTariffs())
}
