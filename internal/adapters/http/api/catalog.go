package api

import (
	"net/http"

	"github.com/okian/rolematch/pkg/logger"
)

// CatalogHandler serves read-only catalog and form data.
type CatalogHandler struct {
	deps CatalogDependencies
	log  logger.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps, log: logger.Nop()}
}

// HandleRoles handles GET /catalog/roles requests.
func (h *CatalogHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	roles, err := h.deps.Roles(r.Context())
	if err != nil {
		fail(r.Context(), w, h.log, "api.catalog_roles", err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

// HandleOptions handles GET /options requests.
func (h *CatalogHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Options())
}
