package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/ringside/internal/domain/model"
)

// ProductionDependencies defines the interface for production lookups.
type ProductionDependencies interface {
	Production(ctx context.Context, id string) (model.Production, error)
}

// ProductionHandler handles production requests.
type ProductionHandler struct {
	deps ProductionDependencies
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(deps ProductionDependencies) *ProductionHandler {
	return &ProductionHandler{deps: deps}
}

// HandleGetProduction handles GET /productions/{id} requests.
func (h *ProductionHandler) HandleGetProduction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/productions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	p, err := h.deps.Production(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, productionView{
		Production: p,
		Card:       lo.Map(p.Segments, func(s model.Segment, _ int) string { return s.Name }),
	})
}
