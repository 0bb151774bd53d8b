// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/decant/internal/domain/types"
)

// ConsistencyHandler serves the advisory monotonicity report.
type ConsistencyHandler struct {
	deps Dependencies
}

// NewConsistencyHandler creates a new consistency handler.
func NewConsistencyHandler(deps Dependencies) *ConsistencyHandler {
	return &ConsistencyHandler{deps: deps}
}

// consistencyResponse wraps the violation list so an empty report is an
// explicit object, not a bare null.
type consistencyResponse struct {
	Family     string            `json:"family"`
	Year       int               `json:"year"`
	Violations []types.Violation `json:"violations"`
}

// HandleGetReport handles GET /consistency?family=KEY&year=YYYY requests.
func (h *ConsistencyHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_consistency"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	family := r.URL.Query().Get("family")
	if family == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		year = parsed
	}

	violations, err := h.deps.FamilyReport(r.Context(), family, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if violations == nil {
		violations = []types.Violation{}
	}
	writeJSON(w, http.StatusOK, consistencyResponse{Family: family, Year: year, Violations: violations})
}
