// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/decant/internal/domain/food"
)

// lineupRequest mirrors the OpenAPI schema for POST /lineup.
type lineupRequest struct {
	BottleIDs    []string      `json:"bottle_ids"` // empty means the whole cellar
	DesiredCount int           `json:"desired_count"`
	Food         *food.Context `json:"food"` // optional
	Year         int           `json:"year"` // optional, defaults to current
}

// LineupHandler handles lineup-building requests.
type LineupHandler struct {
	deps     Dependencies
	maxCount int
}

// NewLineupHandler creates a new lineup handler.
func NewLineupHandler(deps Dependencies, maxCount int) *LineupHandler {
	return &LineupHandler{deps: deps, maxCount: maxCount}
}

// HandlePostLineup handles POST /lineup requests.
func (h *LineupHandler) HandlePostLineup(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_lineup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req lineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.DesiredCount < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if req.DesiredCount > h.maxCount {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	slots, err := h.deps.BuildLineup(r.Context(), req.BottleIDs, req.DesiredCount, req.Food, req.Year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
