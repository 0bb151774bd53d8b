// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/okian/decant/internal/domain/model"
)

// BottlesHandler handles bottle intake and lookup requests.
type BottlesHandler struct {
	deps Dependencies
}

// NewBottlesHandler creates a new bottles handler.
func NewBottlesHandler(deps Dependencies) *BottlesHandler {
	return &BottlesHandler{deps: deps}
}

// HandlePostBottle handles POST /bottles requests.
func (h *BottlesHandler) HandlePostBottle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_bottle"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req bottleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.ID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, ID: req.ID})
		return
	}

	bottle := model.Bottle{
		ID:        req.ID,
		Name:      req.Name,
		Category:  model.ParseCategory(req.Category),
		Region:    req.Region,
		Varieties: req.Varieties,
		Rating:    req.Rating,
		Vintage:   req.Vintage,
		AddedAt:   time.Now(),
	}
	if req.PurchasedAt != "" {
		// Already validated as RFC3339.
		bottle.PurchasedAt, _ = time.Parse(time.RFC3339, req.PurchasedAt)
	}

	if _, err := h.deps.AddBottle(r.Context(), bottle); err != nil {
		// Rollback the "seen" status since the store rejected it
		h.deps.Unrecord(r.Context(), req.ID)
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false, ID: req.ID})
}

// HandleGetBottle handles GET /bottles/{id} and
// GET /bottles/{id}/readiness requests.
func (h *BottlesHandler) HandleGetBottle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/bottles/")
	id, rest, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch rest {
	case "":
		rec, err := h.deps.Bottle(r.Context(), id)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case "readiness":
		year := time.Now().Year()
		if y := r.URL.Query().Get("year"); y != "" {
			parsed, err := strconv.Atoi(y)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
				return
			}
			year = parsed
		}
		res, err := h.deps.Readiness(r.Context(), id, year)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	default:
		http.NotFound(w, r)
	}
}
