// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/okian/decant/internal/domain/food"
)

// pairingRequest mirrors the OpenAPI schema for POST /pairing.
type pairingRequest struct {
	BottleID string       `json:"bottle_id"`
	Food     food.Context `json:"food"`
}

// PairingHandler handles pairing-score requests.
type PairingHandler struct {
	deps Dependencies
}

// NewPairingHandler creates a new pairing handler.
func NewPairingHandler(deps Dependencies) *PairingHandler {
	return &PairingHandler{deps: deps}
}

// HandlePostPairing handles POST /pairing requests.
func (h *PairingHandler) HandlePostPairing(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_pairing"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.BottleID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	res, err := h.deps.Pair(r.Context(), req.BottleID, req.Food)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
