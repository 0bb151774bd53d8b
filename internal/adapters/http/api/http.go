// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/decant/internal/adapters/repository"
	"github.com/okian/decant/internal/domain/dedupe"
	"github.com/okian/decant/internal/domain/food"
	"github.com/okian/decant/internal/domain/model"
	"github.com/okian/decant/internal/domain/pairing"
	"github.com/okian/decant/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// AddBottle stores a bottle and schedules profile estimation.
	AddBottle(ctx context.Context, b model.Bottle) (bool, error)

	// Read operations expose cellar data and engine results.
	Bottle(ctx context.Context, id string) (repository.Record, error)
	Readiness(ctx context.Context, id string, asOfYear int) (types.Readiness, error)
	Pair(ctx context.Context, id string, fc food.Context) (pairing.Result, error)
	BuildLineup(ctx context.Context, ids []string, desiredCount int, fc *food.Context, asOfYear int) ([]types.Slot, error)
	FamilyReport(ctx context.Context, familyKey string, asOfYear int) ([]types.Violation, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	bottlesHandler     *BottlesHandler
	pairingHandler     *PairingHandler
	lineupHandler      *LineupHandler
	consistencyHandler *ConsistencyHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLineupSize int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		bottlesHandler:     NewBottlesHandler(deps),
		pairingHandler:     NewPairingHandler(deps),
		lineupHandler:      NewLineupHandler(deps, maxLineupSize),
		consistencyHandler: NewConsistencyHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/bottles", MetricsMiddleware(s.bottlesHandler.HandlePostBottle, "bottles"))
	mux.HandleFunc("/bottles/", MetricsMiddleware(s.bottlesHandler.HandleGetBottle, "bottle"))
	mux.HandleFunc("/pairing", MetricsMiddleware(s.pairingHandler.HandlePostPairing, "pairing"))
	mux.HandleFunc("/lineup", MetricsMiddleware(s.lineupHandler.HandlePostLineup, "lineup"))
	mux.HandleFunc("/consistency", MetricsMiddleware(s.consistencyHandler.HandleGetReport, "consistency"))
}

// bottleRequest mirrors the OpenAPI schema for POST /bottles.
type bottleRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Region      string   `json:"region"`
	Varieties   []string `json:"varieties"`
	Rating      float64  `json:"rating"`
	Vintage     int      `json:"vintage"`
	PurchasedAt string   `json:"purchased_at"` // RFC3339, optional
}

func (b bottleRequest) validate() error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return errors.New("missing name")
	case b.Rating < 0 || b.Rating > 5:
		return errors.New("rating must be within 0-5")
	}
	if b.PurchasedAt != "" {
		if _, err := time.Parse(time.RFC3339, b.PurchasedAt); err != nil {
			return errors.New("invalid purchased_at; must be RFC3339")
		}
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	ID        string `json:"id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
