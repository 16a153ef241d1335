// Package api exposes the latest ranking over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/vbrank/internal/adapters/output"
	service "github.com/okian/vbrank/internal/app"
	"github.com/okian/vbrank/internal/domain/model"
	"github.com/okian/vbrank/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	// Run executes the pipeline and returns the new document.
	Run(ctx context.Context) (*output.Document, error)

	// Read operations expose the latest ranking.
	Top(n int) ([]model.AggregatedTeam, error)
	Division(name string) ([]model.Standing, error)
	Region(name string) ([]model.Standing, error)
	Team(name string) (model.AggregatedTeam, error)
}

// Server wires HTTP routes for the ranking API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	rankingsHandler *RankingsHandler
	teamHandler     *TeamHandler
	refreshHandler  *RefreshHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// GET /rankings?limit.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxLimit),
		teamHandler:     NewTeamHandler(deps),
		refreshHandler:  NewRefreshHandler(deps),
	}
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/rankings", func(r chi.Router) {
		r.Get("/", s.rankingsHandler.HandleGetRankings)
		r.Get("/divisions/{division}", s.rankingsHandler.HandleGetDivision)
		r.Get("/regions/{region}", s.rankingsHandler.HandleGetRegion)
	})
	r.Get("/teams/{name}", s.teamHandler.HandleGetTeam)
	r.Post("/refresh", s.refreshHandler.HandleRefresh)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case errors.Is(err, service.ErrNoSources):
		writeError(w, http.StatusBadGateway, "no_sources", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
