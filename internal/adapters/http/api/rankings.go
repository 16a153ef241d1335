package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/vbrank/internal/domain/model"
)

// RankingsDependencies defines the read operations behind /rankings.
type RankingsDependencies interface {
	Top(n int) ([]model.AggregatedTeam, error)
	Division(name string) ([]model.Standing, error)
	Region(name string) ([]model.Standing, error)
}

// RankingsHandler handles ranking requests.
type RankingsHandler struct {
	deps     RankingsDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /rankings?limit=N requests. Without a limit
// the first maxLimit teams are returned.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %d", ErrLimitExceeded, h.maxLimit))
			return
		}
		n = v
	}
	teams, err := h.deps.Top(n)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleGetDivision handles GET /rankings/divisions/{division} requests.
func (h *RankingsHandler) HandleGetDivision(w http.ResponseWriter, r *http.Request) {
	standings, err := h.deps.Division(pathParam(r, "division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// HandleGetRegion handles GET /rankings/regions/{region} requests.
func (h *RankingsHandler) HandleGetRegion(w http.ResponseWriter, r *http.Request) {
	standings, err := h.deps.Region(pathParam(r, "region"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}
