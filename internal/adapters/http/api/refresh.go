package api

import (
	"context"
	"net/http"

	"github.com/okian/vbrank/internal/adapters/output"
)

// RefreshDependencies defines the interface for re-running the pipeline.
type RefreshDependencies interface {
	Run(ctx context.Context) (*output.Document, error)
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh. The pipeline runs synchronously and
// the new document's metadata is returned.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	doc, err := h.deps.Run(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Metadata)
}
