package handler

import (
	"net/http"

	"github.com/curtishsu/travelog/internal/middleware"
)

// GetStats handles GET /stats.
// The StatsSummary domain type carries its own JSON tags, so it is written
// directly instead of through a DTO.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}

	summary, err := s.stats.Summary(r.Context(), owner)
	if err != nil {
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
