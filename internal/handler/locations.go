package handler

import (
	"net/http"
	"time"

	"github.com/curtishsu/travelog/internal/aggregate"
	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/middleware"
)

// LocationPointResponse is one entry in the cross-trip location feed.
type LocationPointResponse struct {
	TripID      string  `json:"trip_id"`
	DayIndex    int     `json:"day_index"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CapturedAt  string  `json:"captured_at"`
	Synthesized bool    `json:"synthesized,omitempty"`
	Place       string  `json:"place,omitempty"`
	Country     string  `json:"country,omitempty"`
}

// ListLocations handles GET /locations.
// Query parameters:
//   - person: restrict to trips owned by this person ID
//   - group: restrict to trips in this group ID
//   - drop_missing_timestamps=true: skip legacy records instead of
//     synthesizing a timestamp from the trip start date
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}

	q := r.URL.Query()
	filter := aggregate.Filter{
		PersonID: q.Get("person"),
		GroupID:  q.Get("group"),
	}
	opts := aggregate.CollectOptions{
		DropMissingTimestamps: q.Get("drop_missing_timestamps") == "true",
	}

	points, err := s.locations.ListForOwner(r.Context(), owner, filter, opts)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]LocationPointResponse, len(points))
	for i, p := range points {
		data[i] = pointToResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func pointToResponse(p domain.LocationPoint) LocationPointResponse {
	return LocationPointResponse{
		TripID:      p.TripID.String(),
		DayIndex:    p.DayIndex,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		CapturedAt:  p.CapturedAt.UTC().Format(time.RFC3339),
		Synthesized: p.Synthesized,
		Place:       p.Place,
		Country:     p.Country,
	}
}
