package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/middleware"
)

// TripRequest is the body for POST /trips and PUT /trips/{id}.
// Dates are strict "2006-01-02" strings; anything else fails decoding.
type TripRequest struct {
	Title     string              `json:"title"`
	StartDate openapi_types.Date  `json:"start_date"`
	EndDate   openapi_types.Date  `json:"end_date"`
	Notes     *string             `json:"notes"`
	GroupID   *openapi_types.UUID `json:"group_id"`
}

// TripResponse is the owner-facing trip representation. Dates come back as
// raw strings because imported legacy rows can hold values that do not
// parse; the API reports them as stored instead of failing the read.
type TripResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Status    domain.TripStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	Group     GroupMarker       `json:"group"`
	Days      []DayResponse     `json:"days"`
	Links     []LinkResponse    `json:"links"`
	Types     []string          `json:"types"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// GroupMarker is the explicit grouping state of a trip. Grouped is always
// present so clients never have to treat a missing key as "ungrouped".
type GroupMarker struct {
	Grouped bool   `json:"grouped"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
}

type LinkResponse struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Label string    `json:"label,omitempty"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}
	var req TripRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(owner, req))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}

	trips, err := s.trips.ListByOwner(r.Context(), owner)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]TripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}
	var req TripRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	trip := requestToTrip(owner, req)
	trip.ID = id
	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "trip not found")
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		default:
			internalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func requestToTrip(owner uuid.UUID, req TripRequest) domain.Trip {
	t := domain.Trip{
		OwnerID:   owner,
		Title:     req.Title,
		StartDate: req.StartDate.Format(domain.DateLayout),
		EndDate:   req.EndDate.Format(domain.DateLayout),
	}
	if req.Notes != nil {
		t.Notes = *req.Notes
	}
	if req.GroupID != nil {
		t.Group = domain.GroupRef{Present: true, ID: *req.GroupID}
	}
	return t
}

func tripToResponse(t domain.TripWithStatus) TripResponse {
	resp := TripResponse{
		ID:        t.ID,
		Title:     t.Title,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		Status:    t.Status,
		Notes:     t.Notes,
		Group:     GroupMarker{Grouped: t.Group.Present},
		Days:      make([]DayResponse, len(t.Days)),
		Links:     make([]LinkResponse, len(t.Links)),
		Types:     make([]string, len(t.Types)),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Group.Present {
		resp.Group.ID = t.Group.ID.String()
		resp.Group.Name = t.Group.Name
	}
	for i, d := range t.Days {
		resp.Days[i] = dayToResponse(d)
	}
	for i, l := range t.Links {
		resp.Links[i] = LinkResponse{ID: l.ID, URL: l.URL, Label: l.Label}
	}
	for i, ty := range t.Types {
		resp.Types[i] = ty.Slug
	}
	return resp
}
