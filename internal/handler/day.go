package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
)

// DayRequest is the body for POST and PUT under /trips/{tripID}/days.
type DayRequest struct {
	DayIndex int     `json:"day_index"`
	Notes    *string `json:"notes"`
}

type DayResponse struct {
	ID        uuid.UUID          `json:"id"`
	TripID    uuid.UUID          `json:"trip_id"`
	DayIndex  int                `json:"day_index"`
	Notes     string             `json:"notes,omitempty"`
	Locations []LocationResponse `json:"locations"`
	Media     []MediaResponse    `json:"media"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// LocationRequest is the body for POST /trips/{tripID}/days/{dayID}/locations.
type LocationRequest struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	CapturedAt *time.Time `json:"captured_at"`
	Place      *string    `json:"place"`
	Country    *string    `json:"country"`
}

type LocationResponse struct {
	ID         uuid.UUID `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt string    `json:"captured_at,omitempty"`
	Place      string    `json:"place,omitempty"`
	Country    string    `json:"country,omitempty"`
}

type MediaResponse struct {
	ID   uuid.UUID `json:"id"`
	URL  string    `json:"url"`
	Kind string    `json:"kind"`
}

// CreateDay handles POST /trips/{tripID}/days.
func (s *Server) CreateDay(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}
	var req DayRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	day := domain.TripDay{TripID: tripID, DayIndex: req.DayIndex}
	if req.Notes != nil {
		day.Notes = *req.Notes
	}
	created, err := s.days.Create(r.Context(), day)
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

	writeJSON(w, http.StatusCreated, dayToResponse(created))
}

// ListDays handles GET /trips/{tripID}/days.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	days, err := s.days.ListByTripID(r.Context(), tripID)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]DayResponse, len(days))
	for i, d := range days {
		data[i] = dayToResponse(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// GetDay handles GET /trips/{tripID}/days/{dayID}.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	day, err := s.days.GetByID(r.Context(), tripID, dayID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "day not found")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, dayToResponse(day))
}

// UpdateDay handles PUT /trips/{tripID}/days/{dayID}.
func (s *Server) UpdateDay(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}
	var req DayRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	day := domain.TripDay{ID: dayID, TripID: tripID, DayIndex: req.DayIndex}
	if req.Notes != nil {
		day.Notes = *req.Notes
	}
	updated, err := s.days.Update(r.Context(), day)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "day not found")
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		default:
			internalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, dayToResponse(updated))
}

// DeleteDay handles DELETE /trips/{tripID}/days/{dayID}.
func (s *Server) DeleteDay(w http.ResponseWriter, r *http.Request) {
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	if err := s.days.Delete(r.Context(), tripID, dayID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "day not found")
			return
		}
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLocation handles POST /trips/{tripID}/days/{dayID}/locations.
func (s *Server) AddLocation(w http.ResponseWriter, r *http.Request) {
	_, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}
	var req LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	loc := domain.Location{
		DayID:      dayID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		CapturedAt: req.CapturedAt,
	}
	if req.Place != nil {
		loc.Place = *req.Place
	}
	if req.Country != nil {
		loc.Country = *req.Country
	}
	created, err := s.days.AddLocation(r.Context(), loc)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, locationToResponse(created))
}

// ListDayLocations handles GET /trips/{tripID}/days/{dayID}/locations.
func (s *Server) ListDayLocations(w http.ResponseWriter, r *http.Request) {
	_, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	locs, err := s.days.ListLocations(r.Context(), dayID)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]LocationResponse, len(locs))
	for i, l := range locs {
		data[i] = locationToResponse(l)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// dayPath parses the trip and day route parameters, writing a 404 on failure.
func dayPath(w http.ResponseWriter, r *http.Request) (tripID, dayID uuid.UUID, ok bool) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return uuid.UUID{}, uuid.UUID{}, false
	}
	dayID, err = pathUUID(r, "dayID")
	if err != nil {
		notFound(w, "day not found")
		return uuid.UUID{}, uuid.UUID{}, false
	}
	return tripID, dayID, true
}

func dayToResponse(d domain.TripDay) DayResponse {
	resp := DayResponse{
		ID:        d.ID,
		TripID:    d.TripID,
		DayIndex:  d.DayIndex,
		Notes:     d.Notes,
		Locations: make([]LocationResponse, len(d.Locations)),
		Media:     make([]MediaResponse, len(d.Media)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for i, l := range d.Locations {
		resp.Locations[i] = locationToResponse(l)
	}
	for i, m := range d.Media {
		resp.Media[i] = MediaResponse{ID: m.ID, URL: m.URL, Kind: m.Kind}
	}
	return resp
}

func locationToResponse(l domain.Location) LocationResponse {
	return LocationResponse{
		ID:         l.ID,
		Latitude:   l.Latitude,
		Longitude:  l.Longitude,
		CapturedAt: formatOptionalTime(l.CapturedAt),
		Place:      l.Place,
		Country:    l.Country,
	}
}
