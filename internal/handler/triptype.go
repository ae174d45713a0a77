package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
)

// TypeRequest is the body for POST /trip-types and POST /trips/{tripID}/types.
type TypeRequest struct {
	Name string `json:"name"`
}

type TypeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination echoes the effective paging values alongside the total count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// UpsertType handles POST /trip-types.
func (s *Server) UpsertType(w http.ResponseWriter, r *http.Request) {
	var req TypeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	ty, err := s.types.UpsertByName(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, typeToResponse(ty))
}

// ListTypes handles GET /trip-types.
// Supports ?prefix=, ?page=, and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListTypes(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)

	types, total, err := s.types.ListPaged(r.Context(), r.URL.Query().Get("prefix"), params)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]TypeResponse, len(types))
	for i, ty := range types {
		data[i] = typeToResponse(ty)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":       data,
		"pagination": Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// ListTripTypes handles GET /trips/{tripID}/types.
func (s *Server) ListTripTypes(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	types, err := s.types.ListByTrip(r.Context(), tripID)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]TypeResponse, len(types))
	for i, ty := range types {
		data[i] = typeToResponse(ty)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// AddTripType handles POST /trips/{tripID}/types.
func (s *Server) AddTripType(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}
	var req TypeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	ty, err := s.types.AddToTrip(r.Context(), tripID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "trip not found")
		default:
			internalError(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, typeToResponse(ty))
}

// RemoveTripType handles DELETE /trips/{tripID}/types/{slug}.
func (s *Server) RemoveTripType(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	if err := s.types.RemoveFromTrip(r.Context(), tripID, chi.URLParam(r, "slug")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "type not linked to trip")
			return
		}
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter, returning nil when
// absent or malformed so pagination falls back to its defaults.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func typeToResponse(ty domain.TripType) TypeResponse {
	return TypeResponse{ID: ty.ID, Name: ty.Name, Slug: ty.Slug, CreatedAt: ty.CreatedAt}
}
