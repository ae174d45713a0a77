// Package handler implements the HTTP handlers for the Travelog API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/aggregate"
	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/middleware"
	"github.com/curtishsu/travelog/internal/service"
)

// The ...Servicer interfaces define the business operations each handler
// depends on. Defining them here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.

type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.TripWithStatus, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripWithStatus, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TripWithStatus, error)
	Update(ctx context.Context, trip domain.Trip) (domain.TripWithStatus, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DayServicer interface {
	Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	Delete(ctx context.Context, tripID, dayID uuid.UUID) error
	AddLocation(ctx context.Context, loc domain.Location) (domain.Location, error)
	ListLocations(ctx context.Context, dayID uuid.UUID) ([]domain.Location, error)
}

type TypeServicer interface {
	UpsertByName(ctx context.Context, name string) (domain.TripType, error)
	ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.TripType, int64, error)
	AddToTrip(ctx context.Context, tripID uuid.UUID, name string) (domain.TripType, error)
	RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripType, error)
}

type GroupServicer interface {
	Create(ctx context.Context, name string, creator uuid.UUID) (domain.TripGroup, error)
	ListByMember(ctx context.Context, personID uuid.UUID) ([]domain.TripGroup, error)
	AddMember(ctx context.Context, groupID, personID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, personID uuid.UUID) error
}

type LocationServicer interface {
	ListForOwner(ctx context.Context, ownerID uuid.UUID, filter aggregate.Filter, opts aggregate.CollectOptions) ([]domain.LocationPoint, error)
}

type StatsServicer interface {
	Summary(ctx context.Context, ownerID uuid.UUID) (domain.StatsSummary, error)
}

type ShareServicer interface {
	IssueTrip(ctx context.Context, tripID uuid.UUID) (string, error)
	IssueAccount(ownerID uuid.UUID) (string, error)
	Validate(token string) (service.ShareClaims, error)
	GuestTrip(ctx context.Context, claims service.ShareClaims, tripID uuid.UUID) (domain.TripWithStatus, error)
}

type ExportServicer interface {
	Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds every handler dependency. Methods are in domain-specific
// files but all operate on this struct.
type Server struct {
	trips     TripServicer
	days      DayServicer
	types     TypeServicer
	groups    GroupServicer
	locations LocationServicer
	stats     StatsServicer
	shares    ShareServicer
	export    ExportServicer
	openapi   []byte
}

// NewServer constructs the Server with all its dependencies.
// openapi is the raw OpenAPI document served at /openapi.yaml; pass nil to
// disable that route.
func NewServer(trips TripServicer, days DayServicer, types TypeServicer,
	groups GroupServicer, locations LocationServicer, stats StatsServicer,
	shares ShareServicer, export ExportServicer, openapi []byte) *Server {
	return &Server{
		trips:     trips,
		days:      days,
		types:     types,
		groups:    groups,
		locations: locations,
		stats:     stats,
		shares:    shares,
		export:    export,
		openapi:   openapi,
	}
}

// Routes mounts every endpoint on a fresh chi router. Owner routes require
// the caller identity header; guest routes authenticate with a share token.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Post("/share", s.ShareTrip)

				r.Route("/days", func(r chi.Router) {
					r.Post("/", s.CreateDay)
					r.Get("/", s.ListDays)
					r.Get("/{dayID}", s.GetDay)
					r.Put("/{dayID}", s.UpdateDay)
					r.Delete("/{dayID}", s.DeleteDay)
					r.Post("/{dayID}/locations", s.AddLocation)
					r.Get("/{dayID}/locations", s.ListDayLocations)
				})

				r.Route("/types", func(r chi.Router) {
					r.Get("/", s.ListTripTypes)
					r.Post("/", s.AddTripType)
					r.Delete("/{slug}", s.RemoveTripType)
				})
			})
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", s.CreateGroup)
			r.Get("/", s.ListGroups)
			r.Post("/{groupID}/members", s.AddGroupMember)
			r.Delete("/{groupID}/members/{personID}", s.RemoveGroupMember)
		})

		r.Post("/trip-types", s.UpsertType)
		r.Get("/trip-types", s.ListTypes)
		r.Get("/locations", s.ListLocations)
		r.Get("/stats", s.GetStats)
		r.Get("/export", s.GetExport)
		r.Post("/share/account", s.ShareAccount)
	})

	r.Get("/guest/trips/{tripID}", s.GetGuestTrip)

	return r
}

// writeJSON encodes v as the response body with the given status code.
// Encoding errors past the header write can only be logged by middleware.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, rejecting unknown fields so
// client typos surface as 422s instead of silently dropped data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathUUID parses a UUID route parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
