// Package service contains the business logic for the Travelog API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations. Reads that leave this package are normalized: every
// trip handed to a caller has non-nil collections, days sorted by index,
// an explicit group marker, and a derived status stamped on it.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/normalize"
	"github.com/curtishsu/travelog/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	trips repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(trips repo.TripRepo) *TripService {
	return &TripService{trips: trips}
}

// Create validates and persists a new trip.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.TripWithStatus, error) {
	if err := validateTrip(trip); err != nil {
		return domain.TripWithStatus{}, err
	}
	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return s.presentOne(created, time.Now().UTC())
}

// GetByID returns a single normalized trip with nested collections and a
// derived status. Returns domain.ErrNotFound if no trip with that ID exists.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripWithStatus, error) {
	trip, err := s.trips.GetFull(ctx, id)
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return s.presentOne(trip, time.Now().UTC())
}

// ListByOwner returns all of an owner's trips, normalized, with statuses
// derived against a single shared reference instant so a trip ending today
// and a trip starting today cannot disagree about what "today" is.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.TripWithStatus, error) {
	trips, err := s.trips.ListFullByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByOwner: %w", err)
	}
	ref := time.Now().UTC()
	result := make([]domain.TripWithStatus, 0, len(trips))
	for _, trip := range trips {
		ts, err := s.presentOne(trip, ref)
		if err != nil {
			return nil, err
		}
		result = append(result, ts)
	}
	return result, nil
}

// Update validates and persists changes to an existing trip.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if
// the trip does not exist.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.TripWithStatus, error) {
	if err := validateTrip(trip); err != nil {
		return domain.TripWithStatus{}, err
	}
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return s.presentOne(updated, time.Now().UTC())
}

// Delete removes a trip by ID, cascading to its days, locations, media,
// and links. Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// presentOne normalizes a raw trip for the owner view and stamps its status.
func (s *TripService) presentOne(trip domain.Trip, ref time.Time) (domain.TripWithStatus, error) {
	normalized, err := normalize.Normalize(trip, normalize.Options{})
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.TripService: %w", err)
	}
	status, err := domain.DeriveStatus(normalized.StartDate, normalized.EndDate, ref)
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.TripService: %w", err)
	}
	return domain.TripWithStatus{Trip: normalized, Status: status}, nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - Both dates must parse as YYYY-MM-DD.
//   - StartDate must not be after EndDate.
//
// Malformed dates can still exist in the database (imported legacy rows);
// this gate only ensures the API never writes new ones.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	start, err := domain.ParseDate(trip.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	end, err := domain.ParseDate(trip.EndDate)
	if err != nil {
		return fmt.Errorf("%w: end_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start_date must not be after end_date", domain.ErrValidation)
	}
	return nil
}
