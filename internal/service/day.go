package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/repo"
)

// DayService implements business logic for TripDay operations.
// It holds both trips and days repos because creating a day requires
// verifying the parent trip exists.
type DayService struct {
	trips repo.TripRepo
	days  repo.DayRepo
}

// NewDayService constructs a DayService backed by the provided repos.
func NewDayService(trips repo.TripRepo, days repo.DayRepo) *DayService {
	return &DayService{trips: trips, days: days}
}

// Create validates the day, verifies the parent trip exists, then persists.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the parent trip does not exist.
func (s *DayService) Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	if _, err := s.trips.GetByID(ctx, day.TripID); err != nil {
		return domain.TripDay{}, fmt.Errorf("service.DayService.Create: %w", err)
	}
	if err := validateDay(day); err != nil {
		return domain.TripDay{}, err
	}
	result, err := s.days.Create(ctx, day)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("service.DayService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single day by ID, scoped to the given tripID.
// Returns domain.ErrNotFound if no day with that ID exists under that trip.
func (s *DayService) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	result, err := s.days.GetByID(ctx, tripID, dayID)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("service.DayService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all days for a trip ordered by day index ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DayService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	days, err := s.days.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.DayService.ListByTripID: %w", err)
	}
	if days == nil {
		return []domain.TripDay{}, nil
	}
	return days, nil
}

// Update validates and persists changes to an existing day.
// Returns domain.ErrValidation for invalid input, domain.ErrNotFound if
// the day does not exist under the given trip.
func (s *DayService) Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	if err := validateDay(day); err != nil {
		return domain.TripDay{}, err
	}
	result, err := s.days.Update(ctx, day)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("service.DayService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a day by ID, scoped to the given tripID, cascading to
// its locations and media.
func (s *DayService) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	if err := s.days.Delete(ctx, tripID, dayID); err != nil {
		return fmt.Errorf("service.DayService.Delete: %w", err)
	}
	return nil
}

// AddLocation validates coordinates and records a location under a day.
// Returns domain.ErrValidation for out-of-range or non-finite coordinates.
func (s *DayService) AddLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	if err := validateCoords(loc.Latitude, loc.Longitude); err != nil {
		return domain.Location{}, err
	}
	result, err := s.days.AddLocation(ctx, loc)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.DayService.AddLocation: %w", err)
	}
	return result, nil
}

// ListLocations returns all locations for a day in insertion order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *DayService) ListLocations(ctx context.Context, dayID uuid.UUID) ([]domain.Location, error) {
	locs, err := s.days.ListLocations(ctx, dayID)
	if err != nil {
		return nil, fmt.Errorf("service.DayService.ListLocations: %w", err)
	}
	if locs == nil {
		return []domain.Location{}, nil
	}
	return locs, nil
}

// validateDay enforces business rules common to both Create and Update.
// DayIndex is 1-based; duplicates are allowed (the same calendar day can
// be journaled more than once) but zero and negatives are not.
func validateDay(day domain.TripDay) error {
	if day.DayIndex < 1 {
		return fmt.Errorf("%w: day_index must be >= 1", domain.ErrValidation)
	}
	return nil
}

func validateCoords(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("%w: coordinates must be finite", domain.ErrValidation)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}
