package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/aggregate"
	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/normalize"
	"github.com/curtishsu/travelog/internal/repo"
)

// LocationService assembles the cross-trip chronological location feed.
type LocationService struct {
	trips repo.TripRepo
}

// NewLocationService constructs a LocationService backed by the provided TripRepo.
func NewLocationService(trips repo.TripRepo) *LocationService {
	return &LocationService{trips: trips}
}

// ListForOwner returns every location across the owner's trips in a single
// chronological sequence, optionally filtered by group and with legacy
// records (no captured timestamp) either synthesized from trip dates or
// dropped. Trips are normalized before collection so day ordering is fixed.
func (s *LocationService) ListForOwner(ctx context.Context, ownerID uuid.UUID, filter aggregate.Filter, opts aggregate.CollectOptions) ([]domain.LocationPoint, error) {
	trips, err := s.loadNormalized(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.ListForOwner: %w", err)
	}
	points, err := aggregate.CollectLocations(trips, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.ListForOwner: %w", err)
	}
	return points, nil
}

// loadNormalized fetches the owner's full trips and runs each through the
// owner-view normalizer.
func (s *LocationService) loadNormalized(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	raw, err := s.trips.ListFullByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	trips := make([]domain.Trip, 0, len(raw))
	for _, trip := range raw {
		n, err := normalize.Normalize(trip, normalize.Options{})
		if err != nil {
			return nil, err
		}
		trips = append(trips, n)
	}
	return trips, nil
}

// StatsService computes the owner's summary statistics.
type StatsService struct {
	locations *LocationService
}

// NewStatsService constructs a StatsService. It reuses LocationService for
// the normalized trip load so both features see identical data.
func NewStatsService(locations *LocationService) *StatsService {
	return &StatsService{locations: locations}
}

// Summary computes the owner's statistics against the current instant.
func (s *StatsService) Summary(ctx context.Context, ownerID uuid.UUID) (domain.StatsSummary, error) {
	return s.SummaryAt(ctx, ownerID, time.Now().UTC())
}

// SummaryAt computes the owner's statistics with statuses derived against
// the given reference instant. The single ref keeps every trip's status in
// one summary consistent with the others.
func (s *StatsService) SummaryAt(ctx context.Context, ownerID uuid.UUID, ref time.Time) (domain.StatsSummary, error) {
	trips, err := s.locations.loadNormalized(ctx, ownerID)
	if err != nil {
		return domain.StatsSummary{}, fmt.Errorf("service.StatsService.SummaryAt: %w", err)
	}
	return aggregate.ComputeStats(trips, ref), nil
}
