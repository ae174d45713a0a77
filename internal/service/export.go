package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/normalize"
	"github.com/curtishsu/travelog/internal/repo"
)

// ExportService assembles a full flat export of an owner's trips, days,
// and locations.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided TripRepo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per location across all of the owner's trips.
// Trips with no locations contribute one row with empty location fields, so
// every trip is represented. Rows follow normalized day order within a trip
// and trips keep the repo's listing order (start_date descending).
func (s *ExportService) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	raw, err := s.trips.ListFullByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	ref := time.Now().UTC()
	rows := []domain.ExportRow{}
	for _, t := range raw {
		trip, err := normalize.Normalize(t, normalize.Options{})
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		status, err := domain.DeriveStatus(trip.StartDate, trip.EndDate, ref)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}

		types := make([]string, 0, len(trip.Types))
		for _, ty := range trip.Types {
			types = append(types, ty.Slug)
		}
		sort.Strings(types)

		base := domain.ExportRow{
			TripID:        trip.ID.String(),
			TripTitle:     trip.Title,
			TripStartDate: trip.StartDate,
			TripEndDate:   trip.EndDate,
			Status:        status,
			Types:         types,
		}

		n := len(rows)
		for _, day := range trip.Days {
			for _, loc := range day.Locations {
				row := base
				row.DayIndex = day.DayIndex
				row.Latitude = loc.Latitude
				row.Longitude = loc.Longitude
				row.CapturedAt = loc.CapturedAt
				row.Place = loc.Place
				row.Country = loc.Country
				rows = append(rows, row)
			}
		}
		if len(rows) == n {
			rows = append(rows, base)
		}
	}
	return rows, nil
}
