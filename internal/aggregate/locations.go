// Package aggregate computes time-ordered location feeds and account-wide
// statistics over normalized trip records. Both computations are pure: they
// read one input snapshot, return a fresh result, and retain no state between
// calls, so presentation layers can re-derive them on every filter change.
package aggregate

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/curtishsu/travelog/internal/domain"
)

// Filter selects which trips contribute locations. Identifiers are opaque
// strings supplied by the caller; an empty value means "no filter", never an
// error. Accessibility of the trips themselves is the caller's concern —
// the aggregator only narrows an already-scoped set.
type Filter struct {
	PersonID string
	GroupID  string
}

// CollectOptions tunes a single CollectLocations call.
type CollectOptions struct {
	// DropMissingTimestamps excludes locations without a captured
	// timestamp instead of ordering them by the synthesized fallback key.
	DropMissingTimestamps bool
}

// CollectLocations flattens the locations of the given trips into one
// sequence ordered chronologically by captured timestamp. The order is total:
// equal timestamps tie-break by trip ID, then day index, then original record
// order, so repeated calls over the same input produce the same sequence —
// required for timeline playback and map path rendering.
//
// Locations without a timestamp are kept and ordered by a synthesized key
// (trip start date + day index) unless opts.DropMissingTimestamps is set.
// A non-finite coordinate fails the whole call; guessing a position would
// corrupt the rendered path.
func CollectLocations(trips []domain.Trip, filter Filter, opts CollectOptions) ([]domain.LocationPoint, error) {
	points := []domain.LocationPoint{}

	for _, trip := range trips {
		if !filter.matches(trip) {
			continue
		}

		var start time.Time
		var startErr error
		if needsFallback(trip) && !opts.DropMissingTimestamps {
			start, startErr = domain.ParseDate(trip.StartDate)
			if startErr != nil {
				return nil, fmt.Errorf("aggregate.CollectLocations: trip %s: cannot synthesize timestamps: %w", trip.ID, startErr)
			}
		}

		for _, day := range trip.Days {
			for _, loc := range day.Locations {
				if !finite(loc.Latitude) || !finite(loc.Longitude) {
					return nil, fmt.Errorf("aggregate.CollectLocations: trip %s day %d: non-finite coordinate", trip.ID, day.DayIndex)
				}

				point := domain.LocationPoint{
					TripID:    trip.ID,
					DayIndex:  day.DayIndex,
					Latitude:  loc.Latitude,
					Longitude: loc.Longitude,
					Place:     loc.Place,
					Country:   loc.Country,
				}
				switch {
				case loc.CapturedAt != nil:
					point.CapturedAt = loc.CapturedAt.UTC()
				case opts.DropMissingTimestamps:
					continue
				default:
					point.CapturedAt = synthesize(start, day.DayIndex)
					point.Synthesized = true
				}
				points = append(points, point)
			}
		}
	}

	// SliceStable preserves the original record order for full key ties.
	sort.SliceStable(points, func(i, j int) bool {
		return lessPoint(points[i], points[j])
	})

	return points, nil
}

// lessPoint orders by (captured timestamp, trip ID, day index).
func lessPoint(a, b domain.LocationPoint) bool {
	if !a.CapturedAt.Equal(b.CapturedAt) {
		return a.CapturedAt.Before(b.CapturedAt)
	}
	if a.TripID != b.TripID {
		return bytes.Compare(a.TripID[:], b.TripID[:]) < 0
	}
	return a.DayIndex < b.DayIndex
}

// synthesize derives a stand-in timestamp for legacy records: UTC midnight of
// the trip start date advanced by the (1-based) day index.
func synthesize(start time.Time, dayIndex int) time.Time {
	offset := dayIndex - 1
	if offset < 0 {
		offset = 0
	}
	return start.AddDate(0, 0, offset)
}

// needsFallback reports whether any location in the trip lacks a timestamp.
func needsFallback(trip domain.Trip) bool {
	for _, day := range trip.Days {
		for _, loc := range day.Locations {
			if loc.CapturedAt == nil {
				return true
			}
		}
	}
	return false
}

func (f Filter) matches(trip domain.Trip) bool {
	if f.PersonID != "" && trip.OwnerID.String() != f.PersonID {
		return false
	}
	if f.GroupID != "" {
		if !trip.Group.Present || trip.Group.ID.String() != f.GroupID {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
