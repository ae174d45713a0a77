package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/geo"
)

// ComputeStats folds a set of normalized trips into the account-wide summary.
// The single ref instant is shared by every per-trip status derivation, so the
// counts stay consistent even when the computation straddles midnight.
//
// Partial-failure semantics: a trip with a malformed or inverted date range is
// excluded from status counts, durations, and the busiest-month metric but
// still contributes place labels and distance; a location with a non-finite
// coordinate is excluded from distance only. One bad record never aborts the
// computation.
func ComputeStats(trips []domain.Trip, ref time.Time) domain.StatsSummary {
	summary := domain.StatsSummary{
		TripCount: len(trips),
		StatusCounts: map[domain.TripStatus]int{
			domain.StatusDraft:     0,
			domain.StatusActive:    0,
			domain.StatusCompleted: 0,
		},
	}

	places := map[string]struct{}{}
	countries := map[string]struct{}{}
	monthDays := map[string]int{}
	datedTrips := 0

	for _, trip := range trips {
		start, end, dateErr := tripRange(trip)
		if dateErr {
			summary.SkippedTrips++
		}
		if !dateErr {
			status, err := domain.DeriveStatus(trip.StartDate, trip.EndDate, ref)
			if err == nil {
				summary.StatusCounts[status]++
			}

			days := int(end.Sub(start).Hours()/24) + 1
			summary.TotalDays += days
			datedTrips++

			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				monthDays[d.Format("2006-01")]++
			}
		}

		for _, day := range trip.Days {
			for _, loc := range day.Locations {
				collectLabel(places, loc.Place)
				collectLabel(countries, loc.Country)
			}
			dist, skipped := dayDistanceKm(day, start, !dateErr)
			summary.TotalDistanceKm += dist
			summary.SkippedLocations += skipped
		}
	}

	if datedTrips > 0 {
		summary.AverageDays = float64(summary.TotalDays) / float64(datedTrips)
	}
	summary.DistinctPlaces = len(places)
	summary.DistinctCountries = len(countries)
	summary.BusiestMonth, summary.BusiestMonthDays = busiest(monthDays)

	return summary
}

// tripRange parses and validates a trip's date range. An inverted range is
// treated the same as a malformed one: the trip is skipped from every
// date-dependent metric.
func tripRange(trip domain.Trip) (start, end time.Time, bad bool) {
	start, err := domain.ParseDate(trip.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, true
	}
	end, err = domain.ParseDate(trip.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, true
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, true
	}
	return start, end, false
}

// dayDistanceKm sums the great-circle distance between chronologically
// consecutive locations within one day. Cross-day gaps are never counted as
// travel — the walk restarts from nothing on each day.
//
// Ordering matches CollectLocations scoped to this day: the captured
// timestamp, with the synthesized fallback (trip start + day index) for
// records that have none. Within one day all fallback keys coincide, so
// untimestamped records tie and keep their original relative order.
func dayDistanceKm(day domain.TripDay, tripStart time.Time, startValid bool) (km float64, skipped int) {
	type keyed struct {
		loc domain.Location
		ts  time.Time
	}

	fallback := time.Time{}
	if startValid {
		fallback = synthesize(tripStart, day.DayIndex)
	}

	ordered := make([]keyed, 0, len(day.Locations))
	for _, loc := range day.Locations {
		if !finite(loc.Latitude) || !finite(loc.Longitude) {
			skipped++
			continue
		}
		ts := fallback
		if loc.CapturedAt != nil {
			ts = loc.CapturedAt.UTC()
		}
		ordered = append(ordered, keyed{loc: loc, ts: ts})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ts.Before(ordered[j].ts)
	})

	for i := 1; i < len(ordered); i++ {
		km += geo.HaversineKm(
			ordered[i-1].loc.Latitude, ordered[i-1].loc.Longitude,
			ordered[i].loc.Latitude, ordered[i].loc.Longitude,
		)
	}
	return km, skipped
}

// busiest picks the month with the highest active trip-day count.
// Month keys ("2006-01") sort chronologically, so ties resolve to the
// earliest month and the result is independent of map iteration order.
func busiest(monthDays map[string]int) (string, int) {
	best, bestDays := "", 0
	for month, days := range monthDays {
		if days > bestDays || (days == bestDays && best != "" && month < best) {
			best, bestDays = month, days
		}
	}
	return best, bestDays
}

// collectLabel adds a trimmed, case-folded label to the set; blanks are
// ignored so unlabelled locations never count as a distinct place.
func collectLabel(set map[string]struct{}, label string) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized != "" {
		set[normalized] = struct{}{}
	}
}
