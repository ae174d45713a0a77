package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatsSummary is the account-wide statistics block shown on the dashboard.
// For a fixed input set and reference instant the summary is exactly
// reproducible — no metric depends on wall-clock time or map iteration order.
type StatsSummary struct {
	// TripCount is the number of trips considered, including ones that
	// were skipped from date-dependent metrics.
	TripCount int `json:"trip_count"`

	// StatusCounts counts trips by derived status, all judged against the
	// single shared reference instant of the computation.
	StatusCounts map[TripStatus]int `json:"status_counts"`

	// TotalDays and AverageDays cover inclusive trip durations
	// (end − start + 1). Trips with malformed or inverted dates are
	// excluded from both.
	TotalDays   int     `json:"total_days"`
	AverageDays float64 `json:"average_days"`

	// DistinctPlaces and DistinctCountries count labels seen across all
	// locations, deduplicated case-insensitively after trimming.
	DistinctPlaces    int `json:"distinct_places"`
	DistinctCountries int `json:"distinct_countries"`

	// TotalDistanceKm sums great-circle distance between chronologically
	// consecutive locations within each trip day. Distance resets at day
	// boundaries, so gaps between days or trips are never counted as travel.
	TotalDistanceKm float64 `json:"total_distance_km"`

	// BusiestMonth is the "2006-01" calendar month with the most active
	// trip-days; empty when no trip contributes any days. Ties resolve to
	// the earliest month.
	BusiestMonth     string `json:"busiest_month,omitempty"`
	BusiestMonthDays int    `json:"busiest_month_days"`

	// SkippedTrips and SkippedLocations count records excluded from
	// date-dependent and coordinate-dependent metrics respectively.
	// One bad record never zeroes out the whole summary.
	SkippedTrips     int `json:"skipped_trips"`
	SkippedLocations int `json:"skipped_locations"`
}

// LocationPoint is one entry in the time-ordered location feed consumed by
// the map path renderer and the timeline player.
type LocationPoint struct {
	TripID    uuid.UUID `json:"trip_id"`
	DayIndex  int       `json:"day_index"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	// CapturedAt is the effective ordering timestamp. When the source
	// record had none, it is synthesized from the trip start date and the
	// day index, and Synthesized is true.
	CapturedAt  time.Time `json:"captured_at"`
	Synthesized bool      `json:"synthesized,omitempty"`
	Place       string    `json:"place,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per location, with trip and day
// fields repeated for every location on that day. Trips with no locations
// yield one row with zero values for all day and location fields.
//
// Types is a slice of slugs for the trip, ordered alphabetically.
// Callers that need a joined string (e.g. CSV) should join with ",".
type ExportRow struct {
	// Trip fields — repeated for every location on the trip.
	TripID        string
	TripTitle     string
	TripStartDate string
	TripEndDate   string
	Status        TripStatus

	// Day and location fields — zero values when the trip has no locations.
	DayIndex   int
	Latitude   float64
	Longitude  float64
	CapturedAt *time.Time
	Place      string
	Country    string

	// Types — slugs of all trip types attached to this trip.
	Types []string
}
