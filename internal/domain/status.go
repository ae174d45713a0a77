package domain

import (
	"fmt"
	"time"
)

// TripStatus is the derived lifecycle state of a trip. It is always a pure
// function of (start date, end date, reference instant) and is never stored,
// so it can never drift from the dates.
type TripStatus string

const (
	// StatusDraft means the reference date is before the trip starts.
	StatusDraft TripStatus = "draft"
	// StatusActive means the reference date falls inside the trip,
	// start and end inclusive. A single-day trip is active exactly on
	// that day.
	StatusActive TripStatus = "active"
	// StatusCompleted means the reference date is after the trip ends.
	StatusCompleted TripStatus = "completed"
)

// DateLayout is the ISO calendar-date layout used for all trip dates.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar-date string into a UTC-midnight time.Time.
// It rejects anything that is not a valid calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("domain.ParseDate: %w", err)
	}
	return t, nil
}

// DeriveStatus computes a trip's lifecycle status from its date range and a
// reference instant. The reference instant is truncated to a UTC calendar
// date before comparison, so the result is identical for all users regardless
// of their local timezone.
//
// Callers computing over a batch must pass one shared reference instant so
// every trip in the batch is judged against the same "today".
//
// A start date after the end date is not validated here — the write boundary
// rejects inverted ranges before they are persisted.
func DeriveStatus(startDate, endDate string, ref time.Time) (TripStatus, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return "", fmt.Errorf("domain.DeriveStatus: start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return "", fmt.Errorf("domain.DeriveStatus: end date: %w", err)
	}

	y, m, d := ref.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch {
	case today.Before(start):
		return StatusDraft, nil
	case today.After(end):
		return StatusCompleted, nil
	default:
		return StatusActive, nil
	}
}
