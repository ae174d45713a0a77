// Package domain contains the core data types for the Travelog application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (normalize, aggregate, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a single journey with a start and end calendar date.
// A trip is the top-level aggregate; days belong to a trip, locations and
// media belong to days.
//
// StartDate and EndDate are ISO calendar-date strings ("2006-01-02") rather
// than time.Time values: records imported from older journals can carry
// malformed dates, and those records must remain representable so that
// aggregation can skip them individually instead of failing a whole batch.
//
// Days, Links, and Types may be nil on a raw read. normalize.Normalize
// guarantees they are non-nil and ordered before the record reaches any
// aggregation or presentation consumer.
type Trip struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Notes     string     `json:"notes,omitempty"`
	Days      []TripDay  `json:"days"`
	Links     []TripLink `json:"links"`
	Types     []TripType `json:"types"`
	Group     GroupRef   `json:"group"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TripDay is one calendar day within a trip. DayIndex defines chronological
// order within the trip (1-based); it is not guaranteed pre-sorted on a raw
// read and ties are possible on legacy data.
type TripDay struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"trip_id"`
	DayIndex  int        `json:"day_index"`
	Notes     string     `json:"notes,omitempty"`
	Locations []Location `json:"locations"`
	Media     []MediaRef `json:"media"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Location is a single geographic point captured during a trip day.
// CapturedAt is nil on legacy records that predate timestamp capture.
type Location struct {
	ID         uuid.UUID  `json:"id"`
	DayID      uuid.UUID  `json:"day_id"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	Place      string     `json:"place,omitempty"`
	Country    string     `json:"country,omitempty"`
}

// MediaRef points at an externally stored photo or video attached to a day.
// The core never touches the bytes — storage is a collaborator concern.
type MediaRef struct {
	ID   uuid.UUID `json:"id"`
	URL  string    `json:"url"`
	Kind string    `json:"kind"` // "photo" or "video"
}

// TripLink is an auxiliary URL attached to a trip (booking, blog post, ...).
type TripLink struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Label string    `json:"label,omitempty"`
}

// TripType is a user-defined label that can be applied to trips.
// Types are global — not owned by any trip. Identity is determined by Slug,
// which is always lowercase and hyphenated. Name preserves the original
// casing supplied by the first user to create the type.
type TripType struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// TripGroup is a shared-ownership context for trips. When a trip belongs to
// a group, locations can be filtered per member.
type TripGroup struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupRef is the explicit group marker carried on every trip. Present=false
// is the canonical "ungrouped" value — consumers switch on Present instead of
// nil-checking a pointer, so absence can never be confused with a missing read.
type GroupRef struct {
	Present bool      `json:"present"`
	ID      uuid.UUID `json:"id,omitempty"`
	Name    string    `json:"name,omitempty"`
}

// Ungrouped returns the canonical no-group marker.
func Ungrouped() GroupRef {
	return GroupRef{}
}

// TripWithStatus pairs a trip with its derived lifecycle status.
// Status is computed from the dates at read time and is never persisted.
type TripWithStatus struct {
	Trip
	Status TripStatus `json:"status"`
}
