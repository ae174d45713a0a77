// Package normalize converts raw trip records into complete, canonically
// ordered, policy-compliant records. Every read path runs records through
// Normalize before they reach aggregation or presentation, so downstream code
// never nil-checks nested collections or re-sorts days.
//
// Normalize is pure and idempotent: it touches no storage or clock, and
// re-applying it to its own output is a no-op. Render paths may therefore
// normalize the same record more than once without changing it.
package normalize

import (
	"fmt"
	"math"
	"sort"

	"github.com/curtishsu/travelog/internal/domain"
)

// Options controls a single Normalize call.
type Options struct {
	// Guest marks the consumer as unauthenticated or link-scoped.
	// When set, Policy must be supplied by the authorization collaborator.
	Guest bool

	// Policy is the redaction rule set applied in guest mode.
	// Ignored when Guest is false.
	Policy Policy
}

// Normalize returns a canonical copy of trip:
//
//   - Days, Links, Types, and every day's Locations and Media are non-nil.
//   - Days are sorted ascending by DayIndex with a stable sort, so ties
//     keep their original relative order.
//   - The group marker is canonical: an ungrouped trip carries the zero
//     GroupRef, never a half-filled one.
//   - In guest mode the redaction policy is applied uniformly — a redacted
//     field is fully absent or fully replaced, never truncated.
//
// The input is never mutated.
func Normalize(trip domain.Trip, opts Options) (domain.Trip, error) {
	if opts.Guest && opts.Policy == nil {
		return domain.Trip{}, fmt.Errorf("normalize.Normalize: %w", domain.ErrRedactionPolicy)
	}

	out := trip

	out.Days = make([]domain.TripDay, len(trip.Days))
	for i, day := range trip.Days {
		d := day
		d.Locations = append([]domain.Location{}, day.Locations...)
		d.Media = append([]domain.MediaRef{}, day.Media...)
		out.Days[i] = d
	}
	sort.SliceStable(out.Days, func(i, j int) bool {
		return out.Days[i].DayIndex < out.Days[j].DayIndex
	})

	out.Links = append([]domain.TripLink{}, trip.Links...)
	out.Types = append([]domain.TripType{}, trip.Types...)

	if !out.Group.Present {
		out.Group = domain.Ungrouped()
	}

	if opts.Guest {
		redact(&out, opts.Policy)
	}

	return out, nil
}

// fieldOrder fixes the application order so a policy behaves the same
// regardless of how its rules are arranged.
var fieldOrder = []Field{FieldNotes, FieldCoordinates, FieldPlaces, FieldLinks, FieldMedia}

// redact applies the rule set to a normalized trip in place. The policy is
// first collapsed to the last rule per field, then applied in fieldOrder.
// Every rule application is deterministic and idempotent, which keeps
// Normalize itself idempotent under a fixed Options value.
func redact(trip *domain.Trip, policy Policy) {
	effective := make(map[Field]Action, len(policy))
	for _, rule := range policy {
		effective[rule.Field] = rule.Action
	}

	for _, field := range fieldOrder {
		action, ok := effective[field]
		if !ok {
			continue
		}
		switch field {
		case FieldNotes:
			redactNotes(trip, action)
		case FieldCoordinates:
			redactCoordinates(trip, action)
		case FieldPlaces:
			redactPlaces(trip, action)
		case FieldLinks:
			if action != ActionKeep {
				trip.Links = []domain.TripLink{}
			}
		case FieldMedia:
			if action != ActionKeep {
				for i := range trip.Days {
					trip.Days[i].Media = []domain.MediaRef{}
				}
			}
		}
	}
}

func redactNotes(trip *domain.Trip, action Action) {
	apply := func(s string) string {
		switch action {
		case ActionKeep:
			return s
		case ActionPlaceholder:
			if s == "" {
				return ""
			}
			return Placeholder
		default:
			return ""
		}
	}
	trip.Notes = apply(trip.Notes)
	for i := range trip.Days {
		trip.Days[i].Notes = apply(trip.Days[i].Notes)
	}
}

// redactCoordinates coarsens or removes precise positions.
// ActionCoarsen rounds to one decimal degree (roughly 11 km), which is
// idempotent; any other non-keep action drops the location records entirely
// rather than zeroing coordinates, because (0, 0) is a valid position.
func redactCoordinates(trip *domain.Trip, action Action) {
	switch action {
	case ActionKeep:
	case ActionCoarsen:
		for i := range trip.Days {
			for j := range trip.Days[i].Locations {
				loc := &trip.Days[i].Locations[j]
				loc.Latitude = coarsen(loc.Latitude)
				loc.Longitude = coarsen(loc.Longitude)
			}
		}
	default:
		for i := range trip.Days {
			trip.Days[i].Locations = []domain.Location{}
		}
	}
}

func redactPlaces(trip *domain.Trip, action Action) {
	apply := func(s string) string {
		switch action {
		case ActionKeep:
			return s
		case ActionPlaceholder:
			if s == "" {
				return ""
			}
			return Placeholder
		default:
			return ""
		}
	}
	for i := range trip.Days {
		for j := range trip.Days[i].Locations {
			loc := &trip.Days[i].Locations[j]
			loc.Place = apply(loc.Place)
			loc.Country = apply(loc.Country)
		}
	}
}

// coarsen rounds a coordinate to one decimal degree.
func coarsen(v float64) float64 {
	return math.Round(v*10) / 10
}
