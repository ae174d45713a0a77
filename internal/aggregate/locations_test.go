package aggregate_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtishsu/travelog/internal/aggregate"
	"github.com/curtishsu/travelog/internal/domain"
)

func ts(y int, m time.Month, d, h int) *time.Time {
	t := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return &t
}

func tripWithLocations(owner uuid.UUID, start string, days ...domain.TripDay) domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     "t",
		StartDate: start,
		EndDate:   start,
		Days:      days,
	}
}

// ---- ordering --------------------------------------------------------------

func TestCollectLocations_ChronologicalAcrossTrips(t *testing.T) {
	owner := uuid.New()
	a := tripWithLocations(owner, "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{
		{Latitude: 1, Longitude: 1, CapturedAt: ts(2024, 5, 1, 12)},
	}})
	b := tripWithLocations(owner, "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{
		{Latitude: 2, Longitude: 2, CapturedAt: ts(2024, 5, 1, 9)},
	}})

	got, err := aggregate.CollectLocations([]domain.Trip{a, b}, aggregate.Filter{}, aggregate.CollectOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2.0, got[0].Latitude, "earlier capture comes first regardless of trip order")
	assert.Equal(t, 1.0, got[1].Latitude)
}

func TestCollectLocations_TieBreakDeterministic(t *testing.T) {
	owner := uuid.New()
	same := ts(2024, 5, 1, 10)
	a := tripWithLocations(owner, "2024-05-01",
		domain.TripDay{DayIndex: 2, Locations: []domain.Location{{Latitude: 3, Longitude: 3, CapturedAt: same}}},
		domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 4, Longitude: 4, CapturedAt: same}}},
	)
	b := tripWithLocations(owner, "2024-05-01",
		domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 5, Longitude: 5, CapturedAt: same}}},
	)
	trips := []domain.Trip{a, b}

	first, err := aggregate.CollectLocations(trips, aggregate.Filter{}, aggregate.CollectOptions{})
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Equal timestamps: trip ID breaks the tie, then day index within a trip.
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if prev.TripID == cur.TripID {
			assert.LessOrEqual(t, prev.DayIndex, cur.DayIndex)
		}
	}

	// Reproducible across repeated calls with the same input.
	for i := 0; i < 5; i++ {
		again, err := aggregate.CollectLocations(trips, aggregate.Filter{}, aggregate.CollectOptions{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCollectLocations_MissingTimestampSynthesized(t *testing.T) {
	owner := uuid.New()
	trip := tripWithLocations(owner, "2024-05-10",
		domain.TripDay{DayIndex: 3, Locations: []domain.Location{{Latitude: 1, Longitude: 1}}},
		domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 2, Longitude: 2, CapturedAt: ts(2024, 5, 10, 8)}}},
	)

	got, err := aggregate.CollectLocations([]domain.Trip{trip}, aggregate.Filter{}, aggregate.CollectOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Day 3 synthesizes to start+2d midnight, which sorts after day 1's
	// real 08:00 capture on the start date.
	assert.False(t, got[0].Synthesized)
	assert.True(t, got[1].Synthesized)
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), got[1].CapturedAt)
}

func TestCollectLocations_DropMissingTimestamps(t *testing.T) {
	owner := uuid.New()
	trip := tripWithLocations(owner, "2024-05-10", domain.TripDay{DayIndex: 1, Locations: []domain.Location{
		{Latitude: 1, Longitude: 1},
		{Latitude: 2, Longitude: 2, CapturedAt: ts(2024, 5, 10, 8)},
	}})

	got, err := aggregate.CollectLocations([]domain.Trip{trip}, aggregate.Filter{}, aggregate.CollectOptions{DropMissingTimestamps: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Latitude)
}

func TestCollectLocations_UnparseableStartDateNeededForFallback(t *testing.T) {
	owner := uuid.New()
	trip := tripWithLocations(owner, "garbage", domain.TripDay{DayIndex: 1, Locations: []domain.Location{
		{Latitude: 1, Longitude: 1},
	}})

	_, err := aggregate.CollectLocations([]domain.Trip{trip}, aggregate.Filter{}, aggregate.CollectOptions{})
	assert.Error(t, err)

	// With drop enabled the start date is never needed.
	got, err := aggregate.CollectLocations([]domain.Trip{trip}, aggregate.Filter{}, aggregate.CollectOptions{DropMissingTimestamps: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollectLocations_NonFiniteCoordinateFailsCall(t *testing.T) {
	owner := uuid.New()
	trip := tripWithLocations(owner, "2024-05-10", domain.TripDay{DayIndex: 1, Locations: []domain.Location{
		{Latitude: math.NaN(), Longitude: 1, CapturedAt: ts(2024, 5, 10, 8)},
	}})

	_, err := aggregate.CollectLocations([]domain.Trip{trip}, aggregate.Filter{}, aggregate.CollectOptions{})
	assert.Error(t, err)
}

// ---- filtering -------------------------------------------------------------

func TestCollectLocations_FilterByPerson(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	trips := []domain.Trip{
		tripWithLocations(alice, "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 1, Longitude: 1, CapturedAt: ts(2024, 5, 1, 1)}}}),
		tripWithLocations(bob, "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 2, Longitude: 2, CapturedAt: ts(2024, 5, 1, 2)}}}),
	}

	got, err := aggregate.CollectLocations(trips, aggregate.Filter{PersonID: alice.String()}, aggregate.CollectOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Latitude)
}

func TestCollectLocations_FilterByGroup(t *testing.T) {
	group := uuid.New()
	grouped := tripWithLocations(uuid.New(), "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 1, Longitude: 1, CapturedAt: ts(2024, 5, 1, 1)}}})
	grouped.Group = domain.GroupRef{Present: true, ID: group, Name: "crew"}
	solo := tripWithLocations(uuid.New(), "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 2, Longitude: 2, CapturedAt: ts(2024, 5, 1, 2)}}})

	got, err := aggregate.CollectLocations([]domain.Trip{grouped, solo}, aggregate.Filter{GroupID: group.String()}, aggregate.CollectOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Latitude)
}

func TestCollectLocations_NoFilterIncludesAll(t *testing.T) {
	trips := []domain.Trip{
		tripWithLocations(uuid.New(), "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 1, Longitude: 1, CapturedAt: ts(2024, 5, 1, 1)}}}),
		tripWithLocations(uuid.New(), "2024-05-01", domain.TripDay{DayIndex: 1, Locations: []domain.Location{{Latitude: 2, Longitude: 2, CapturedAt: ts(2024, 5, 1, 2)}}}),
	}

	got, err := aggregate.CollectLocations(trips, aggregate.Filter{}, aggregate.CollectOptions{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCollectLocations_EmptyInput(t *testing.T) {
	got, err := aggregate.CollectLocations(nil, aggregate.Filter{}, aggregate.CollectOptions{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
