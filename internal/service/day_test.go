package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/repo"
	"github.com/curtishsu/travelog/internal/service"
)

// ---- mock DayRepo ----------------------------------------------------------

type mockDayRepo struct {
	create        func(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	getByID       func(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)
	listByTripID  func(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	update        func(ctx context.Context, day domain.TripDay) (domain.TripDay, error)
	delete        func(ctx context.Context, tripID, dayID uuid.UUID) error
	addLocation   func(ctx context.Context, loc domain.Location) (domain.Location, error)
	listLocations func(ctx context.Context, dayID uuid.UUID) ([]domain.Location, error)
}

func (m *mockDayRepo) Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	return m.create(ctx, day)
}
func (m *mockDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	return m.getByID(ctx, tripID, dayID)
}
func (m *mockDayRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockDayRepo) Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	return m.update(ctx, day)
}
func (m *mockDayRepo) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	return m.delete(ctx, tripID, dayID)
}
func (m *mockDayRepo) AddLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	return m.addLocation(ctx, loc)
}
func (m *mockDayRepo) ListLocations(ctx context.Context, dayID uuid.UUID) ([]domain.Location, error) {
	return m.listLocations(ctx, dayID)
}

// compile-time check
var _ repo.DayRepo = (*mockDayRepo)(nil)

func foundTrip(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	return domain.Trip{ID: id}, nil
}

// ---- Create ----------------------------------------------------------------

func TestDayService_Create_OK(t *testing.T) {
	svc := service.NewDayService(
		&mockTripRepo{getByID: foundTrip},
		&mockDayRepo{
			create: func(_ context.Context, day domain.TripDay) (domain.TripDay, error) {
				day.ID = uuid.New()
				return day, nil
			},
		},
	)

	got, err := svc.Create(context.Background(), domain.TripDay{TripID: uuid.New(), DayIndex: 1})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID)
}

func TestDayService_Create_TripNotFound(t *testing.T) {
	svc := service.NewDayService(
		&mockTripRepo{
			getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
				return domain.Trip{}, domain.ErrNotFound
			},
		},
		&mockDayRepo{},
	)

	_, err := svc.Create(context.Background(), domain.TripDay{TripID: uuid.New(), DayIndex: 1})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDayService_Create_InvalidDayIndex(t *testing.T) {
	svc := service.NewDayService(&mockTripRepo{getByID: foundTrip}, &mockDayRepo{})

	for _, idx := range []int{0, -1} {
		_, err := svc.Create(context.Background(), domain.TripDay{TripID: uuid.New(), DayIndex: idx})
		assert.ErrorIs(t, err, domain.ErrValidation, "day_index %d", idx)
	}
}

// ---- AddLocation -----------------------------------------------------------

func TestDayService_AddLocation_OK(t *testing.T) {
	svc := service.NewDayService(&mockTripRepo{}, &mockDayRepo{
		addLocation: func(_ context.Context, loc domain.Location) (domain.Location, error) {
			loc.ID = uuid.New()
			return loc, nil
		},
	})

	got, err := svc.AddLocation(context.Background(), domain.Location{
		DayID: uuid.New(), Latitude: 46.0207, Longitude: 7.7491, Place: "Zermatt",
	})

	require.NoError(t, err)
	assert.Equal(t, "Zermatt", got.Place)
}

func TestDayService_AddLocation_RejectsNonFinite(t *testing.T) {
	svc := service.NewDayService(&mockTripRepo{}, &mockDayRepo{})

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.AddLocation(context.Background(), domain.Location{Latitude: bad, Longitude: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestDayService_AddLocation_RejectsOutOfRange(t *testing.T) {
	svc := service.NewDayService(&mockTripRepo{}, &mockDayRepo{})

	_, err := svc.AddLocation(context.Background(), domain.Location{Latitude: 91, Longitude: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddLocation(context.Background(), domain.Location{Latitude: 0, Longitude: -181})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Lists -----------------------------------------------------------------

func TestDayService_ListByTripID_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewDayService(&mockTripRepo{}, &mockDayRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.TripDay, error) {
			return nil, nil
		},
	})

	got, err := svc.ListByTripID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDayService_ListLocations_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewDayService(&mockTripRepo{}, &mockDayRepo{
		listLocations: func(_ context.Context, _ uuid.UUID) ([]domain.Location, error) {
			return nil, nil
		},
	})

	got, err := svc.ListLocations(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
