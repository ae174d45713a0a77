package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtishsu/travelog/internal/domain"
)

func TestCreateDay_Created(t *testing.T) {
	tripID := uuid.New()
	h := newTestServer(deps{days: &mockDays{
		create: func(_ context.Context, day domain.TripDay) (domain.TripDay, error) {
			day.ID = uuid.New()
			return day, nil
		},
	}})

	rec := doRequest(t, h, http.MethodPost, "/trips/"+tripID.String()+"/days",
		`{"day_index": 2, "notes": "crossed the pass"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		TripID   uuid.UUID `json:"trip_id"`
		DayIndex int       `json:"day_index"`
		Notes    string    `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, tripID, got.TripID, "trip comes from the path, not the body")
	assert.Equal(t, 2, got.DayIndex)
	assert.Equal(t, "crossed the pass", got.Notes)
}

func TestCreateDay_TripNotFound(t *testing.T) {
	h := newTestServer(deps{days: &mockDays{
		create: func(_ context.Context, _ domain.TripDay) (domain.TripDay, error) {
			return domain.TripDay{}, domain.ErrNotFound
		},
	}})

	rec := doRequest(t, h, http.MethodPost, "/trips/"+uuid.NewString()+"/days", `{"day_index": 1}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateDay_InvalidIndex(t *testing.T) {
	h := newTestServer(deps{days: &mockDays{
		create: func(_ context.Context, _ domain.TripDay) (domain.TripDay, error) {
			return domain.TripDay{}, fmt.Errorf("%w: day_index must be at least 1", domain.ErrValidation)
		},
	}})

	rec := doRequest(t, h, http.MethodPost, "/trips/"+uuid.NewString()+"/days", `{"day_index": 0}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "day_index must be at least 1")
}

func TestGetDay_MalformedIDs(t *testing.T) {
	h := newTestServer(deps{})

	rec := doRequest(t, h, http.MethodGet, "/trips/not-a-uuid/days/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/trips/"+uuid.NewString()+"/days/not-a-uuid", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListDays_Empty(t *testing.T) {
	h := newTestServer(deps{days: &mockDays{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.TripDay, error) {
			return []domain.TripDay{}, nil
		},
	}})

	rec := doRequest(t, h, http.MethodGet, "/trips/"+uuid.NewString()+"/days", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestDeleteDay_NoContent(t *testing.T) {
	h := newTestServer(deps{days: &mockDays{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}})

	rec := doRequest(t, h, http.MethodDelete,
		"/trips/"+uuid.NewString()+"/days/"+uuid.NewString(), "")

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAddLocation_Created(t *testing.T) {
	captured := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	h := newTestServer(deps{days: &mockDays{
		addLocation: func(_ context.Context, loc domain.Location) (domain.Location, error) {
			loc.ID = uuid.New()
			return loc, nil
		},
	}})

	rec := doRequest(t, h, http.MethodPost,
		"/trips/"+uuid.NewString()+"/days/"+uuid.NewString()+"/locations",
		`{"latitude": 46.0207, "longitude": 7.7491, "captured_at": "2024-05-02T09:00:00Z", "place": "Zermatt"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		Latitude   float64 `json:"latitude"`
		CapturedAt string  `json:"captured_at"`
		Place      string  `json:"place"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 46.0207, got.Latitude)
	assert.Equal(t, captured.Format(time.RFC3339), got.CapturedAt)
	assert.Equal(t, "Zermatt", got.Place)
}

func TestAddLocation_OutOfRangeCoordinates(t *testing.T) {
	h := newTestServer(deps{days: &mockDays{
		addLocation: func(_ context.Context, _ domain.Location) (domain.Location, error) {
			return domain.Location{}, fmt.Errorf("%w: latitude out of range", domain.ErrValidation)
		},
	}})

	rec := doRequest(t, h, http.MethodPost,
		"/trips/"+uuid.NewString()+"/days/"+uuid.NewString()+"/locations",
		`{"latitude": 91, "longitude": 0}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
