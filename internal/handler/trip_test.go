package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtishsu/travelog/internal/domain"
)

func presentedTrip() domain.TripWithStatus {
	return domain.TripWithStatus{
		Trip: domain.Trip{
			ID:        uuid.New(),
			OwnerID:   testOwner,
			Title:     "Dolomites Loop",
			StartDate: "2024-06-01",
			EndDate:   "2024-06-10",
			Days:      []domain.TripDay{},
			Links:     []domain.TripLink{},
			Types:     []domain.TripType{},
		},
		Status: domain.StatusCompleted,
	}
}

func TestCreateTrip_Created(t *testing.T) {
	var captured domain.Trip
	h := newTestServer(deps{trips: &mockTrips{
		create: func(_ context.Context, trip domain.Trip) (domain.TripWithStatus, error) {
			captured = trip
			return presentedTrip(), nil
		},
	}})

	body := `{"title":"Dolomites Loop","start_date":"2024-06-01","end_date":"2024-06-10","notes":"long planned"}`
	rec := doRequest(t, h, http.MethodPost, "/trips", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testOwner, captured.OwnerID, "owner comes from the identity header, not the body")
	assert.Equal(t, "2024-06-01", captured.StartDate)
	assert.Equal(t, "long planned", captured.Notes)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp["status"])
	group, ok := resp["group"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, group["grouped"], "ungrouped marker is explicit")
}

func TestCreateTrip_MalformedDateRejectedAtDecode(t *testing.T) {
	h := newTestServer(deps{trips: &mockTrips{}})

	body := `{"title":"X","start_date":"June 1st","end_date":"2024-06-10"}`
	rec := doRequest(t, h, http.MethodPost, "/trips", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestCreateTrip_ServiceValidation(t *testing.T) {
	h := newTestServer(deps{trips: &mockTrips{
		create: func(_ context.Context, _ domain.Trip) (domain.TripWithStatus, error) {
			return domain.TripWithStatus{}, fmt.Errorf("service.TripService.Create: %w: title is required", domain.ErrValidation)
		},
	}})

	body := `{"title":"  ","start_date":"2024-06-01","end_date":"2024-06-10"}`
	rec := doRequest(t, h, http.MethodPost, "/trips", body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestGetTrip_NotFound(t *testing.T) {
	h := newTestServer(deps{trips: &mockTrips{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.TripWithStatus, error) {
			return domain.TripWithStatus{}, domain.ErrNotFound
		},
	}})

	rec := doRequest(t, h, http.MethodGet, "/trips/"+uuid.NewString(), "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestGetTrip_MalformedID(t *testing.T) {
	h := newTestServer(deps{trips: &mockTrips{}})

	rec := doRequest(t, h, http.MethodGet, "/trips/not-a-uuid", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTrips_OK(t *testing.T) {
	h := newTestServer(deps{trips: &mockTrips{
		listByOwner: func(_ context.Context, owner uuid.UUID) ([]domain.TripWithStatus, error) {
			assert.Equal(t, testOwner, owner)
			return []domain.TripWithStatus{presentedTrip()}, nil
		},
	}})

	rec := doRequest(t, h, http.MethodGet, "/trips", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestDeleteTrip_NoContent(t *testing.T) {
	var deleted uuid.UUID
	h := newTestServer(deps{trips: &mockTrips{
		delete: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}})

	id := uuid.New()
	rec := doRequest(t, h, http.MethodDelete, "/trips/"+id.String(), "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, deleted)
}

func TestUpdateTrip_NotFound(t *testing.T) {
	h := newTestServer(deps{trips: &mockTrips{
		update: func(_ context.Context, _ domain.Trip) (domain.TripWithStatus, error) {
			return domain.TripWithStatus{}, domain.ErrNotFound
		},
	}})

	body := `{"title":"X","start_date":"2024-06-01","end_date":"2024-06-10"}`
	rec := doRequest(t, h, http.MethodPut, "/trips/"+uuid.NewString(), body)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
