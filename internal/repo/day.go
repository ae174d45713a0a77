package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/curtishsu/travelog/internal/domain"
)

// DayRepo defines the persistence operations for TripDays and their locations.
// All write and single-read operations are scoped by tripID to enforce ownership.
type DayRepo interface {
	// Create inserts a new day and returns the persisted record.
	Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error)

	// GetByID retrieves a single day by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)

	// ListByTripID returns all days for a trip. No ordering is promised —
	// normalization sorts by day_index downstream.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)

	// Update overwrites the mutable fields of a day, scoped to the given tripID.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error)

	// Delete removes a day by ID, scoped to the given tripID, cascading to
	// its locations and media.
	Delete(ctx context.Context, tripID, dayID uuid.UUID) error

	// AddLocation inserts a location under a day and returns the persisted record.
	AddLocation(ctx context.Context, loc domain.Location) (domain.Location, error)

	// ListLocations returns all locations for a day in insertion order.
	ListLocations(ctx context.Context, dayID uuid.UUID) ([]domain.Location, error)
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

func (r *pgDayRepo) Create(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	const q = `
		INSERT INTO trip_days (trip_id, day_index, notes)
		VALUES (@trip_id, @day_index, @notes)
		RETURNING id, trip_id, day_index, notes, created_at, updated_at`

	args := pgx.NamedArgs{
		"trip_id":   day.TripID,
		"day_index": day.DayIndex,
		"notes":     day.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDay(row)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.DayRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	const q = `
		SELECT id, trip_id, day_index, notes, created_at, updated_at
		FROM trip_days
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID})
	result, err := scanDay(row)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.DayRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	const q = `
		SELECT id, trip_id, day_index, notes, created_at, updated_at
		FROM trip_days
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var days []domain.TripDay
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListByTripID: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: rows: %w", err)
	}
	return days, nil
}

func (r *pgDayRepo) Update(ctx context.Context, day domain.TripDay) (domain.TripDay, error) {
	const q = `
		UPDATE trip_days
		SET day_index  = @day_index,
		    notes      = @notes,
		    updated_at = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING id, trip_id, day_index, notes, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":        day.ID,
		"trip_id":   day.TripID,
		"day_index": day.DayIndex,
		"notes":     day.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDay(row)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.DayRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	const q = `DELETE FROM trip_days WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": dayID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.DayRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DayRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgDayRepo) AddLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	const q = `
		INSERT INTO locations (day_id, latitude, longitude, captured_at, place, country)
		VALUES (@day_id, @latitude, @longitude, @captured_at, @place, @country)
		RETURNING id, day_id, latitude, longitude, captured_at, place, country`

	args := pgx.NamedArgs{
		"day_id":      loc.DayID,
		"latitude":    loc.Latitude,
		"longitude":   loc.Longitude,
		"captured_at": loc.CapturedAt, // nil becomes NULL
		"place":       loc.Place,
		"country":     loc.Country,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLocation(row)
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.DayRepo.AddLocation: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) ListLocations(ctx context.Context, dayID uuid.UUID) ([]domain.Location, error) {
	const q = `
		SELECT id, day_id, latitude, longitude, captured_at, place, country
		FROM locations
		WHERE day_id = @day_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListLocations: %w", err)
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListLocations: scan: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListLocations: rows: %w", err)
	}
	return locs, nil
}
