// Package repo contains all database access logic for the Travelog API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping. In particular the
// nested collections of a full trip read come back unordered and possibly nil;
// normalization is the caller's job.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/curtishsu/travelog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip row by its UUID primary key, without
	// nested collections. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns all trip rows for an owner ordered by start_date
	// descending, without nested collections.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)

	// GetFull retrieves a trip with all nested days, locations, media,
	// links, types, and its group marker. Nested collections are raw:
	// unordered and nil when empty.
	GetFull(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListFullByOwner returns all of an owner's trips with nested records,
	// raw in the same sense as GetFull.
	ListFullByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID, cascading to days, locations, media,
	// and links. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `
	t.id, t.owner_id, t.group_id, g.name,
	t.title, t.start_date, t.end_date, t.notes, t.created_at, t.updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH inserted AS (
			INSERT INTO trips (owner_id, group_id, title, start_date, end_date, notes)
			VALUES (@owner_id, @group_id, @title, @start_date, @end_date, @notes)
			RETURNING *
		)
		SELECT ` + tripColumns + `
		FROM inserted t
		LEFT JOIN trip_groups g ON g.id = t.group_id`

	args := pgx.NamedArgs{
		"owner_id":   trip.OwnerID,
		"group_id":   groupIDArg(trip.Group),
		"title":      trip.Title,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"notes":      trip.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip row by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips t
		LEFT JOIN trip_groups g ON g.id = t.group_id
		WHERE t.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns all trips for the owner, most recent start date first.
func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips t
		LEFT JOIN trip_groups g ON g.id = t.group_id
		WHERE t.owner_id = @owner_id
		ORDER BY t.start_date DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, nil
}

// GetFull retrieves a trip with all nested records attached.
func (r *pgTripRepo) GetFull(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetFull: %w", err)
	}

	trips := []domain.Trip{trip}
	if err := r.attachNested(ctx, trips); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetFull: %w", err)
	}
	return trips[0], nil
}

// ListFullByOwner returns all of an owner's trips with nested records attached.
func (r *pgTripRepo) ListFullByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	trips, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListFullByOwner: %w", err)
	}
	if err := r.attachNested(ctx, trips); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListFullByOwner: %w", err)
	}
	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH updated AS (
			UPDATE trips
			SET title      = @title,
			    group_id   = @group_id,
			    start_date = @start_date,
			    end_date   = @end_date,
			    notes      = @notes,
			    updated_at = now()
			WHERE id = @id
			RETURNING *
		)
		SELECT ` + tripColumns + `
		FROM updated t
		LEFT JOIN trip_groups g ON g.id = t.group_id`

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"title":      trip.Title,
		"group_id":   groupIDArg(trip.Group),
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"notes":      trip.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// attachNested loads days, locations, media, links, and types for the given
// trips in batched queries and attaches them in place. Collections stay nil
// when a trip has no records — normalize owns the nil-to-empty conversion.
func (r *pgTripRepo) attachNested(ctx context.Context, trips []domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	tripIDs := make([]uuid.UUID, len(trips))
	byTrip := make(map[uuid.UUID]*domain.Trip, len(trips))
	for i := range trips {
		tripIDs[i] = trips[i].ID
		byTrip[trips[i].ID] = &trips[i]
	}

	dayByID, err := r.loadDays(ctx, tripIDs, byTrip)
	if err != nil {
		return err
	}
	if err := r.loadLocations(ctx, tripIDs, dayByID); err != nil {
		return err
	}
	if err := r.loadMedia(ctx, tripIDs, dayByID); err != nil {
		return err
	}
	if err := r.loadLinks(ctx, tripIDs, byTrip); err != nil {
		return err
	}
	return r.loadTypes(ctx, tripIDs, byTrip)
}

// loadDays fetches days in insertion order, not day_index order — the raw
// read makes no ordering promise.
func (r *pgTripRepo) loadDays(ctx context.Context, tripIDs []uuid.UUID, byTrip map[uuid.UUID]*domain.Trip) (map[uuid.UUID]*domain.TripDay, error) {
	const q = `
		SELECT id, trip_id, day_index, notes, created_at, updated_at
		FROM trip_days
		WHERE trip_id = ANY(@trip_ids)
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return nil, fmt.Errorf("load days: %w", err)
	}
	defer rows.Close()

	var days []domain.TripDay
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("load days: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load days: rows: %w", err)
	}

	// Attach after the full scan so slice growth cannot invalidate the
	// day pointers handed to the location and media loaders.
	for _, d := range days {
		trip := byTrip[d.TripID]
		trip.Days = append(trip.Days, d)
	}
	dayByID := map[uuid.UUID]*domain.TripDay{}
	for _, trip := range byTrip {
		for i := range trip.Days {
			dayByID[trip.Days[i].ID] = &trip.Days[i]
		}
	}
	return dayByID, nil
}

func (r *pgTripRepo) loadLocations(ctx context.Context, tripIDs []uuid.UUID, dayByID map[uuid.UUID]*domain.TripDay) error {
	const q = `
		SELECT l.id, l.day_id, l.latitude, l.longitude, l.captured_at, l.place, l.country
		FROM locations l
		JOIN trip_days d ON d.id = l.day_id
		WHERE d.trip_id = ANY(@trip_ids)
		ORDER BY l.created_at, l.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return fmt.Errorf("load locations: scan: %w", err)
		}
		day := dayByID[loc.DayID]
		day.Locations = append(day.Locations, loc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load locations: rows: %w", err)
	}
	return nil
}

func (r *pgTripRepo) loadMedia(ctx context.Context, tripIDs []uuid.UUID, dayByID map[uuid.UUID]*domain.TripDay) error {
	const q = `
		SELECT m.id, m.day_id, m.url, m.kind
		FROM media m
		JOIN trip_days d ON d.id = m.day_id
		WHERE d.trip_id = ANY(@trip_ids)
		ORDER BY m.created_at, m.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return fmt.Errorf("load media: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m       domain.MediaRef
			id, day pgtype.UUID
		)
		if err := rows.Scan(&id, &day, &m.URL, &m.Kind); err != nil {
			return fmt.Errorf("load media: scan: %w", err)
		}
		m.ID = uuid.UUID(id.Bytes)
		d := dayByID[uuid.UUID(day.Bytes)]
		d.Media = append(d.Media, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load media: rows: %w", err)
	}
	return nil
}

func (r *pgTripRepo) loadLinks(ctx context.Context, tripIDs []uuid.UUID, byTrip map[uuid.UUID]*domain.Trip) error {
	const q = `
		SELECT id, trip_id, url, label
		FROM trip_links
		WHERE trip_id = ANY(@trip_ids)
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return fmt.Errorf("load links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l        domain.TripLink
			id, trip pgtype.UUID
		)
		if err := rows.Scan(&id, &trip, &l.URL, &l.Label); err != nil {
			return fmt.Errorf("load links: scan: %w", err)
		}
		l.ID = uuid.UUID(id.Bytes)
		t := byTrip[uuid.UUID(trip.Bytes)]
		t.Links = append(t.Links, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load links: rows: %w", err)
	}
	return nil
}

func (r *pgTripRepo) loadTypes(ctx context.Context, tripIDs []uuid.UUID, byTrip map[uuid.UUID]*domain.Trip) error {
	const q = `
		SELECT tt.trip_id, ty.id, ty.name, ty.slug, ty.created_at
		FROM trip_trip_types tt
		JOIN trip_types ty ON ty.id = tt.type_id
		WHERE tt.trip_id = ANY(@trip_ids)
		ORDER BY ty.slug`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_ids": tripIDs})
	if err != nil {
		return fmt.Errorf("load types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ty       domain.TripType
			trip, id pgtype.UUID
		)
		if err := rows.Scan(&trip, &id, &ty.Name, &ty.Slug, &ty.CreatedAt); err != nil {
			return fmt.Errorf("load types: scan: %w", err)
		}
		ty.ID = uuid.UUID(id.Bytes)
		t := byTrip[uuid.UUID(trip.Bytes)]
		t.Types = append(t.Types, ty)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load types: rows: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date-to-string, and nullable group conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id, owner pgtype.UUID
		groupID   pgtype.UUID
		groupName pgtype.Text
		start     pgtype.Date
		end       pgtype.Date
	)

	err := s.Scan(&id, &owner, &groupID, &groupName, &t.Title, &start, &end, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = start.Time.Format(domain.DateLayout)
	t.EndDate = end.Time.Format(domain.DateLayout)
	if groupID.Valid {
		t.Group = domain.GroupRef{Present: true, ID: uuid.UUID(groupID.Bytes), Name: groupName.String}
	}

	return t, nil
}

// scanDay maps a single database row into a domain.TripDay.
func scanDay(s scanner) (domain.TripDay, error) {
	var (
		d        domain.TripDay
		id, trip pgtype.UUID
	)
	err := s.Scan(&id, &trip, &d.DayIndex, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripDay{}, domain.ErrNotFound
		}
		return domain.TripDay{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(trip.Bytes)
	return d, nil
}

// scanLocation maps a single database row into a domain.Location.
func scanLocation(s scanner) (domain.Location, error) {
	var (
		loc      domain.Location
		id, day  pgtype.UUID
		captured pgtype.Timestamptz
	)
	err := s.Scan(&id, &day, &loc.Latitude, &loc.Longitude, &captured, &loc.Place, &loc.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Location{}, domain.ErrNotFound
		}
		return domain.Location{}, err
	}
	loc.ID = uuid.UUID(id.Bytes)
	loc.DayID = uuid.UUID(day.Bytes)
	if captured.Valid {
		ts := captured.Time.UTC()
		loc.CapturedAt = &ts
	}
	return loc, nil
}

// groupIDArg converts the explicit group marker back into a nullable column value.
func groupIDArg(g domain.GroupRef) any {
	if !g.Present {
		return nil
	}
	return g.ID
}
