package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/curtishsu/travelog/internal/domain"
)

// TypeRepo defines the persistence operations for TripTypes and the
// trip_trip_types join table.
type TypeRepo interface {
	// Upsert inserts a type by slug, or returns the existing type if the
	// slug already exists. The name of the first creator is preserved on
	// conflict.
	Upsert(ctx context.Context, name, slug string) (domain.TripType, error)

	// List returns all types whose slug starts with prefix, ordered by slug.
	// If prefix is empty, all types are returned.
	List(ctx context.Context, prefix string) ([]domain.TripType, error)

	// ListPaged returns one page of types matching the slug prefix and the
	// total count. If prefix is empty, all types are included in the result set.
	ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.TripType, int64, error)

	// AddToTrip links a type to a trip. Idempotent — no error if already linked.
	AddToTrip(ctx context.Context, tripID, typeID uuid.UUID) error

	// RemoveFromTrip unlinks a type from a trip by slug.
	// Returns domain.ErrNotFound if the type is not linked to the trip.
	RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error

	// ListByTrip returns all types linked to a trip, ordered by slug.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripType, error)
}

// pgTypeRepo is the Postgres implementation of TypeRepo.
type pgTypeRepo struct {
	db db
}

// NewTypeRepo constructs a TypeRepo backed by the provided db connection.
func NewTypeRepo(db db) TypeRepo {
	return &pgTypeRepo{db: db}
}

// Upsert inserts a type or returns the existing row on slug conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when
// the conflict handler skips the insert — without it, RETURNING returns
// nothing on DO NOTHING conflicts.
func (r *pgTypeRepo) Upsert(ctx context.Context, name, slug string) (domain.TripType, error) {
	const q = `
		INSERT INTO trip_types (name, slug)
		VALUES (@name, @slug)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name, "slug": slug})
	result, err := scanType(row)
	if err != nil {
		return domain.TripType{}, fmt.Errorf("repo.TypeRepo.Upsert: %w", err)
	}
	return result, nil
}

// List returns all types whose slug starts with prefix, ordered by slug.
// Pass prefix="" to return all types.
func (r *pgTypeRepo) List(ctx context.Context, prefix string) ([]domain.TripType, error) {
	const q = `
		SELECT id, name, slug, created_at
		FROM trip_types
		WHERE slug LIKE @prefix || '%'
		ORDER BY slug`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("repo.TypeRepo.List: %w", err)
	}
	defer rows.Close()

	types := []domain.TripType{}
	for rows.Next() {
		ty, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TypeRepo.List: scan: %w", err)
		}
		types = append(types, ty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TypeRepo.List: rows: %w", err)
	}
	return types, nil
}

// ListPaged returns one page of types matching prefix ordered by slug,
// plus the total number of matching rows for pagination headers.
func (r *pgTypeRepo) ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.TripType, int64, error) {
	const countQ = `
		SELECT count(*)
		FROM trip_types
		WHERE slug LIKE @prefix || '%'`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"prefix": prefix}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TypeRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, name, slug, created_at
		FROM trip_types
		WHERE slug LIKE @prefix || '%'
		ORDER BY slug
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"prefix": prefix,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TypeRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	types := []domain.TripType{}
	for rows.Next() {
		ty, err := scanType(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TypeRepo.ListPaged: scan: %w", err)
		}
		types = append(types, ty)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TypeRepo.ListPaged: rows: %w", err)
	}
	return types, total, nil
}

// AddToTrip links a type to a trip. Idempotent via ON CONFLICT DO NOTHING.
func (r *pgTypeRepo) AddToTrip(ctx context.Context, tripID, typeID uuid.UUID) error {
	const q = `
		INSERT INTO trip_trip_types (trip_id, type_id)
		VALUES (@trip_id, @type_id)
		ON CONFLICT (trip_id, type_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "type_id": typeID})
	if err != nil {
		return fmt.Errorf("repo.TypeRepo.AddToTrip: %w", err)
	}
	return nil
}

// RemoveFromTrip unlinks a type from a trip using a slug-based subquery lookup.
func (r *pgTypeRepo) RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error {
	const q = `
		DELETE FROM trip_trip_types
		WHERE trip_id = @trip_id
		  AND type_id = (SELECT id FROM trip_types WHERE slug = @slug)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "slug": slug})
	if err != nil {
		return fmt.Errorf("repo.TypeRepo.RemoveFromTrip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TypeRepo.RemoveFromTrip: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByTrip returns all types linked to a trip, ordered by slug.
func (r *pgTypeRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripType, error) {
	const q = `
		SELECT ty.id, ty.name, ty.slug, ty.created_at
		FROM trip_types ty
		JOIN trip_trip_types tt ON tt.type_id = ty.id
		WHERE tt.trip_id = @trip_id
		ORDER BY ty.slug`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TypeRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	types := []domain.TripType{}
	for rows.Next() {
		ty, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TypeRepo.ListByTrip: scan: %w", err)
		}
		types = append(types, ty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TypeRepo.ListByTrip: rows: %w", err)
	}
	return types, nil
}

// scanType maps a single database row into a domain.TripType.
func scanType(s scanner) (domain.TripType, error) {
	var (
		ty domain.TripType
		id pgtype.UUID
	)
	err := s.Scan(&id, &ty.Name, &ty.Slug, &ty.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripType{}, domain.ErrNotFound
		}
		return domain.TripType{}, err
	}
	ty.ID = uuid.UUID(id.Bytes)
	return ty, nil
}
