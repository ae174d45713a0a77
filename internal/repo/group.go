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

// GroupRepo defines the persistence operations for TripGroups and their members.
type GroupRepo interface {
	// Create inserts a new group and returns the persisted record.
	Create(ctx context.Context, name string) (domain.TripGroup, error)

	// GetByID retrieves a group by its UUID primary key.
	// Returns domain.ErrNotFound if no group with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripGroup, error)

	// ListByMember returns all groups the given person belongs to, ordered by name.
	ListByMember(ctx context.Context, personID uuid.UUID) ([]domain.TripGroup, error)

	// AddMember adds a person to a group. Idempotent — no error if already a member.
	AddMember(ctx context.Context, groupID, personID uuid.UUID) error

	// RemoveMember removes a person from a group.
	// Returns domain.ErrNotFound if the person is not a member.
	RemoveMember(ctx context.Context, groupID, personID uuid.UUID) error
}

// pgGroupRepo is the Postgres implementation of GroupRepo.
type pgGroupRepo struct {
	db db
}

// NewGroupRepo constructs a GroupRepo backed by the provided db connection.
func NewGroupRepo(db db) GroupRepo {
	return &pgGroupRepo{db: db}
}

func (r *pgGroupRepo) Create(ctx context.Context, name string) (domain.TripGroup, error) {
	const q = `
		INSERT INTO trip_groups (name)
		VALUES (@name)
		RETURNING id, name, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name})
	result, err := scanGroup(row)
	if err != nil {
		return domain.TripGroup{}, fmt.Errorf("repo.GroupRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TripGroup, error) {
	const q = `SELECT id, name, created_at FROM trip_groups WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanGroup(row)
	if err != nil {
		return domain.TripGroup{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgGroupRepo) ListByMember(ctx context.Context, personID uuid.UUID) ([]domain.TripGroup, error) {
	const q = `
		SELECT g.id, g.name, g.created_at
		FROM trip_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.person_id = @person_id
		ORDER BY g.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"person_id": personID})
	if err != nil {
		return nil, fmt.Errorf("repo.GroupRepo.ListByMember: %w", err)
	}
	defer rows.Close()

	groups := []domain.TripGroup{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.GroupRepo.ListByMember: scan: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.GroupRepo.ListByMember: rows: %w", err)
	}
	return groups, nil
}

// AddMember adds a person to a group. Idempotent via ON CONFLICT DO NOTHING.
func (r *pgGroupRepo) AddMember(ctx context.Context, groupID, personID uuid.UUID) error {
	const q = `
		INSERT INTO group_members (group_id, person_id)
		VALUES (@group_id, @person_id)
		ON CONFLICT (group_id, person_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"group_id": groupID, "person_id": personID})
	if err != nil {
		return fmt.Errorf("repo.GroupRepo.AddMember: %w", err)
	}
	return nil
}

func (r *pgGroupRepo) RemoveMember(ctx context.Context, groupID, personID uuid.UUID) error {
	const q = `
		DELETE FROM group_members
		WHERE group_id = @group_id AND person_id = @person_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"group_id": groupID, "person_id": personID})
	if err != nil {
		return fmt.Errorf("repo.GroupRepo.RemoveMember: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.GroupRepo.RemoveMember: %w", domain.ErrNotFound)
	}
	return nil
}

// scanGroup maps a single database row into a domain.TripGroup.
func scanGroup(s scanner) (domain.TripGroup, error) {
	var (
		g  domain.TripGroup
		id pgtype.UUID
	)
	err := s.Scan(&id, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripGroup{}, domain.ErrNotFound
		}
		return domain.TripGroup{}, err
	}
	g.ID = uuid.UUID(id.Bytes)
	return g, nil
}
