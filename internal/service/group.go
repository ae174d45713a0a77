package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/repo"
)

// GroupService implements business logic for trip group operations.
// Groups bundle related trips (e.g. one person's "Sabbatical 2024") and are
// the unit the location feed can filter on.
type GroupService struct {
	groups repo.GroupRepo
}

// NewGroupService constructs a GroupService backed by the provided GroupRepo.
func NewGroupService(groups repo.GroupRepo) *GroupService {
	return &GroupService{groups: groups}
}

// Create validates the name, persists the group, and makes the creator a member.
// Returns domain.ErrValidation for an empty name.
func (s *GroupService) Create(ctx context.Context, name string, creator uuid.UUID) (domain.TripGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.TripGroup{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	group, err := s.groups.Create(ctx, name)
	if err != nil {
		return domain.TripGroup{}, fmt.Errorf("service.GroupService.Create: %w", err)
	}
	if err := s.groups.AddMember(ctx, group.ID, creator); err != nil {
		return domain.TripGroup{}, fmt.Errorf("service.GroupService.Create: %w", err)
	}
	return group, nil
}

// GetByID returns a single group.
// Returns domain.ErrNotFound if no group with that ID exists.
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripGroup, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return domain.TripGroup{}, fmt.Errorf("service.GroupService.GetByID: %w", err)
	}
	return group, nil
}

// ListByMember returns all groups the person belongs to, ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *GroupService) ListByMember(ctx context.Context, personID uuid.UUID) ([]domain.TripGroup, error) {
	groups, err := s.groups.ListByMember(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("service.GroupService.ListByMember: %w", err)
	}
	if groups == nil {
		return []domain.TripGroup{}, nil
	}
	return groups, nil
}

// AddMember adds a person to a group. Idempotent.
// Returns domain.ErrNotFound if the group does not exist.
func (s *GroupService) AddMember(ctx context.Context, groupID, personID uuid.UUID) error {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return fmt.Errorf("service.GroupService.AddMember: %w", err)
	}
	if err := s.groups.AddMember(ctx, groupID, personID); err != nil {
		return fmt.Errorf("service.GroupService.AddMember: %w", err)
	}
	return nil
}

// RemoveMember removes a person from a group.
// Returns domain.ErrNotFound if the person is not a member.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, personID uuid.UUID) error {
	if err := s.groups.RemoveMember(ctx, groupID, personID); err != nil {
		return fmt.Errorf("service.GroupService.RemoveMember: %w", err)
	}
	return nil
}
