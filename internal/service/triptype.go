package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/repo"
)

// TypeService implements business logic for TripType operations.
// Its primary responsibility is slug normalization: all type identity is
// determined by slug, which is always lowercase and hyphenated.
type TypeService struct {
	types repo.TypeRepo
}

// NewTypeService constructs a TypeService backed by the provided TypeRepo.
func NewTypeService(types repo.TypeRepo) *TypeService {
	return &TypeService{types: types}
}

// UpsertByName normalizes the display name into a slug and upserts the type.
// Returns domain.ErrValidation if the name is empty or normalizes to empty.
func (s *TypeService) UpsertByName(ctx context.Context, name string) (domain.TripType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.TripType{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	slug := slugify(name)
	if slug == "" {
		return domain.TripType{}, fmt.Errorf("%w: name must contain letters or digits", domain.ErrValidation)
	}
	result, err := s.types.Upsert(ctx, name, slug)
	if err != nil {
		return domain.TripType{}, fmt.Errorf("service.TypeService.UpsertByName: %w", err)
	}
	return result, nil
}

// List returns all types whose slug starts with prefix, ordered by slug.
// The prefix is lowercased before matching so lookups are case-insensitive.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TypeService) List(ctx context.Context, prefix string) ([]domain.TripType, error) {
	types, err := s.types.List(ctx, strings.ToLower(strings.TrimSpace(prefix)))
	if err != nil {
		return nil, fmt.Errorf("service.TypeService.List: %w", err)
	}
	if types == nil {
		return []domain.TripType{}, nil
	}
	return types, nil
}

// ListPaged returns one page of types matching the prefix plus the total count.
func (s *TypeService) ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.TripType, int64, error) {
	types, total, err := s.types.ListPaged(ctx, strings.ToLower(strings.TrimSpace(prefix)), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TypeService.ListPaged: %w", err)
	}
	if types == nil {
		types = []domain.TripType{}
	}
	return types, total, nil
}

// AddToTrip upserts a type by name and links it to the given trip.
// Returns domain.ErrValidation if the name is empty or normalizes to empty.
func (s *TypeService) AddToTrip(ctx context.Context, tripID uuid.UUID, name string) (domain.TripType, error) {
	ty, err := s.UpsertByName(ctx, name)
	if err != nil {
		return domain.TripType{}, err
	}
	if err := s.types.AddToTrip(ctx, tripID, ty.ID); err != nil {
		return domain.TripType{}, fmt.Errorf("service.TypeService.AddToTrip: %w", err)
	}
	return ty, nil
}

// RemoveFromTrip unlinks a type from a trip by slug.
// Returns domain.ErrNotFound if the type is not linked to the trip.
func (s *TypeService) RemoveFromTrip(ctx context.Context, tripID uuid.UUID, slug string) error {
	if err := s.types.RemoveFromTrip(ctx, tripID, strings.ToLower(strings.TrimSpace(slug))); err != nil {
		return fmt.Errorf("service.TypeService.RemoveFromTrip: %w", err)
	}
	return nil
}

// ListByTrip returns all types linked to a trip, ordered by slug.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TypeService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripType, error) {
	types, err := s.types.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TypeService.ListByTrip: %w", err)
	}
	if types == nil {
		return []domain.TripType{}, nil
	}
	return types, nil
}

// slugify lowercases the name and replaces every run of non-alphanumeric
// characters with a single hyphen. Leading and trailing hyphens are trimmed,
// so inputs made entirely of punctuation collapse to the empty string.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
