package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/normalize"
	"github.com/curtishsu/travelog/internal/repo"
)

// Share scopes. A trip-scoped token grants read access to exactly one trip;
// an account-scoped token grants read access to every trip of one owner.
const (
	ScopeTrip    = "trip"
	ScopeAccount = "account"
)

// ShareClaims is the JWT payload for a guest share link.
type ShareClaims struct {
	Scope   string `json:"scope"`
	TripID  string `json:"trip_id,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
	jwt.RegisteredClaims
}

// ShareService issues and validates guest share tokens and serves the
// redacted guest view of shared trips.
type ShareService struct {
	trips  repo.TripRepo
	secret []byte
	ttl    time.Duration
	policy normalize.Policy
}

// NewShareService constructs a ShareService. Tokens are HMAC-SHA256 signed
// with secret and expire after ttl. The policy decides which fields the
// guest view redacts and how.
func NewShareService(trips repo.TripRepo, secret []byte, ttl time.Duration, policy normalize.Policy) *ShareService {
	return &ShareService{trips: trips, secret: secret, ttl: ttl, policy: policy}
}

// GuestPolicy returns the redaction policy guest views are rendered with.
func (s *ShareService) GuestPolicy() normalize.Policy {
	return s.policy
}

// IssueTrip creates a share token granting guest access to a single trip.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ShareService) IssueTrip(ctx context.Context, tripID uuid.UUID) (string, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return "", fmt.Errorf("service.ShareService.IssueTrip: %w", err)
	}
	return s.sign(ShareClaims{Scope: ScopeTrip, TripID: tripID.String()})
}

// IssueAccount creates a share token granting guest access to every trip
// owned by ownerID.
func (s *ShareService) IssueAccount(ownerID uuid.UUID) (string, error) {
	return s.sign(ShareClaims{Scope: ScopeAccount, OwnerID: ownerID.String()})
}

// Validate parses and verifies a share token.
// Returns domain.ErrValidation for expired, malformed, or tampered tokens.
func (s *ShareService) Validate(token string) (ShareClaims, error) {
	var claims ShareClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return ShareClaims{}, fmt.Errorf("service.ShareService.Validate: %w: %w", domain.ErrValidation, err)
	}
	if claims.Scope != ScopeTrip && claims.Scope != ScopeAccount {
		return ShareClaims{}, fmt.Errorf("service.ShareService.Validate: %w: unknown scope %q", domain.ErrValidation, claims.Scope)
	}
	return claims, nil
}

// GuestTrip returns the redacted guest view of a shared trip. The claims
// must grant access to tripID; a mismatched trip token or an account token
// for a different owner gets ErrNotFound rather than a permission error, so
// guessing IDs reveals nothing about what exists.
func (s *ShareService) GuestTrip(ctx context.Context, claims ShareClaims, tripID uuid.UUID) (domain.TripWithStatus, error) {
	trip, err := s.trips.GetFull(ctx, tripID)
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.ShareService.GuestTrip: %w", err)
	}
	if !s.grants(claims, trip) {
		return domain.TripWithStatus{}, fmt.Errorf("service.ShareService.GuestTrip: %w", domain.ErrNotFound)
	}
	redacted, err := normalize.Normalize(trip, normalize.Options{Guest: true, Policy: s.policy})
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.ShareService.GuestTrip: %w", err)
	}
	status, err := domain.DeriveStatus(redacted.StartDate, redacted.EndDate, time.Now().UTC())
	if err != nil {
		return domain.TripWithStatus{}, fmt.Errorf("service.ShareService.GuestTrip: %w", err)
	}
	return domain.TripWithStatus{Trip: redacted, Status: status}, nil
}

func (s *ShareService) grants(claims ShareClaims, trip domain.Trip) bool {
	switch claims.Scope {
	case ScopeTrip:
		return claims.TripID == trip.ID.String()
	case ScopeAccount:
		return claims.OwnerID == trip.OwnerID.String()
	}
	return false
}

func (s *ShareService) sign(claims ShareClaims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("service.ShareService: sign token: %w", err)
	}
	return token, nil
}
