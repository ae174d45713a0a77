package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/middleware"
)

// ShareResponse carries a freshly minted guest share token.
type ShareResponse struct {
	Token string `json:"token"`
}

// ShareTrip handles POST /trips/{tripID}/share.
// The returned token grants read-only guest access to that single trip.
func (s *Server) ShareTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	token, err := s.shares.IssueTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, ShareResponse{Token: token})
}

// ShareAccount handles POST /share/account.
// The returned token grants read-only guest access to every trip of the caller.
func (s *Server) ShareAccount(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}

	token, err := s.shares.IssueAccount(owner)
	if err != nil {
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, ShareResponse{Token: token})
}

// GetGuestTrip handles GET /guest/trips/{tripID}.
// Authentication is a Bearer share token; the response is the redacted
// guest view of the trip.
func (s *Server) GetGuestTrip(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		unauthorized(w, "share token required")
		return
	}
	claims, err := s.shares.Validate(token)
	if err != nil {
		unauthorized(w, "invalid or expired share token")
		return
	}

	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		notFound(w, "trip not found")
		return
	}

	trip, err := s.shares.GuestTrip(r.Context(), claims, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
