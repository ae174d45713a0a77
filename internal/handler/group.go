package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/middleware"
)

// GroupRequest is the body for POST /groups.
type GroupRequest struct {
	Name string `json:"name"`
}

// MemberRequest is the body for POST /groups/{groupID}/members.
type MemberRequest struct {
	PersonID uuid.UUID `json:"person_id"`
}

type GroupResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGroup handles POST /groups. The caller becomes the first member.
func (s *Server) CreateGroup(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}
	var req GroupRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	group, err := s.groups.Create(r.Context(), req.Name, owner)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, groupToResponse(group))
}

// ListGroups handles GET /groups, returning the caller's memberships.
func (s *Server) ListGroups(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}

	groups, err := s.groups.ListByMember(r.Context(), owner)
	if err != nil {
		internalError(w)
		return
	}

	data := make([]GroupResponse, len(groups))
	for i, g := range groups {
		data[i] = groupToResponse(g)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// AddGroupMember handles POST /groups/{groupID}/members.
func (s *Server) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathUUID(r, "groupID")
	if err != nil {
		notFound(w, "group not found")
		return
	}
	var req MemberRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := s.groups.AddMember(r.Context(), groupID, req.PersonID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "group not found")
			return
		}
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveGroupMember handles DELETE /groups/{groupID}/members/{personID}.
func (s *Server) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathUUID(r, "groupID")
	if err != nil {
		notFound(w, "group not found")
		return
	}
	personID, err := pathUUID(r, "personID")
	if err != nil {
		notFound(w, "member not found")
		return
	}

	if err := s.groups.RemoveMember(r.Context(), groupID, personID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "member not found")
			return
		}
		internalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func groupToResponse(g domain.TripGroup) GroupResponse {
	return GroupResponse{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt}
}
