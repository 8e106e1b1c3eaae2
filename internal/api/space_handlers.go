package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/flickit-platform/assessment-api/internal/membership"
	"github.com/flickit-platform/assessment-api/internal/projection"
	"github.com/flickit-platform/assessment-api/internal/validation"
)

const maxMemberBodyBytes = 1 << 20

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	userID := UserIDFromContext(r.Context())
	spaces, err := s.repo.ListSpacesForUser(r.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		respondFailure(w, err, "spaces")
		return
	}

	views := make([]*projection.SpaceListResponse, 0, len(spaces))
	for _, space := range spaces {
		view, err := s.projector.SpaceList(r.Context(), space)
		if err != nil {
			respondFailure(w, err, "spaces")
			return
		}
		views = append(views, view)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"spaces": views,
		"total":  len(views),
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "space")
	if !ok {
		return
	}

	space, err := s.repo.GetSpace(r.Context(), id)
	if err != nil {
		respondFailure(w, err, "space")
		return
	}

	respondJSON(w, http.StatusOK, projection.SpaceSimple(space))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	s.forwardMember(w, r, func(r *http.Request, in validation.EmailInput) error {
		_, err := s.grants.Validate(r.Context(), in)
		return err
	}, s.members.AddMember)
}

func (s *Server) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	s.forwardMember(w, r, func(r *http.Request, in validation.EmailInput) error {
		return s.invites.Validate(r.Context(), in)
	}, s.members.InviteMember)
}

type memberCall func(ctx context.Context, spaceID int64, authorization string, body json.RawMessage) (*membership.Result, error)

// forwardMember validates the email of a member request and forwards the
// untouched body to assessment-core. The remote status code is passed through.
func (s *Server) forwardMember(
	w http.ResponseWriter,
	r *http.Request,
	check func(*http.Request, validation.EmailInput) error,
	call memberCall,
) {
	spaceID, ok := pathID(w, r, "space")
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMemberBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}

	var in validation.EmailInput
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := s.repo.GetSpace(r.Context(), spaceID); err != nil {
		respondFailure(w, err, "space")
		return
	}

	if err := check(r, in); err != nil {
		respondFailure(w, err, "user")
		return
	}

	result, err := call(r.Context(), spaceID, r.Header.Get("Authorization"), json.RawMessage(body))
	if err != nil {
		slog.Error("membership request failed", "error", err, "space_id", spaceID)
		if errors.Is(err, membership.ErrMalformedResponse) {
			respondError(w, http.StatusBadGateway, "bad_gateway", "assessment-core returned an unreadable response")
			return
		}
		respondError(w, http.StatusBadGateway, "bad_gateway", "assessment-core is unreachable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("failed to encode membership result", "error", err)
	}
}
