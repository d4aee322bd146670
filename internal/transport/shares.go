package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/waypoint/internal/domain/share"
)

type grantShareRequest struct {
	Username   string           `json:"username"`
	Permission share.Permission `json:"permission"`
}

// tokenResponse is a share token with the anonymous path that serves it.
type tokenResponse struct {
	Token     string     `json:"token"`
	ProjectID string     `json:"project_id"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func newTokenResponse(t *share.Token) tokenResponse {
	return tokenResponse{
		Token:     t.Token,
		ProjectID: t.ProjectID,
		URL:       "/shared/" + t.Token,
		ExpiresAt: t.ExpiresAt,
		CreatedAt: t.CreatedAt,
	}
}

// ownerOnly authorizes the caller as owner of the route's project and
// returns the project ID, or writes the failure and returns false.
func (s *Server) ownerOnly(w http.ResponseWriter, r *http.Request) (string, bool) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeOwner(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return "", false
	}
	return projectID, true
}

func (s *Server) handleGrantShare(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	var req grantShareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	userID, _ := UserFromContext(r.Context())
	rec, err := s.svc.Shares.GrantShare(r.Context(), projectID, userID, req.Username, req.Permission)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	records, err := s.svc.Shares.ListShares(r.Context(), projectID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	userID, _ := UserFromContext(r.Context())
	if err := s.svc.Shares.RevokeShare(r.Context(), projectID, chi.URLParam(r, "shareID"), userID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	userID, _ := UserFromContext(r.Context())
	tok, err := s.svc.Shares.IssueOrGetToken(r.Context(), projectID, userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(tok))
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	tok, err := s.svc.Shares.GetToken(r.Context(), projectID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(tok))
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.ownerOnly(w, r)
	if !ok {
		return
	}

	userID, _ := UserFromContext(r.Context())
	if err := s.svc.Shares.RevokeToken(r.Context(), projectID, userID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
