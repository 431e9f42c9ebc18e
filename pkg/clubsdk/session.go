package clubsdk

import (
	"context"
	"net/http"
)

// Session makes authenticated calls with one bearer token.
type Session struct {
	client *Client
	token  string
}

// Token returns the bearer token the session authenticates with.
func (s *Session) Token() string { return s.token }

// Current resumes the session, returning the identity it belongs to.
func (s *Session) Current(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := s.client.do(ctx, http.MethodGet, "/v1/sessions/current", s.token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Revoke signs the session out at the server.
func (s *Session) Revoke(ctx context.Context) error {
	return s.client.do(ctx, http.MethodDelete, "/v1/sessions/current", s.token, nil, nil, http.StatusNoContent)
}

// ChangePassword replaces the caller's password. Other sessions of the same
// account are revoked; this one stays valid.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	return s.client.do(ctx, http.MethodPut, "/v1/me/password", s.token, req, nil, http.StatusNoContent)
}

// CreateTeam adds a team to the administrator's club.
// Requires: admin role
func (s *Session) CreateTeam(ctx context.Context, name string) (*Team, error) {
	var out Team
	req := CreateTeamRequest{Name: name}
	if err := s.client.do(ctx, http.MethodPost, "/v1/teams", s.token, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTeams lists the teams of the administrator's club.
// Requires: admin role
func (s *Session) ListTeams(ctx context.Context) ([]Team, error) {
	var out TeamsResponse
	if err := s.client.do(ctx, http.MethodGet, "/v1/teams/mine", s.token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Teams, nil
}

// CreateCoach provisions a coach and returns its access code.
// Requires: admin role
func (s *Session) CreateCoach(ctx context.Context, req CreateCoachRequest) (*Coach, error) {
	var out Coach
	if err := s.client.do(ctx, http.MethodPost, "/v1/coaches", s.token, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
