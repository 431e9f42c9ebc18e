package http

import (
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
)

func userIdentity(u domain.User) clubsdk.Identity {
	return clubsdk.Identity{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		Name:       u.Name,
		PictureURL: u.PictureURL,
	}
}

func parentIdentity(p domain.Parent) clubsdk.Identity {
	return clubsdk.Identity{
		ID:    p.ID,
		Role:  domain.RoleParent,
		Name:  p.DisplayName(),
		Phone: p.Phone,
	}
}

func sessionResponse(s domain.IssuedSession) clubsdk.SessionResponse {
	out := clubsdk.SessionResponse{
		Token:     s.Token,
		SessionID: s.Session.ID,
		Channel:   s.Session.Channel,
		ExpiresAt: s.Session.ExpiresAt,
	}
	if s.Token != "" {
		out.TokenType = "Bearer"
	}
	switch {
	case s.User != nil:
		out.Identity = userIdentity(*s.User)
	case s.Parent != nil:
		out.Identity = parentIdentity(*s.Parent)
	}
	return out
}

func coachView(c domain.Coach) clubsdk.Coach {
	return clubsdk.Coach{
		ID:         c.ID,
		UserID:     c.UserID,
		TeamID:     c.TeamID,
		AccessCode: c.AccessCode,
		Phone:      c.Phone,
	}
}

func teamView(t domain.Team) clubsdk.Team {
	return clubsdk.Team{
		ID:         t.ID,
		ClubID:     t.ClubID,
		Name:       t.Name,
		AccessCode: t.AccessCode,
	}
}

func parentView(p domain.Parent) clubsdk.Parent {
	return clubsdk.Parent{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		TeamID:    p.TeamID,
	}
}
