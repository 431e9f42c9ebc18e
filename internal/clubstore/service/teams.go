package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// TeamService manages the teams of an administrator's club.
type TeamService struct {
	Store store.Store
}

// CreateTeam adds a team to the admin's club under a freshly minted
// access code.
func (s *TeamService) CreateTeam(ctx context.Context, adminID, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Team{}, invalid("name is required")
	}

	club, err := s.clubOf(ctx, adminID)
	if err != nil {
		return domain.Team{}, err
	}

	team := domain.Team{
		ID:        idx.New().String(),
		ClubID:    club.ID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	code, err := mintAccessCode(ctx, func(code string) error {
		team.AccessCode = code
		return s.Store.Teams().CreateTeam(ctx, team)
	})
	if err != nil {
		return domain.Team{}, err
	}
	team.AccessCode = code

	slogx.FromContext(ctx).Info("team created", slog.String("team_id", team.ID), slog.String("club_id", club.ID))
	return team, nil
}

// ListTeams returns the teams of the admin's club ordered by name.
func (s *TeamService) ListTeams(ctx context.Context, adminID string) ([]domain.Team, error) {
	club, err := s.clubOf(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return s.Store.Teams().ListTeamsByClub(ctx, club.ID)
}

func (s *TeamService) clubOf(ctx context.Context, adminID string) (domain.Club, error) {
	club, err := s.Store.Clubs().GetClubByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Club{}, ErrForbidden
		}
		return domain.Club{}, err
	}
	return club, nil
}

// mintAccessCode generates codes and hands them to insert until one does
// not collide.
func mintAccessCode(ctx context.Context, insert func(code string) error) (string, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := cryptox.GenerateAccessCode()
		if err != nil {
			return "", err
		}

		err = insert(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return "", err
		}
		slogx.FromContext(ctx).Debug("access code collision", slog.Int("attempt", attempt))
	}
	return "", ErrCodeExhausted
}
