package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// DirectoryService answers the unauthenticated lookups sign-in and parent
// onboarding depend on, and accepts parent self-registration.
type DirectoryService struct {
	Store store.Store
}

func (s *DirectoryService) CoachByAccessCode(ctx context.Context, code string) (domain.Coach, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Coach{}, invalid("access_code is required")
	}
	c, err := s.Store.Coaches().GetCoachByAccessCode(ctx, code)
	return c, mapStoreErr(err)
}

func (s *DirectoryService) UserByID(ctx context.Context, id string) (domain.User, error) {
	if !idx.Valid(id) {
		return domain.User{}, ErrNotFound
	}
	u, err := s.Store.Users().GetUserByID(ctx, id)
	return u, mapStoreErr(err)
}

func (s *DirectoryService) ParentByPhone(ctx context.Context, phone string) (domain.Parent, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return domain.Parent{}, invalid("phone is not a valid international number")
	}
	p, err := s.Store.Parents().GetParentByPhone(ctx, phone)
	return p, mapStoreErr(err)
}

func (s *DirectoryService) TeamByAccessCode(ctx context.Context, code string) (domain.Team, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Team{}, invalid("access_code is required")
	}
	t, err := s.Store.Teams().GetTeamByAccessCode(ctx, code)
	return t, mapStoreErr(err)
}

// CreateParent registers a parent against an existing team.
func (s *DirectoryService) CreateParent(ctx context.Context, in domain.NewParent) (domain.Parent, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate
	p := domain.Parent{
		ID:        idx.New().String(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
		TeamID:    strings.TrimSpace(in.TeamID),
	}
	if p.FirstName == "" || p.LastName == "" {
		return domain.Parent{}, invalid("first_name and last_name are required")
	}
	if !phonePattern.MatchString(p.Phone) {
		return domain.Parent{}, invalid("phone is not a valid international number")
	}
	if err := validPassword(in.Password); err != nil {
		return domain.Parent{}, err
	}

	// 2. The team must exist
	if _, err := s.Store.Teams().GetTeamByID(ctx, p.TeamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Parent{}, invalid("unknown team")
		}
		return domain.Parent{}, err
	}

	// 3. Hash and insert
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Parent{}, err
	}
	p.PasswordHash = hash

	if err := s.Store.Parents().CreateParent(ctx, p); err != nil {
		return domain.Parent{}, mapStoreErr(err)
	}

	l.Info("parent registered", slog.String("parent_id", p.ID), slog.String("team_id", p.TeamID))
	return p, nil
}

func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrAlreadyExists
	default:
		return err
	}
}
