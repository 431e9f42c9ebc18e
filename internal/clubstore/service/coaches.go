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

// CoachService provisions coaches. A coach is an identity whose password is
// its access code, plus a coaches row linking the code to a team.
type CoachService struct {
	Store store.Store
}

func (s *CoachService) CreateCoach(ctx context.Context, adminID string, in domain.NewCoach) (domain.Coach, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.Coach{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Coach{}, invalid("name is required")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		return domain.Coach{}, invalid("phone is not a valid international number")
	}

	// 2. The team, when given, must belong to the admin's club
	club, err := s.Store.Clubs().GetClubByAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Coach{}, ErrForbidden
		}
		return domain.Coach{}, err
	}
	teamID := strings.TrimSpace(in.TeamID)
	if teamID != "" {
		team, err := s.Store.Teams().GetTeamByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Coach{}, invalid("unknown team")
			}
			return domain.Coach{}, err
		}
		if team.ClubID != club.ID {
			return domain.Coach{}, ErrForbidden
		}
	}

	// 3. Email must be free before codes are minted
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.Coach{}, ErrAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Coach{}, err
	}

	// 4. Mint the code and insert identity and coach rows together
	now := time.Now().UTC()
	user := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Role:      domain.RoleCoach,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	coach := domain.Coach{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TeamID:    teamID,
		Phone:     phone,
		CreatedAt: now,
	}

	code, err := mintAccessCode(ctx, func(code string) error {
		hash, err := cryptox.HashPassword(code)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		coach.AccessCode = code

		return s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return err
			}
			return tx.Coaches().CreateCoach(ctx, coach)
		})
	})
	if err != nil {
		return domain.Coach{}, err
	}
	coach.AccessCode = code

	l.Info("coach provisioned",
		slog.String("coach_id", coach.ID),
		slog.String("user_id", user.ID),
		slog.String("team_id", teamID),
	)
	return coach, nil
}
