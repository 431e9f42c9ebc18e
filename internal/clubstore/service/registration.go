package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// RegistrationService creates identity accounts. Registering an
// administrator also creates the club they own, in the same transaction.
type RegistrationService struct {
	Store store.Store
}

func (s *RegistrationService) Register(ctx context.Context, in domain.Registration) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.User{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.User{}, invalid("name is required")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !domain.ValidRole(role) {
		return domain.User{}, invalid("role must be admin, coach or parent")
	}
	if err := validPassword(in.Password); err != nil {
		return domain.User{}, err
	}

	var club *domain.Club
	if role == domain.RoleAdmin {
		clubName := strings.TrimSpace(in.ClubName)
		location := strings.TrimSpace(in.ClubLocation)
		if clubName == "" || location == "" {
			return domain.User{}, invalid("club_name and club_location are required for administrators")
		}
		club = &domain.Club{
			ID:       idx.New().String(),
			Name:     clubName,
			Location: location,
			LogoURL:  strings.TrimSpace(in.ClubLogoURL),
		}
	}

	// 2. Hash
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Role:         role,
		Name:         name,
		PictureURL:   strings.TrimSpace(in.PictureURL),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Insert user and club together
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		if club != nil {
			club.AdminID = user.ID
			club.CreatedAt = now
			return tx.Clubs().CreateClub(ctx, *club)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	attrs := []any{slog.String("user_id", user.ID), slog.String("role", role)}
	if club != nil {
		attrs = append(attrs, slog.String("club_id", club.ID))
	}
	l.Info("account registered", attrs...)
	return user, nil
}
