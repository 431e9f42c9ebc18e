package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
)

type clubsRepo struct {
	db dbtx
}

func (r *clubsRepo) GetClubByAdmin(ctx context.Context, adminID string) (domain.Club, error) {
	var c domain.Club
	err := r.db.QueryRowContext(ctx,
		`SELECT id, admin_id, name, location, logo_url, created_at FROM clubs WHERE admin_id = ?`,
		adminID,
	).Scan(&c.ID, &c.AdminID, &c.Name, &c.Location, &c.LogoURL, &c.CreatedAt)
	if err != nil {
		return domain.Club{}, mapNotFound(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (r *clubsRepo) CreateClub(ctx context.Context, c domain.Club) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clubs (id, admin_id, name, location, logo_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.AdminID, c.Name, c.Location, c.LogoURL, c.CreatedAt.UTC(),
	)
	return mapConflict(err)
}
