package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
)

const coachColumns = `id, user_id, team_id, access_code, phone, created_at`

type coachesRepo struct {
	db dbtx
}

func scanCoach(row interface{ Scan(...any) error }) (domain.Coach, error) {
	var (
		c      domain.Coach
		teamID sql.NullString
	)
	err := row.Scan(&c.ID, &c.UserID, &teamID, &c.AccessCode, &c.Phone, &c.CreatedAt)
	c.TeamID = mapNullString(teamID)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, err
}

func (r *coachesRepo) GetCoachByAccessCode(ctx context.Context, code string) (domain.Coach, error) {
	c, err := scanCoach(r.db.QueryRowContext(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE access_code = ?`, strings.ToUpper(code)))
	if err != nil {
		return domain.Coach{}, mapNotFound(err)
	}
	return c, nil
}

func (r *coachesRepo) GetCoachByUserID(ctx context.Context, userID string) (domain.Coach, error) {
	c, err := scanCoach(r.db.QueryRowContext(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE user_id = ?`, userID))
	if err != nil {
		return domain.Coach{}, mapNotFound(err)
	}
	return c, nil
}

func (r *coachesRepo) CreateCoach(ctx context.Context, c domain.Coach) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO coaches (`+coachColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, mapStringNull(c.TeamID), strings.ToUpper(c.AccessCode), c.Phone, c.CreatedAt.UTC(),
	)
	return mapConflict(err)
}
