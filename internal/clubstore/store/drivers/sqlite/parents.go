package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
)

const parentColumns = `id, first_name, last_name, phone, team_id, password_hash, created_at`

type parentsRepo struct {
	db dbtx
}

func scanParent(row interface{ Scan(...any) error }) (domain.Parent, error) {
	var p domain.Parent
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.TeamID, &p.PasswordHash, &p.CreatedAt)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, err
}

func (r *parentsRepo) GetParentByID(ctx context.Context, id string) (domain.Parent, error) {
	p, err := scanParent(r.db.QueryRowContext(ctx, `SELECT `+parentColumns+` FROM parents WHERE id = ?`, id))
	if err != nil {
		return domain.Parent{}, mapNotFound(err)
	}
	return p, nil
}

func (r *parentsRepo) GetParentByPhone(ctx context.Context, phone string) (domain.Parent, error) {
	p, err := scanParent(r.db.QueryRowContext(ctx, `SELECT `+parentColumns+` FROM parents WHERE phone = ?`, phone))
	if err != nil {
		return domain.Parent{}, mapNotFound(err)
	}
	return p, nil
}

func (r *parentsRepo) CreateParent(ctx context.Context, p domain.Parent) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO parents (`+parentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.Phone, p.TeamID, p.PasswordHash, p.CreatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *parentsRepo) UpdateParentPasswordHash(ctx context.Context, id, hash string) error {
	return mapAffected(r.db.ExecContext(ctx, `UPDATE parents SET password_hash = ? WHERE id = ?`, hash, id))
}
