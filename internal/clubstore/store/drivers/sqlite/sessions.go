package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
)

const sessionColumns = `id, subject_id, subject_kind, channel, device_id, created_at, expires_at, revoked_at`

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SubjectID, s.SubjectKind, s.Channel, s.DeviceID,
		s.CreatedAt.UTC(), s.ExpiresAt.UTC(), mapOptionalTime(s.RevokedAt),
	)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s         domain.Session
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id).Scan(
		&s.ID, &s.SubjectID, &s.SubjectKind, &s.Channel, &s.DeviceID, &s.CreatedAt, &s.ExpiresAt, &revokedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.RevokedAt = mapNullTimePtr(revokedAt)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`, at.UTC(), id)
	return mapAffected(res, err)
}

func (r *sessionsRepo) RevokeSubjectSessions(ctx context.Context, kind, subjectID, keepID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ?
		 WHERE subject_kind = ? AND subject_id = ? AND id <> ? AND revoked_at IS NULL`,
		at.UTC(), kind, subjectID, keepID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, now, revokedBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)`,
		now.UTC(), revokedBefore.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
