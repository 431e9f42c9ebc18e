package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/jackc/pgx/v5"
)

type usersRepo struct{ q querier }

const userColumns = `id, email, role, name, picture_url, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.Name, &u.PictureURL, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, strings.ToLower(u.Email), u.Role, u.Name, u.PictureURL, u.PasswordHash, u.CreatedAt, now)
	return mapConflict(err)
}

func (r *usersRepo) UpdateUserPasswordHash(ctx context.Context, id, hash string) error {
	return mapAffected(r.q.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id))
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) error {
	return mapAffected(r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

type clubsRepo struct{ q querier }

func (r *clubsRepo) GetClubByAdmin(ctx context.Context, adminID string) (domain.Club, error) {
	var c domain.Club
	err := r.q.QueryRow(ctx, `
		SELECT id, admin_id, name, location, logo_url, created_at
		FROM clubs
		WHERE admin_id = $1
	`, adminID).Scan(&c.ID, &c.AdminID, &c.Name, &c.Location, &c.LogoURL, &c.CreatedAt)
	if err != nil {
		return domain.Club{}, mapNotFound(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (r *clubsRepo) CreateClub(ctx context.Context, c domain.Club) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO clubs (id, admin_id, name, location, logo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.AdminID, c.Name, c.Location, c.LogoURL, c.CreatedAt)
	return mapConflict(err)
}

type teamsRepo struct{ q querier }

const teamColumns = `id, club_id, name, access_code, created_at`

func scanTeam(row pgx.Row) (domain.Team, error) {
	var t domain.Team
	if err := row.Scan(&t.ID, &t.ClubID, &t.Name, &t.AccessCode, &t.CreatedAt); err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *teamsRepo) GetTeamByID(ctx context.Context, id string) (domain.Team, error) {
	return scanTeam(r.q.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
}

func (r *teamsRepo) GetTeamByAccessCode(ctx context.Context, code string) (domain.Team, error) {
	return scanTeam(r.q.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE access_code = $1`, strings.ToUpper(code)))
}

func (r *teamsRepo) CreateTeam(ctx context.Context, t domain.Team) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO teams (`+teamColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, t.ID, t.ClubID, t.Name, strings.ToUpper(t.AccessCode), t.CreatedAt)
	return mapConflict(err)
}

func (r *teamsRepo) ListTeamsByClub(ctx context.Context, clubID string) ([]domain.Team, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE club_id = $1 ORDER BY name, id`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

type coachesRepo struct{ q querier }

const coachColumns = `id, user_id, team_id, access_code, phone, created_at`

func scanCoach(row pgx.Row) (domain.Coach, error) {
	var (
		c      domain.Coach
		teamID *string
	)
	if err := row.Scan(&c.ID, &c.UserID, &teamID, &c.AccessCode, &c.Phone, &c.CreatedAt); err != nil {
		return domain.Coach{}, mapNotFound(err)
	}
	if teamID != nil {
		c.TeamID = *teamID
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func (r *coachesRepo) GetCoachByAccessCode(ctx context.Context, code string) (domain.Coach, error) {
	return scanCoach(r.q.QueryRow(ctx,
		`SELECT `+coachColumns+` FROM coaches WHERE access_code = $1`, strings.ToUpper(code)))
}

func (r *coachesRepo) GetCoachByUserID(ctx context.Context, userID string) (domain.Coach, error) {
	return scanCoach(r.q.QueryRow(ctx, `SELECT `+coachColumns+` FROM coaches WHERE user_id = $1`, userID))
}

func (r *coachesRepo) CreateCoach(ctx context.Context, c domain.Coach) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	var teamID *string
	if c.TeamID != "" {
		teamID = &c.TeamID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO coaches (`+coachColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.UserID, teamID, strings.ToUpper(c.AccessCode), c.Phone, c.CreatedAt)
	return mapConflict(err)
}

type parentsRepo struct{ q querier }

const parentColumns = `id, first_name, last_name, phone, team_id, password_hash, created_at`

func scanParent(row pgx.Row) (domain.Parent, error) {
	var p domain.Parent
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.TeamID, &p.PasswordHash, &p.CreatedAt); err != nil {
		return domain.Parent{}, mapNotFound(err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func (r *parentsRepo) GetParentByID(ctx context.Context, id string) (domain.Parent, error) {
	return scanParent(r.q.QueryRow(ctx, `SELECT `+parentColumns+` FROM parents WHERE id = $1`, id))
}

func (r *parentsRepo) GetParentByPhone(ctx context.Context, phone string) (domain.Parent, error) {
	return scanParent(r.q.QueryRow(ctx, `SELECT `+parentColumns+` FROM parents WHERE phone = $1`, phone))
}

func (r *parentsRepo) CreateParent(ctx context.Context, p domain.Parent) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO parents (`+parentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.FirstName, p.LastName, p.Phone, p.TeamID, p.PasswordHash, p.CreatedAt)
	return mapConflict(err)
}

func (r *parentsRepo) UpdateParentPasswordHash(ctx context.Context, id, hash string) error {
	return mapAffected(r.q.Exec(ctx, `UPDATE parents SET password_hash = $1 WHERE id = $2`, hash, id))
}

type sessionsRepo struct{ q querier }

const sessionColumns = `id, subject_id, subject_kind, channel, device_id, created_at, expires_at, revoked_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.SubjectID, s.SubjectKind, s.Channel, s.DeviceID, s.CreatedAt, s.ExpiresAt, s.RevokedAt)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	err := r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id).Scan(
		&s.ID, &s.SubjectID, &s.SubjectKind, &s.Channel, &s.DeviceID, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	if s.RevokedAt != nil {
		at := s.RevokedAt.UTC()
		s.RevokedAt = &at
	}
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, at time.Time) error {
	return mapAffected(r.q.Exec(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, $1) WHERE id = $2`, at, id))
}

func (r *sessionsRepo) RevokeSubjectSessions(ctx context.Context, kind, subjectID, keepID string, at time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE sessions SET revoked_at = $1
		WHERE subject_kind = $2 AND subject_id = $3 AND id <> $4 AND revoked_at IS NULL
	`, at, kind, subjectID, keepID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, now, revokedBefore time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $2)
	`, now, revokedBefore)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
