package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it as methods so a transaction
// scoped Store can hand out the same repositories bound to the transaction.
type Store interface {
	Users() Users
	Clubs() Clubs
	Teams() Teams
	Coaches() Coaches
	Parents() Parents
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise. Nested transactions are not supported.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively; emails are stored lower-cased.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdateUserPasswordHash(ctx context.Context, id, hash string) error

	// DeleteUser cascades to the user's club, teams and coach record.
	DeleteUser(ctx context.Context, id string) error
}

type Clubs interface {
	GetClubByAdmin(ctx context.Context, adminID string) (domain.Club, error)
	CreateClub(ctx context.Context, c domain.Club) error
}

type Teams interface {
	GetTeamByID(ctx context.Context, id string) (domain.Team, error)

	// GetTeamByAccessCode matches the upper-cased code.
	GetTeamByAccessCode(ctx context.Context, code string) (domain.Team, error)

	// CreateTeam returns ErrAlreadyExists on an access code collision.
	CreateTeam(ctx context.Context, t domain.Team) error

	ListTeamsByClub(ctx context.Context, clubID string) ([]domain.Team, error)
}

type Coaches interface {
	GetCoachByAccessCode(ctx context.Context, code string) (domain.Coach, error)
	GetCoachByUserID(ctx context.Context, userID string) (domain.Coach, error)

	// CreateCoach returns ErrAlreadyExists on an access code collision.
	CreateCoach(ctx context.Context, c domain.Coach) error
}

type Parents interface {
	GetParentByID(ctx context.Context, id string) (domain.Parent, error)

	// GetParentByPhone matches the phone exactly.
	GetParentByPhone(ctx context.Context, phone string) (domain.Parent, error)

	// CreateParent returns ErrAlreadyExists when the phone is taken.
	CreateParent(ctx context.Context, p domain.Parent) error

	UpdateParentPasswordHash(ctx context.Context, id, hash string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession marks the session revoked. Revoking twice is not an error.
	RevokeSession(ctx context.Context, id string, at time.Time) error

	// RevokeSubjectSessions revokes every live session of a subject except
	// keepID, returning how many were revoked.
	RevokeSubjectSessions(ctx context.Context, kind, subjectID, keepID string, at time.Time) (int64, error)

	// DeleteStaleSessions removes sessions expired before now or revoked
	// before revokedBefore.
	DeleteStaleSessions(ctx context.Context, now, revokedBefore time.Time) (int64, error)
}
