package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

// seedClub creates an admin, their club and one team.
func seedClub(t *testing.T, s *Store) (domain.User, domain.Club, domain.Team) {
	t.Helper()
	ctx := context.Background()

	admin := domain.User{
		ID:           idx.New().String(),
		Email:        "Admin@Example.com",
		Role:         domain.RoleAdmin,
		Name:         "Ada Admin",
		PasswordHash: "hash",
	}
	require.NoError(t, s.Users().CreateUser(ctx, admin))

	club := domain.Club{ID: idx.New().String(), AdminID: admin.ID, Name: "Riverside FC", Location: "Riverside"}
	require.NoError(t, s.Clubs().CreateClub(ctx, club))

	team := domain.Team{ID: idx.New().String(), ClubID: club.ID, Name: "Under 10s", AccessCode: "t3am01"}
	require.NoError(t, s.Teams().CreateTeam(ctx, team))

	return admin, club, team
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	admin, _, _ := seedClub(t, s)

	t.Run("email lookup ignores case", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "ADMIN@example.COM")
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.ID)
		require.Equal(t, "admin@example.com", got.Email)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := admin
		dup.ID = idx.New().String()
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("password update", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateUserPasswordHash(ctx, admin.ID, "new-hash"))
		got, err := s.Users().GetUserByID(ctx, admin.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)

		err = s.Users().UpdateUserPasswordHash(ctx, "missing", "x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTeamsAndCoaches(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, club, team := seedClub(t, s)

	got, err := s.Teams().GetTeamByAccessCode(ctx, "T3AM01")
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)
	require.Equal(t, "T3AM01", got.AccessCode)

	_, err = s.Teams().GetTeamByAccessCode(ctx, "NOPE00")
	require.ErrorIs(t, err, store.ErrNotFound)

	clash := domain.Team{ID: idx.New().String(), ClubID: club.ID, Name: "Under 12s", AccessCode: "T3AM01"}
	require.ErrorIs(t, s.Teams().CreateTeam(ctx, clash), store.ErrAlreadyExists)

	second := domain.Team{ID: idx.New().String(), ClubID: club.ID, Name: "Opens", AccessCode: "OPEN01"}
	require.NoError(t, s.Teams().CreateTeam(ctx, second))

	teams, err := s.Teams().ListTeamsByClub(ctx, club.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.Equal(t, "Opens", teams[0].Name)

	coachUser := domain.User{
		ID:           idx.New().String(),
		Email:        "coach@example.com",
		Role:         domain.RoleCoach,
		Name:         "Cory Coach",
		PasswordHash: "hash",
	}
	require.NoError(t, s.Users().CreateUser(ctx, coachUser))

	coach := domain.Coach{ID: idx.New().String(), UserID: coachUser.ID, TeamID: team.ID, AccessCode: "abc123"}
	require.NoError(t, s.Coaches().CreateCoach(ctx, coach))

	byCode, err := s.Coaches().GetCoachByAccessCode(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, coachUser.ID, byCode.UserID)
	require.Equal(t, team.ID, byCode.TeamID)

	byUser, err := s.Coaches().GetCoachByUserID(ctx, coachUser.ID)
	require.NoError(t, err)
	require.Equal(t, coach.ID, byUser.ID)

	// Coaches without a team are allowed.
	loneUser := domain.User{ID: idx.New().String(), Email: "lone@example.com", Role: domain.RoleCoach, Name: "Lone", PasswordHash: "h"}
	require.NoError(t, s.Users().CreateUser(ctx, loneUser))
	require.NoError(t, s.Coaches().CreateCoach(ctx, domain.Coach{ID: idx.New().String(), UserID: loneUser.ID, AccessCode: "LONE01"}))
	lone, err := s.Coaches().GetCoachByAccessCode(ctx, "LONE01")
	require.NoError(t, err)
	require.Empty(t, lone.TeamID)
}

func TestParents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, _, team := seedClub(t, s)

	p := domain.Parent{
		ID:           idx.New().String(),
		FirstName:    "Pat",
		LastName:     "Parent",
		Phone:        "+61400000000",
		TeamID:       team.ID,
		PasswordHash: "hash",
	}
	require.NoError(t, s.Parents().CreateParent(ctx, p))

	got, err := s.Parents().GetParentByPhone(ctx, "+61400000000")
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, "Pat Parent", got.DisplayName())

	_, err = s.Parents().GetParentByPhone(ctx, "61400000000")
	require.ErrorIs(t, err, store.ErrNotFound)

	dup := p
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Parents().CreateParent(ctx, dup), store.ErrAlreadyExists)

	orphan := domain.Parent{ID: idx.New().String(), Phone: "+61400000001", TeamID: "missing-team", PasswordHash: "h"}
	require.Error(t, s.Parents().CreateParent(ctx, orphan))
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	admin, _, _ := seedClub(t, s)

	now := time.Now().UTC().Truncate(time.Second)
	newSession := func(expires time.Time) domain.Session {
		return domain.Session{
			ID:          idx.New().String(),
			SubjectID:   admin.ID,
			SubjectKind: domain.SubjectUser,
			Channel:     domain.ChannelPassword,
			DeviceID:    "device-1",
			CreatedAt:   now,
			ExpiresAt:   expires,
		}
	}

	live := newSession(now.Add(time.Hour))
	other := newSession(now.Add(time.Hour))
	expired := newSession(now.Add(-time.Minute))
	for _, sess := range []domain.Session{live, other, expired} {
		require.NoError(t, s.Sessions().CreateSession(ctx, sess))
	}

	got, err := s.Sessions().GetSession(ctx, live.ID)
	require.NoError(t, err)
	require.True(t, got.Live(now))
	require.True(t, got.ExpiresAt.Equal(live.ExpiresAt))

	require.NoError(t, s.Sessions().RevokeSession(ctx, live.ID, now))
	require.NoError(t, s.Sessions().RevokeSession(ctx, live.ID, now.Add(time.Minute)))
	got, err = s.Sessions().GetSession(ctx, live.ID)
	require.NoError(t, err)
	require.False(t, got.Live(now))
	require.NotNil(t, got.RevokedAt)
	require.True(t, got.RevokedAt.Equal(now))

	require.ErrorIs(t, s.Sessions().RevokeSession(ctx, "missing", now), store.ErrNotFound)

	n, err := s.Sessions().RevokeSubjectSessions(ctx, domain.SubjectUser, admin.ID, expired.ID, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n) // only "other" was still live

	n, err = s.Sessions().DeleteStaleSessions(ctx, now, now.Add(time.Second))
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	_, err = s.Sessions().GetSession(ctx, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	errBoom := errors.New("boom")
	u := domain.User{ID: idx.New().String(), Email: "tx@example.com", Role: domain.RoleAdmin, Name: "Tx", PasswordHash: "h"}

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, u))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.Clubs().CreateClub(ctx, domain.Club{ID: idx.New().String(), AdminID: u.ID, Name: "Tx Club", Location: "Here"})
	})
	require.NoError(t, err)

	club, err := s.Clubs().GetClubByAdmin(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Tx Club", club.Name)

	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))
	_, err = s.Clubs().GetClubByAdmin(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
