package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "club",
			"POSTGRES_PASSWORD": "club",
			"POSTGRES_DB":       "clubstore",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://club:club@%s:%s/clubstore?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations(), "re-applying is a no-op")
	require.NoError(t, s.Ping(ctx))

	admin := domain.User{ID: idx.New().String(), Email: "Admin@Example.com", Role: domain.RoleAdmin, Name: "Ada", PasswordHash: "h"}
	club := domain.Club{ID: idx.New().String(), AdminID: admin.ID, Name: "Riverside FC", Location: "Riverside"}
	team := domain.Team{ID: idx.New().String(), ClubID: club.ID, Name: "Under 10s", AccessCode: "t3am01"}

	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}
		if err := tx.Clubs().CreateClub(ctx, club); err != nil {
			return err
		}
		return tx.Teams().CreateTeam(ctx, team)
	})
	require.NoError(t, err)

	t.Run("users", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "admin@EXAMPLE.com")
		require.NoError(t, err)
		require.Equal(t, admin.ID, got.ID)

		dup := admin
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

		_, err = s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("teams and coaches", func(t *testing.T) {
		got, err := s.Teams().GetTeamByAccessCode(ctx, "T3AM01")
		require.NoError(t, err)
		require.Equal(t, team.ID, got.ID)

		coachUser := domain.User{ID: idx.New().String(), Email: "coach@example.com", Role: domain.RoleCoach, Name: "Cory", PasswordHash: "h"}
		require.NoError(t, s.Users().CreateUser(ctx, coachUser))
		require.NoError(t, s.Coaches().CreateCoach(ctx, domain.Coach{ID: idx.New().String(), UserID: coachUser.ID, AccessCode: "abc123"}))

		coach, err := s.Coaches().GetCoachByAccessCode(ctx, "ABC123")
		require.NoError(t, err)
		require.Equal(t, coachUser.ID, coach.UserID)
		require.Empty(t, coach.TeamID)
	})

	t.Run("parents", func(t *testing.T) {
		p := domain.Parent{ID: idx.New().String(), FirstName: "Pat", LastName: "Parent", Phone: "+61400000000", TeamID: team.ID, PasswordHash: "h"}
		require.NoError(t, s.Parents().CreateParent(ctx, p))

		got, err := s.Parents().GetParentByPhone(ctx, p.Phone)
		require.NoError(t, err)
		require.Equal(t, p.ID, got.ID)
	})

	t.Run("sessions", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		sess := domain.Session{
			ID:          idx.New().String(),
			SubjectID:   admin.ID,
			SubjectKind: domain.SubjectUser,
			Channel:     domain.ChannelPassword,
			CreatedAt:   now,
			ExpiresAt:   now.Add(time.Hour),
		}
		require.NoError(t, s.Sessions().CreateSession(ctx, sess))
		require.NoError(t, s.Sessions().RevokeSession(ctx, sess.ID, now))

		got, err := s.Sessions().GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.False(t, got.Live(now))

		n, err := s.Sessions().DeleteStaleSessions(ctx, now, now.Add(time.Second))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}
