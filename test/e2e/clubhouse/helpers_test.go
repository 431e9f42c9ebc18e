package clubhouse_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/app"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/remote"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Shared setup for the club store end-to-end tests: a Postgres container,
 * the club store served in-process against it, and a client-side auth core
 * talking to that server over HTTP.
 */

const (
	postgresImage    = "postgres:16-alpine"
	postgresUser     = "clubstore"
	postgresPassword = "clubstore"
	postgresDB       = "clubstore"

	adminEmail    = "ada@example.com"
	adminPassword = "secret1"
)

// setupPostgres starts a throwaway Postgres and returns its DSN.
func setupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, host, port.Port(), postgresDB)
}

// setupClubStore serves the club store against a fresh Postgres and returns
// its base URL.
func setupClubStore(t *testing.T) string {
	t.Helper()
	dsn := setupPostgres(t)
	dir := t.TempDir()

	application, err := app.New(app.Config{
		Addr:                 "127.0.0.1:0",
		Issuer:               "clubstore-e2e",
		DBDriver:             "postgres",
		DBDSN:                dsn,
		SigningKeyPath:       filepath.Join(dir, "signing.pem"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SessionTTL:           time.Hour,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "json",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// seededClub is what seedClub leaves behind: one administrator, one team
// and one coach assigned to it.
type seededClub struct {
	team  *clubsdk.Team
	coach *clubsdk.Coach
}

func seedClub(t *testing.T, baseURL string) seededClub {
	t.Helper()
	ctx := t.Context()
	c := clubsdk.NewClient(baseURL)

	_, err := c.Register(ctx, clubsdk.RegisterRequest{
		Email:        adminEmail,
		Password:     adminPassword,
		Role:         domain.RoleAdmin,
		Name:         "Ada",
		ClubName:     "Riverside FC",
		ClubLocation: "Riverside",
	})
	require.NoError(t, err)

	resp, err := c.SignInWithPassword(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	admin := c.WithToken(resp.Token)
	defer func() { _ = admin.Revoke(ctx) }()

	team, err := admin.CreateTeam(ctx, "Under 10s")
	require.NoError(t, err)
	coach, err := admin.CreateCoach(ctx, clubsdk.CreateCoachRequest{
		Email:  "cole@example.com",
		Name:   "Cole",
		TeamID: team.ID,
	})
	require.NoError(t, err)

	return seededClub{team: team, coach: coach}
}

// device is one client installation: its own keychain file and auth core.
type device struct {
	client     *clubsdk.Client
	sessions   *auth.Sessions
	gateway    *auth.Gateway
	onboarding *auth.Onboarding
}

func newDevice(t *testing.T, baseURL, keychainPath string) device {
	t.Helper()
	client := clubsdk.NewClient(baseURL)
	backend := remote.NewBackend(client)
	sessions := auth.NewSessions(backend, remote.FileKeychain{Path: keychainPath})
	client.OnSessionExpired = sessions.Invalidate
	gateway := auth.NewGateway(backend, sessions)

	require.NoError(t, sessions.Restore(t.Context()))
	return device{
		client:     client,
		sessions:   sessions,
		gateway:    gateway,
		onboarding: auth.NewOnboarding(backend, gateway),
	}
}

func requireSignedInAs(t *testing.T, d device, role auth.Role) auth.Principal {
	t.Helper()
	p, ok := d.sessions.State().Principal()
	require.True(t, ok, "expected an authenticated session")
	require.Equal(t, role, p.Role)
	return p
}
