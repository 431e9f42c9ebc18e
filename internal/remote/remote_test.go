package remote

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	httpapi "github.com/aussiebroadwan/clubhouse/internal/clubstore/http"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store/drivers/sqlite"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// newClubStore serves a fresh in-memory club store and returns a client for it.
func newClubStore(t *testing.T) *clubsdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierEdDSA("clubstore-test", time.Minute)
	verifier.Trust(signer.KID(), signer.PublicKey())

	r := httpapi.NewRouter("test", st, verifier.Ready, slogx.Discard())
	r.AuthService = &service.AuthService{Store: st, Signer: signer, Verifier: verifier, Issuer: "clubstore-test", SessionTTL: time.Hour}
	r.DirectoryService = &service.DirectoryService{Store: st}
	r.RegistrationService = &service.RegistrationService{Store: st}
	r.TeamService = &service.TeamService{Store: st}
	r.CoachService = &service.CoachService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return clubsdk.NewClient(srv.URL)
}

type club struct {
	team  *clubsdk.Team
	coach *clubsdk.Coach
}

// seedClub registers an administrator with one team and one coach.
func seedClub(t *testing.T, c *clubsdk.Client) club {
	t.Helper()
	ctx := context.Background()

	_, err := c.Register(ctx, clubsdk.RegisterRequest{
		Email:        "ada@example.com",
		Password:     "secret1",
		Role:         domain.RoleAdmin,
		Name:         "Ada",
		ClubName:     "Riverside FC",
		ClubLocation: "Riverside",
	})
	require.NoError(t, err)

	resp, err := c.SignInWithPassword(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	admin := c.WithToken(resp.Token)

	team, err := admin.CreateTeam(ctx, "Under 10s")
	require.NoError(t, err)
	coach, err := admin.CreateCoach(ctx, clubsdk.CreateCoachRequest{Email: "cole@example.com", Name: "Cole", TeamID: team.ID})
	require.NoError(t, err)

	require.NoError(t, admin.Revoke(ctx))
	return club{team: team, coach: coach}
}

type core struct {
	sessions   *auth.Sessions
	gateway    *auth.Gateway
	onboarding *auth.Onboarding
	keychain   FileKeychain
}

func newCore(t *testing.T, c *clubsdk.Client, keychain FileKeychain) core {
	t.Helper()
	backend := NewBackend(c)
	sessions := auth.NewSessions(backend, keychain)
	c.OnSessionExpired = sessions.Invalidate
	gateway := auth.NewGateway(backend, sessions)
	return core{
		sessions:   sessions,
		gateway:    gateway,
		onboarding: auth.NewOnboarding(backend, gateway),
		keychain:   keychain,
	}
}

func TestAccessCodeLoginAgainstClubStore(t *testing.T) {
	ctx := context.Background()
	c := newClubStore(t)
	seeded := seedClub(t, c)

	cc := newCore(t, c, FileKeychain{Path: filepath.Join(t.TempDir(), "cred.json")})
	require.NoError(t, cc.sessions.Restore(ctx))

	_, err := cc.gateway.LoginWithAccessCode(ctx, "ZZZZZZ")
	require.ErrorIs(t, err, auth.ErrInvalidAccessCode)
	require.Equal(t, auth.StatusUnauthenticated, cc.sessions.State().Status())

	lower, err := cc.gateway.LoginWithAccessCode(ctx, strings.ToLower(seeded.coach.AccessCode))
	require.NoError(t, err)
	require.Equal(t, auth.RoleCoach, lower.Role)
	require.Equal(t, "cole@example.com", lower.Email)
	cc.sessions.SignOut(ctx)

	upper, err := cc.gateway.LoginWithAccessCode(ctx, seeded.coach.AccessCode)
	require.NoError(t, err)
	require.Equal(t, lower, upper)
}

func TestParentOnboardingAgainstClubStore(t *testing.T) {
	ctx := context.Background()
	c := newClubStore(t)
	seeded := seedClub(t, c)

	cc := newCore(t, c, FileKeychain{Path: filepath.Join(t.TempDir(), "cred.json")})
	require.NoError(t, cc.sessions.Restore(ctx))

	f, err := cc.onboarding.SubmitPhone(ctx, cc.onboarding.Start(), "+15551234567")
	require.NoError(t, err)
	require.Equal(t, auth.StepTeamCodeCheck, f.Step())

	_, err = cc.onboarding.SubmitTeamCode(ctx, f, "NOPE00")
	require.ErrorIs(t, err, auth.ErrInvalidTeamCode)

	f, err = cc.onboarding.SubmitTeamCode(ctx, f, seeded.team.AccessCode)
	require.NoError(t, err)
	require.Equal(t, auth.StepSetup, f.Step())

	f, p, err := cc.onboarding.SubmitSetup(ctx, f, auth.SetupForm{
		FirstName: "Pat", LastName: "Parent", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, auth.StepAuthenticated, f.Step())
	require.Equal(t, auth.RoleParent, p.Role)
	require.Equal(t, "Pat Parent", p.Name)

	// A second process restores the same parent from the keychain.
	restored := newCore(t, c, cc.keychain)
	require.NoError(t, restored.sessions.Restore(ctx))
	got, ok := restored.sessions.State().Principal()
	require.True(t, ok)
	require.Equal(t, p, got)

	// Known phone now goes straight to the password prompt.
	cc.sessions.SignOut(ctx)
	f, err = cc.onboarding.SubmitPhone(ctx, cc.onboarding.Start(), "+15551234567")
	require.NoError(t, err)
	require.Equal(t, auth.StepPasswordEntry, f.Step())
}

func TestRevokedCredentialInvalidatesSession(t *testing.T) {
	ctx := context.Background()
	c := newClubStore(t)
	seedClub(t, c)

	keychain := FileKeychain{Path: filepath.Join(t.TempDir(), "cred.json")}
	first := newCore(t, c, keychain)
	require.NoError(t, first.sessions.Restore(ctx))
	_, err := first.gateway.LoginWithPassword(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	cred, ok, err := keychain.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, auth.ChannelPassword, cred.Channel)

	// Revoke behind the core's back; the next authenticated call trips the hook.
	require.NoError(t, c.WithToken(cred.Token).Revoke(ctx))
	_, err = c.WithToken(cred.Token).Current(ctx)
	require.ErrorIs(t, err, clubsdk.ErrSessionExpired)

	require.Equal(t, auth.StatusUnauthenticated, first.sessions.State().Status())
	_, ok, err = keychain.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReloginAfterStoreExpiredOldCredential(t *testing.T) {
	ctx := context.Background()
	c := newClubStore(t)
	seedClub(t, c)

	keychain := FileKeychain{Path: filepath.Join(t.TempDir(), "cred.json")}
	cc := newCore(t, c, keychain)
	require.NoError(t, cc.sessions.Restore(ctx))

	admin, err := cc.gateway.LoginWithPassword(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	old, ok, err := keychain.Load()
	require.NoError(t, err)
	require.True(t, ok)

	// The store drops the old session; signing in again replaces it, and
	// revoking the replaced credential answers session_expired.
	require.NoError(t, c.WithToken(old.Token).Revoke(ctx))

	var seen []auth.State
	cc.sessions.Subscribe(func(s auth.State) { seen = append(seen, s) })

	again, err := cc.gateway.LoginWithPassword(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, admin, again)
	require.Empty(t, seen)

	got, ok := cc.sessions.State().Principal()
	require.True(t, ok)
	require.Equal(t, admin, got)

	cred, ok, err := keychain.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, old.Token, cred.Token)

	current, err := c.WithToken(cred.Token).Current(ctx)
	require.NoError(t, err)
	require.Equal(t, admin.ID, current.Identity.ID)
}

func TestRestoreKeepsCredentialWhenStoreIsDown(t *testing.T) {
	ctx := context.Background()
	keychain := FileKeychain{Path: filepath.Join(t.TempDir(), "cred.json")}
	cred := auth.Credential{Token: "tok", Channel: auth.ChannelPassword, ExpiresAt: time.Now().Add(time.Hour).UTC()}
	require.NoError(t, keychain.Save(cred))

	down := clubsdk.NewClient("http://127.0.0.1:1")
	cc := newCore(t, down, keychain)

	err := cc.sessions.Restore(ctx)
	require.ErrorIs(t, err, auth.ErrNetwork)
	require.Equal(t, auth.StatusUnauthenticated, cc.sessions.State().Status())

	_, ok, err := keychain.Load()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFileKeychain(t *testing.T) {
	k := FileKeychain{Path: filepath.Join(t.TempDir(), "nested", "cred.json")}

	_, ok, err := k.Load()
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, k.Clear())

	cred := auth.Credential{Token: "tok", Channel: auth.ChannelAccessCode, ExpiresAt: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, k.Save(cred))

	info, err := os.Stat(k.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, ok, err := k.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cred, got)

	require.NoError(t, k.Clear())
	_, ok, err = k.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileKeychainCorrupt(t *testing.T) {
	k := FileKeychain{Path: filepath.Join(t.TempDir(), "cred.json")}
	require.NoError(t, os.WriteFile(k.Path, []byte("{"), 0o600))

	_, _, err := k.Load()
	require.Error(t, err)
}

func TestDeviceIDIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubctl", "device-id")

	first, err := LoadOrCreateDeviceID(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrCreateDeviceID(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, os.WriteFile(path, []byte("not-a-uuid"), 0o600))
	_, err = LoadOrCreateDeviceID(path)
	require.Error(t, err)
}
