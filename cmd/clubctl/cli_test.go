package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

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

// deviceLog records the X-Device-ID of every request the club store sees.
type deviceLog struct {
	mu  sync.Mutex
	ids []string
}

func (d *deviceLog) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.ids = append(d.ids, r.Header.Get(clubsdk.DeviceIDHeader))
		d.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (d *deviceLog) seen() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ids...)
}

func startClubStore(t *testing.T) string {
	t.Helper()
	return startClubStoreLogged(t, &deviceLog{})
}

func startClubStoreLogged(t *testing.T, devices *deviceLog) string {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierEdDSA("clubctl-test", time.Minute)
	verifier.Trust(signer.KID(), signer.PublicKey())

	r := httpapi.NewRouter("test", st, verifier.Ready, slogx.Discard())
	r.AuthService = &service.AuthService{Store: st, Signer: signer, Verifier: verifier, Issuer: "clubctl-test", SessionTTL: time.Hour}
	r.DirectoryService = &service.DirectoryService{Store: st}
	r.RegistrationService = &service.RegistrationService{Store: st}
	r.TeamService = &service.TeamService{Store: st}
	r.CoachService = &service.CoachService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(devices.wrap(r))
	t.Cleanup(srv.Close)
	return srv.URL
}

type session struct {
	server   string
	keychain string
}

func (s session) run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-server", s.server, "-keychain", s.keychain, "-log-level", "error"}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestUsage(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), nil, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	require.Equal(t, 2, code)
	require.Contains(t, stderr.String(), "usage: clubctl")
}

func TestLoginWhoamiLogout(t *testing.T) {
	url := startClubStore(t)
	_, err := clubsdk.NewClient(url).Register(context.Background(), clubsdk.RegisterRequest{
		Email:        "ada@example.com",
		Password:     "secret1",
		Role:         domain.RoleAdmin,
		Name:         "Ada",
		ClubName:     "Riverside FC",
		ClubLocation: "Riverside",
	})
	require.NoError(t, err)

	s := session{server: url, keychain: filepath.Join(t.TempDir(), "session.json")}

	out, _, code := s.run(t, "wrong-pw\n", "login", "password", "ada@example.com")
	require.Equal(t, 1, code)
	require.Empty(t, strings.TrimPrefix(out, "Password: "))

	out, errOut, code := s.run(t, "secret1\n", "login", "password", "ada@example.com")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "signed in as Ada (administrator")
	require.Contains(t, out, "Payments")

	out, _, code = s.run(t, "", "whoami")
	require.Equal(t, 0, code)
	require.Contains(t, out, "signed in as Ada")

	out, _, code = s.run(t, "", "logout")
	require.Equal(t, 0, code)
	require.Contains(t, out, "signed out")

	out, _, code = s.run(t, "", "whoami")
	require.Equal(t, 0, code)
	require.Contains(t, out, "not signed in")
}

func TestOnboardNewParent(t *testing.T) {
	url := startClubStore(t)
	ctx := context.Background()
	c := clubsdk.NewClient(url)

	_, err := c.Register(ctx, clubsdk.RegisterRequest{
		Email: "ada@example.com", Password: "secret1", Role: domain.RoleAdmin, Name: "Ada",
		ClubName: "Riverside FC", ClubLocation: "Riverside",
	})
	require.NoError(t, err)
	resp, err := c.SignInWithPassword(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	team, err := c.WithToken(resp.Token).CreateTeam(ctx, "Under 10s")
	require.NoError(t, err)

	s := session{server: url, keychain: filepath.Join(t.TempDir(), "session.json")}
	input := strings.Join([]string{
		"not-a-phone",
		"+15551234567",
		"BADCOD",
		team.AccessCode,
		"Pat",
		"Parent",
		"secret1",
		"secret2", // mismatch, asked again
		"Pat",
		"Parent",
		"secret1",
		"secret1",
	}, "\n") + "\n"

	out, errOut, code := s.run(t, input, "onboard")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "enter a phone number in international format")
	require.Contains(t, out, "no team has that code")
	require.Contains(t, out, "passwords do not match")
	require.Contains(t, out, "signed in as Pat Parent (parent")
	require.Contains(t, out, "Children")
}

func TestOnboardAbandon(t *testing.T) {
	s := session{server: startClubStore(t), keychain: filepath.Join(t.TempDir(), "session.json")}

	out, _, code := s.run(t, "\n", "onboard")
	require.Equal(t, 0, code)
	require.Contains(t, out, "onboarding abandoned")
}

func TestDeviceIDPersistsAcrossRuns(t *testing.T) {
	devices := &deviceLog{}
	dir := t.TempDir()
	s := session{server: startClubStoreLogged(t, devices), keychain: filepath.Join(dir, "session.json")}

	// With no saved session, restore sends nothing; the code lookup is the
	// only request of each run.
	_, _, code := s.run(t, "", "login", "code", "NOSUCH")
	require.Equal(t, 1, code)
	_, _, code = s.run(t, "", "login", "code", "NOSUCH")
	require.Equal(t, 1, code)

	ids := devices.seen()
	require.Len(t, ids, 2)
	require.NotEmpty(t, ids[0])
	require.Equal(t, ids[0], ids[1])
	require.FileExists(t, filepath.Join(dir, "device-id"))
}
