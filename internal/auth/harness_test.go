package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/aussiebroadwan/clubhouse/internal/auth/authtest"
	"github.com/stretchr/testify/require"
)

type harness struct {
	backend    *authtest.Backend
	keychain   *authtest.Keychain
	sessions   *auth.Sessions
	gateway    *auth.Gateway
	onboarding *auth.Onboarding
	seen       *recorder
}

// newHarness returns a restored (Unauthenticated) core over an empty fake
// store, with a recorder subscribed after restoration.
func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		backend:  authtest.NewBackend(),
		keychain: &authtest.Keychain{},
	}
	h.sessions = auth.NewSessions(h.backend, h.keychain)
	h.gateway = auth.NewGateway(h.backend, h.sessions)
	h.onboarding = auth.NewOnboarding(h.backend, h.gateway)

	require.NoError(t, h.sessions.Restore(context.Background()))
	require.Equal(t, auth.StatusUnauthenticated, h.sessions.State().Status())

	h.seen = &recorder{}
	unsubscribe := h.sessions.Subscribe(h.seen.record)
	t.Cleanup(unsubscribe)
	return h
}

type recorder struct {
	mu     sync.Mutex
	states []auth.State
}

func (r *recorder) record(s auth.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) all() []auth.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]auth.State(nil), r.states...)
}

func principalOf(t *testing.T, s auth.State) auth.Principal {
	t.Helper()
	p, ok := s.Principal()
	require.True(t, ok, "state %s has no principal", s.Status())
	return p
}
