package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// Status is the coarse session state.
type Status uint8

const (
	StatusLoading Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is one of Loading, Unauthenticated or Authenticated(Principal). An
// Authenticated state always carries a resolved role.
type State struct {
	status    Status
	principal Principal
}

func Loading() State { return State{status: StatusLoading} }
func Unauthenticated() State { return State{status: StatusUnauthenticated} }

// Authenticated builds the signed-in state for p. It panics if p has no
// role, since Resolve never produces one.
func Authenticated(p Principal) State {
	if !p.Role.Valid() {
		panic("auth: authenticated state without a role")
	}
	return State{status: StatusAuthenticated, principal: p}
}

func (s State) Status() Status { return s.status }

// Principal returns the signed-in principal, if any.
func (s State) Principal() (Principal, bool) {
	return s.principal, s.status == StatusAuthenticated
}

// Sessions owns the process-wide session state. Sign-in goes through a
// Gateway or Onboarding; everything else reads State or subscribes.
type Sessions struct {
	backend  Backend
	keychain Keychain

	// transition serialises state changes together with their
	// notifications, so subscribers see transitions in order.
	transition sync.Mutex

	mu       sync.Mutex
	state    State
	cred     Credential
	restored bool
	subs     []subscriber
	nextID   uint64
}

type subscriber struct {
	id uint64
	fn func(State)
}

// NewSessions returns a store in the Loading state. Call Restore once to
// resolve it.
func NewSessions(backend Backend, keychain Keychain) *Sessions {
	return &Sessions{
		backend:  backend,
		keychain: keychain,
		state:    Loading(),
	}
}

func (s *Sessions) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called synchronously after every transition,
// in subscription order. fn must not sign in or out from inside the call.
// The returned func removes the subscription.
func (s *Sessions) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Restore resolves the Loading state from the persisted credential. It runs
// once per Sessions; later calls return ErrRestored. A dead credential is
// cleared. A transport failure leaves the credential in place for the next
// start and is returned; the state is Unauthenticated either way. If the
// session was signed out while the store was being asked, that sign-out
// stands and a resumed credential is revoked.
func (s *Sessions) Restore(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return ErrRestored
	}
	s.restored = true
	s.mu.Unlock()

	cred, ok, err := s.keychain.Load()
	if err != nil {
		l.Warn("keychain load failed", slog.Any("error", err))
		s.settle(ctx, Unauthenticated(), Credential{}, false)
		return err
	}
	if !ok {
		s.settle(ctx, Unauthenticated(), Credential{}, false)
		return nil
	}

	id, err := s.backend.Resume(ctx, cred)
	if err != nil {
		if errors.Is(err, ErrExpired) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrRejected) {
			l.Info("stored session is no longer valid")
			s.settle(ctx, Unauthenticated(), Credential{}, true)
			return nil
		}
		l.Warn("session restore failed", slog.Any("error", err))
		s.settle(ctx, Unauthenticated(), Credential{}, false)
		return ErrNetwork.wrap(err)
	}

	p, err := Resolve(id, cred.Channel)
	if err != nil {
		l.Error("restored identity has no usable role", slog.Any("error", err))
		s.settle(ctx, Unauthenticated(), Credential{}, true)
		return err
	}

	if !s.settle(ctx, Authenticated(p), cred, false) {
		l.Info("signed out during restore; dropping resumed credential")
		if err := s.backend.Revoke(ctx, cred); err != nil {
			l.Warn("credential revoke failed", slog.Any("error", err))
		}
		return nil
	}
	l.Info("session restored", slog.String("principal_id", p.ID), slog.String("role", p.Role.String()))
	return nil
}

// settle ends restoration with next, unless something else already moved
// the store out of Loading. The keychain is cleared with it when forget is
// set. It reports whether next was applied.
func (s *Sessions) settle(ctx context.Context, next State, cred Credential, forget bool) bool {
	s.transition.Lock()
	defer s.transition.Unlock()

	if s.State().status != StatusLoading {
		return false
	}
	if forget {
		s.clearKeychain(ctx)
	}
	s.commitLocked(next, cred)
	return true
}

// SignOut ends the session. It always leaves the store Unauthenticated;
// revoking the credential at the store is best-effort.
func (s *Sessions) SignOut(ctx context.Context) {
	s.transition.Lock()
	s.mu.Lock()
	cred := s.cred
	wasAuthenticated := s.state.status == StatusAuthenticated
	s.mu.Unlock()

	s.clearKeychain(ctx)
	s.commitLocked(Unauthenticated(), Credential{})
	s.transition.Unlock()

	if wasAuthenticated && cred.Token != "" {
		if err := s.backend.Revoke(ctx, cred); err != nil {
			slogx.FromContext(ctx).Warn("credential revoke failed", slog.Any("error", err))
		}
	}
}

// Invalidate drops an Authenticated session whose credential the store has
// reported expired. It does nothing unless token is the credential currently
// held, so a replaced or refused credential expiring is ignored.
func (s *Sessions) Invalidate(ctx context.Context, token string) {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	current := s.state.status == StatusAuthenticated && token != "" && s.cred.Token == token
	s.mu.Unlock()
	if !current {
		return
	}
	s.clearKeychain(ctx)
	s.commitLocked(Unauthenticated(), Credential{})
	slogx.FromContext(ctx).Info("session invalidated by store")
}

// establish records a successful sign-in. Re-signing in as the current
// principal replaces the credential without notifying subscribers. The
// replaced or refused credential is returned for revocation.
func (s *Sessions) establish(ctx context.Context, p Principal, cred Credential) (stale Credential, err error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	cur := s.State()
	switch cur.status {
	case StatusLoading:
		return cred, ErrSessionLoading
	case StatusAuthenticated:
		if cur.principal != p {
			return cred, ErrSessionActive
		}
	}

	if err := s.keychain.Save(cred); err != nil {
		slogx.FromContext(ctx).Warn("credential not persisted", slog.Any("error", err))
	}

	if cur.status == StatusAuthenticated {
		s.mu.Lock()
		stale, s.cred = s.cred, cred
		s.mu.Unlock()
		return stale, nil
	}

	s.commitLocked(Authenticated(p), cred)
	return Credential{}, nil
}

// commitLocked swaps the state and notifies if it changed. The caller
// holds transition.
func (s *Sessions) commitLocked(next State, cred Credential) {
	s.mu.Lock()
	s.cred = cred
	if s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}

func (s *Sessions) clearKeychain(ctx context.Context) {
	if err := s.keychain.Clear(); err != nil {
		slogx.FromContext(ctx).Warn("keychain clear failed", slog.Any("error", err))
	}
}
