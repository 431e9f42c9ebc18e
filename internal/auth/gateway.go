package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// Gateway runs the three sign-in protocols against the backend and, on
// success, records the session. Each call is a single attempt.
type Gateway struct {
	backend  Backend
	sessions *Sessions

	inFlight atomic.Bool
}

func NewGateway(backend Backend, sessions *Sessions) *Gateway {
	return &Gateway{backend: backend, sessions: sessions}
}

// LoginWithPassword signs in by email and password.
func (g *Gateway) LoginWithPassword(ctx context.Context, identifier, password string) (Principal, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return Principal{}, ErrMissingField
	}

	release, err := g.begin()
	if err != nil {
		return Principal{}, err
	}
	defer release()

	id, cred, err := g.backend.SignInWithPassword(ctx, identifier, password)
	if err != nil {
		logRejected(ctx, ChannelPassword, err)
		return Principal{}, backendErr(err, ErrInvalidCredentials, ErrInvalidCredentials)
	}
	return g.complete(ctx, id, cred, ChannelPassword)
}

// LoginWithAccessCode signs a coach in by access code. The code is matched
// case-insensitively; the exchange itself uses the code as typed.
func (g *Gateway) LoginWithAccessCode(ctx context.Context, code string) (Principal, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Principal{}, ErrMissingField
	}

	release, err := g.begin()
	if err != nil {
		return Principal{}, err
	}
	defer release()

	coach, err := g.backend.FindCoachByAccessCode(ctx, normalized)
	if err != nil {
		logRejected(ctx, ChannelAccessCode, err)
		return Principal{}, backendErr(err, ErrInvalidAccessCode, ErrInvalidAccessCode)
	}

	linked, err := g.backend.FindIdentity(ctx, coach.UserID)
	if err != nil {
		logRejected(ctx, ChannelAccessCode, err)
		return Principal{}, backendErr(err, ErrAccountNotFound, ErrAccountNotFound)
	}
	if linked.Email == "" {
		return Principal{}, ErrAccountNotFound
	}

	id, cred, err := g.backend.SignInWithPassword(ctx, linked.Email, code)
	if err != nil {
		logRejected(ctx, ChannelAccessCode, err)
		return Principal{}, backendErr(err, ErrInvalidCredentials, ErrInvalidCredentials)
	}
	return g.complete(ctx, id, cred, ChannelAccessCode)
}

// LoginWithPhoneAndPassword signs a parent in by exact phone number.
func (g *Gateway) LoginWithPhoneAndPassword(ctx context.Context, phone, password string) (Principal, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return Principal{}, ErrMissingField
	}

	release, err := g.begin()
	if err != nil {
		return Principal{}, err
	}
	defer release()

	return g.phoneLogin(ctx, phone, password)
}

// phoneLogin runs the phone exchange. The caller holds the in-flight flag.
func (g *Gateway) phoneLogin(ctx context.Context, phone, password string) (Principal, error) {
	id, cred, err := g.backend.SignInWithPhone(ctx, phone, password)
	if err != nil {
		logRejected(ctx, ChannelPhonePassword, err)
		return Principal{}, backendErr(err, ErrInvalidCredentials, ErrInvalidCredentials)
	}
	return g.complete(ctx, id, cred, ChannelPhonePassword)
}

// begin claims the in-flight flag. Sign-in is refused until restoration has
// finished.
func (g *Gateway) begin() (release func(), err error) {
	if g.sessions.State().Status() == StatusLoading {
		return nil, ErrSessionLoading
	}
	if !g.inFlight.CompareAndSwap(false, true) {
		return nil, ErrLoginInFlight
	}
	return func() { g.inFlight.Store(false) }, nil
}

func (g *Gateway) complete(ctx context.Context, id Identity, cred Credential, channel Channel) (Principal, error) {
	l := slogx.FromContext(ctx)
	cred.Channel = channel

	p, err := Resolve(id, channel)
	if err != nil {
		l.Error("signed-in identity has no usable role", slog.Any("error", err))
		g.revoke(ctx, cred)
		return Principal{}, err
	}

	stale, err := g.sessions.establish(ctx, p, cred)
	if stale.Token != "" {
		g.revoke(ctx, stale)
	}
	if err != nil {
		l.Info("sign-in refused", slog.String("channel", string(channel)), slog.String("reason", err.Error()))
		return Principal{}, err
	}

	l.Info("signed in",
		slog.String("channel", string(channel)),
		slog.String("principal_id", p.ID),
		slog.String("role", p.Role.String()),
	)
	return p, nil
}

// revoke drops a credential that will not be used. Failures are logged.
func (g *Gateway) revoke(ctx context.Context, cred Credential) {
	if err := g.backend.Revoke(ctx, cred); err != nil {
		slogx.FromContext(ctx).Warn("credential revoke failed", slog.Any("error", err))
	}
}

func logRejected(ctx context.Context, channel Channel, err error) {
	slogx.FromContext(ctx).Info("sign-in failed",
		slog.String("channel", string(channel)),
		slog.Any("error", err),
	)
}
