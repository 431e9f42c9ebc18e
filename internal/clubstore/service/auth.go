package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// AuthService issues, resumes and revokes sign-in sessions. A session is a
// row in the sessions table plus a signed token naming it, so revoking the
// row kills the token early.
type AuthService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	SessionTTL time.Duration

	Now func() time.Time // defaults to time.Now
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// SignInWithPassword signs in an identity by email. Provisioned coaches
// (those with a coach record) sign in with their access code as the
// password, which is matched without regard to case. Everyone else,
// including coaches who registered themselves, uses their own password.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password, deviceID string) (domain.IssuedSession, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.IssuedSession{}, invalid("email and password are required")
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password sign-in for unknown email")
			return domain.IssuedSession{}, ErrInvalidCredentials
		}
		return domain.IssuedSession{}, err
	}

	channel := domain.ChannelPassword
	if user.Role == domain.RoleCoach {
		_, err := s.Store.Coaches().GetCoachByUserID(ctx, user.ID)
		switch {
		case err == nil:
			password = strings.ToUpper(password)
			channel = domain.ChannelAccessCode
		case !errors.Is(err, store.ErrNotFound):
			return domain.IssuedSession{}, err
		}
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("password sign-in rejected", slog.String("user_id", user.ID))
		return domain.IssuedSession{}, ErrInvalidCredentials
	}

	issued, err := s.issue(ctx, user.ID, domain.SubjectUser, channel, deviceID)
	if err != nil {
		return domain.IssuedSession{}, err
	}
	issued.User = &user

	l.Info("session issued",
		slog.String("user_id", user.ID),
		slog.String("channel", channel),
		slog.String("session_id", issued.Session.ID),
	)
	return issued, nil
}

// SignInWithPhone signs in a parent by exact phone number.
func (s *AuthService) SignInWithPhone(ctx context.Context, phone, password, deviceID string) (domain.IssuedSession, error) {
	l := slogx.FromContext(ctx)

	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return domain.IssuedSession{}, invalid("phone and password are required")
	}

	parent, err := s.Store.Parents().GetParentByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("phone sign-in for unknown phone")
			return domain.IssuedSession{}, ErrInvalidCredentials
		}
		return domain.IssuedSession{}, err
	}

	if err := cryptox.VerifyPassword(password, parent.PasswordHash); err != nil {
		l.Info("phone sign-in rejected", slog.String("parent_id", parent.ID))
		return domain.IssuedSession{}, ErrInvalidCredentials
	}

	issued, err := s.issue(ctx, parent.ID, domain.SubjectParent, domain.ChannelPhonePassword, deviceID)
	if err != nil {
		return domain.IssuedSession{}, err
	}
	issued.Parent = &parent

	l.Info("session issued",
		slog.String("parent_id", parent.ID),
		slog.String("channel", domain.ChannelPhonePassword),
		slog.String("session_id", issued.Session.ID),
	)
	return issued, nil
}

func (s *AuthService) issue(ctx context.Context, subjectID, kind, channel, deviceID string) (domain.IssuedSession, error) {
	now := s.now()
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	// 1. Persist the session row the token will reference
	sess := domain.Session{
		ID:          idx.New().String(),
		SubjectID:   subjectID,
		SubjectKind: kind,
		Channel:     channel,
		DeviceID:    deviceID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.IssuedSession{}, err
	}

	// 2. Sign the bearer token
	claims := jwtx.NewSessionClaims(subjectID, sess.ID, kind, channel, s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.IssuedSession{}, err
	}

	return domain.IssuedSession{Token: token, Session: sess}, nil
}

// Authenticate implements httpx.Authenticator. Tokens whose session has
// expired, been revoked or lost its subject yield ErrSessionExpired.
func (s *AuthService) Authenticate(ctx context.Context, token string) (httpx.Subject, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return httpx.Subject{}, ErrSessionExpired
		}
		return httpx.Subject{}, errors.Join(ErrInvalidToken, err)
	}

	sess, err := s.Store.Sessions().GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Subject{}, ErrSessionExpired
		}
		return httpx.Subject{}, err
	}
	if sess.SubjectID != claims.Subject || sess.SubjectKind != claims.Kind {
		return httpx.Subject{}, ErrInvalidToken
	}
	if !sess.Live(s.now()) {
		return httpx.Subject{}, ErrSessionExpired
	}

	role := domain.RoleParent
	switch sess.SubjectKind {
	case domain.SubjectUser:
		user, err := s.Store.Users().GetUserByID(ctx, sess.SubjectID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return httpx.Subject{}, ErrSessionExpired
			}
			return httpx.Subject{}, err
		}
		role = user.Role
	case domain.SubjectParent:
		if _, err := s.Store.Parents().GetParentByID(ctx, sess.SubjectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return httpx.Subject{}, ErrSessionExpired
			}
			return httpx.Subject{}, err
		}
	default:
		return httpx.Subject{}, ErrInvalidToken
	}

	return httpx.Subject{
		ID:        sess.SubjectID,
		Kind:      sess.SubjectKind,
		Role:      role,
		SessionID: sess.ID,
		Channel:   sess.Channel,
	}, nil
}

// Resume loads the session and identity behind an authenticated subject.
func (s *AuthService) Resume(ctx context.Context, subject httpx.Subject) (domain.IssuedSession, error) {
	sess, err := s.Store.Sessions().GetSession(ctx, subject.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.IssuedSession{}, ErrSessionExpired
		}
		return domain.IssuedSession{}, err
	}

	out := domain.IssuedSession{Session: sess}
	switch subject.Kind {
	case domain.SubjectUser:
		user, err := s.Store.Users().GetUserByID(ctx, subject.ID)
		if err != nil {
			return domain.IssuedSession{}, err
		}
		out.User = &user
	case domain.SubjectParent:
		parent, err := s.Store.Parents().GetParentByID(ctx, subject.ID)
		if err != nil {
			return domain.IssuedSession{}, err
		}
		out.Parent = &parent
	}
	return out, nil
}

// Revoke ends a session. Revoking an already revoked session succeeds.
func (s *AuthService) Revoke(ctx context.Context, sessionID string) error {
	if err := s.Store.Sessions().RevokeSession(ctx, sessionID, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("session revoked", slog.String("session_id", sessionID))
	return nil
}

// ChangePassword replaces the caller's password and revokes their other
// sessions. Coach passwords are their access codes and cannot be changed
// here.
func (s *AuthService) ChangePassword(ctx context.Context, subject httpx.Subject, current, next string) error {
	l := slogx.FromContext(ctx)

	if current == "" {
		return invalid("current password is required")
	}
	if err := validPassword(next); err != nil {
		return err
	}

	switch subject.Kind {
	case domain.SubjectUser:
		user, err := s.Store.Users().GetUserByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if user.Role == domain.RoleCoach {
			return ErrForbidden
		}
		if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}
		hash, err := cryptox.HashPassword(next)
		if err != nil {
			return err
		}
		if err := s.Store.Users().UpdateUserPasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
	case domain.SubjectParent:
		parent, err := s.Store.Parents().GetParentByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := cryptox.VerifyPassword(current, parent.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}
		hash, err := cryptox.HashPassword(next)
		if err != nil {
			return err
		}
		if err := s.Store.Parents().UpdateParentPasswordHash(ctx, parent.ID, hash); err != nil {
			return err
		}
	default:
		return ErrForbidden
	}

	n, err := s.Store.Sessions().RevokeSubjectSessions(ctx, subject.Kind, subject.ID, subject.SessionID, s.now())
	if err != nil {
		// The password already changed; stale sessions age out.
		l.Warn("failed to revoke other sessions", slog.Any("error", err))
		return nil
	}

	l.Info("password changed", slog.String("subject_id", subject.ID), slog.Int64("revoked_sessions", n))
	return nil
}
