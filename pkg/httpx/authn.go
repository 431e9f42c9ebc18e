package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// ErrSessionExpired must be wrapped by an Authenticator when the token was
// valid once but its session has expired or been revoked. Clients use the
// distinction to drop stored credentials.
var ErrSessionExpired = errors.New("httpx: session expired")

// Authenticator resolves a bearer token to the calling subject.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Subject, error)
}

// AuthnMiddleware requires a valid bearer token and puts the resolved
// Subject on the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := BearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
				return
			}

			subject, err := a.Authenticate(ctx, raw)
			if err != nil {
				if errors.Is(err, ErrSessionExpired) {
					writeAuthError(w, http.StatusUnauthorized, "session_expired", "session has expired or was revoked")
					return
				}
				slogx.FromContext(ctx).Warn("bearer token rejected", slog.Any("error", err))
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "token verification failed")
				return
			}

			ctx = WithSubject(ctx, subject)
			ctx = slogx.With(ctx, "subject_id", subject.ID, "subject_kind", subject.Kind)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run
// after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SubjectFromContext(r.Context())
			if !ok || !slices.Contains(roles, s.Role) {
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "forbidden",
					"error_description": "requires role " + strings.Join(roles, " or "),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}

// RFC 6750 style challenge plus a JSON body the SDK can parse.
func writeAuthError(w http.ResponseWriter, status int, code, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	WriteJSON(w, status, map[string]string{
		"error":             code,
		"error_description": desc,
	})
}
