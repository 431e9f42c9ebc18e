package httpx_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]httpx.Subject

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (httpx.Subject, error) {
	switch token {
	case "expired":
		return httpx.Subject{}, fmt.Errorf("session s1: %w", httpx.ErrSessionExpired)
	}
	if sub, ok := s[token]; ok {
		return sub, nil
	}
	return httpx.Subject{}, errors.New("bad token")
}

func TestAuthnMiddleware(t *testing.T) {
	auth := stubAuthenticator{
		"admin-token": {ID: "u1", Kind: "user", Role: "admin"},
		"coach-token": {ID: "u2", Kind: "user", Role: "coach"},
	}

	var got httpx.Subject
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = httpx.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := httpx.Chain(inner, httpx.AuthnMiddleware(auth), httpx.RequireRole("admin"))

	call := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/teams", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := call("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("expired session", func(t *testing.T) {
		rec := call("Bearer expired")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "session_expired")
		require.True(t, strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Bearer "))
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := call("Bearer nope")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("wrong role", func(t *testing.T) {
		rec := call("Bearer coach-token")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		rec := call("Bearer admin-token")
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "u1", got.ID)
	})
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Phone string `json:"phone"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"+15551234567"}`))
		var b body
		require.NoError(t, httpx.DecodeJSON(req, &b))
		require.Equal(t, "+15551234567", b.Phone)
	})

	for name, raw := range map[string]string{
		"unknown field": `{"phone":"1","extra":true}`,
		"trailing data": `{"phone":"1"}{"phone":"2"}`,
		"not json":      `phone=1`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			var b body
			require.ErrorIs(t, httpx.DecodeJSON(req, &b), httpx.ErrBadBody)
		})
	}
}
