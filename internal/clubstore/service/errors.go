package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrNotFound           = errors.New("not_found")
	ErrAlreadyExists      = errors.New("already_exists")
	ErrForbidden          = errors.New("forbidden")
	ErrCodeExhausted      = errors.New("access_code_exhausted")

	// ErrSessionExpired wraps httpx.ErrSessionExpired so the authn
	// middleware can tell it apart from a bad token.
	ErrSessionExpired = fmt.Errorf("session_expired: %w", httpx.ErrSessionExpired)
)

// MinPasswordLength applies to every password the store accepts.
const MinPasswordLength = 6

// maxCodeAttempts bounds access code minting on collision.
const maxCodeAttempts = 5

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func validPassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", invalid("a valid email is required")
	}
	return email, nil
}
