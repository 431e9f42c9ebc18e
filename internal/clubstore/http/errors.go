package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// writeServiceError maps a service error onto an API error response. what
// names the resource for not-found and conflict descriptions.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	switch {
	case errors.Is(err, httpx.ErrBadBody):
		clubsdk.ErrInvalidRequest.WithDescription("malformed JSON body").WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		desc := strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": ")
		clubsdk.ErrInvalidRequest.WithDescription(desc).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		clubsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		clubsdk.ErrSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		clubsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		clubsdk.ErrNotFound.WithDescription(what + " not found").WriteError(w)
	case errors.Is(err, service.ErrAlreadyExists):
		clubsdk.ErrAlreadyExists.WithDescription(what + " already exists").WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		clubsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrCodeExhausted):
		slogx.FromContext(r.Context()).Error("access code space exhausted", slog.Any("error", err))
		clubsdk.ErrServerError.WithDescription("could not mint a unique access code").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.String("resource", what), slog.Any("error", err))
		clubsdk.ErrServerError.WriteError(w)
	}
}

// deviceID reads the caller's installation ID, bounded in length.
func deviceID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(clubsdk.DeviceIDHeader))
	if len(id) > 128 {
		id = id[:128]
	}
	return id
}
