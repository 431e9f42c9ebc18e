package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

type SessionsHandler struct {
	AuthService *service.AuthService
}

// HandlePasswordSignIn godoc
//
//	@Summary		Sign In With Email
//	@Description	Sign in an administrator (password) or coach (access code as password)
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			X-Device-ID	header		string							false	"Installation identifier"
//	@Param			request		body		clubsdk.PasswordSignInRequest	true	"email, password"
//	@Success		201			{object}	clubsdk.SessionResponse			"token, session_id, channel, identity"
//	@Failure		400			{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Failure		401			{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Failure		429			{object}	clubsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/sessions/password [post].
func (h *SessionsHandler) HandlePasswordSignIn(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.PasswordSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "session")
		return
	}

	issued, err := h.AuthService.SignInWithPassword(r.Context(), req.Email, req.Password, deviceID(r))
	if err != nil {
		writeServiceError(w, r, err, "session")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(issued))
}

// HandlePhoneSignIn godoc
//
//	@Summary		Sign In With Phone
//	@Description	Sign in a parent with phone number and password
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			X-Device-ID	header		string						false	"Installation identifier"
//	@Param			request		body		clubsdk.PhoneSignInRequest	true	"phone, password"
//	@Success		201			{object}	clubsdk.SessionResponse		"token, session_id, channel, identity"
//	@Failure		400			{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		401			{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		429			{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/sessions/phone [post].
func (h *SessionsHandler) HandlePhoneSignIn(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.PhoneSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "session")
		return
	}

	issued, err := h.AuthService.SignInWithPhone(r.Context(), req.Phone, req.Password, deviceID(r))
	if err != nil {
		writeServiceError(w, r, err, "session")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(issued))
}

// HandleCurrent godoc
//
//	@Summary		Current Session
//	@Description	Resume the caller's session and return its identity
//	@Tags			Sessions
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	clubsdk.SessionResponse	"session_id, channel, identity"
//	@Failure		401	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions/current [get].
func (h *SessionsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	issued, err := h.AuthService.Resume(r.Context(), subject)
	if err != nil {
		writeServiceError(w, r, err, "session")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse(issued))
}

// HandleRevoke godoc
//
//	@Summary		Sign Out
//	@Description	Revoke the caller's session. The token stops working immediately.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/sessions/current [delete].
func (h *SessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	if err := h.AuthService.Revoke(r.Context(), subject.SessionID); err != nil {
		writeServiceError(w, r, err, "session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangePassword godoc
//
//	@Summary		Change Password
//	@Description	Replace the caller's password and revoke their other sessions. Not available to coaches.
//	@Tags			Sessions
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	clubsdk.ChangePasswordRequest	true	"current_password, new_password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/me/password [put].
func (h *SessionsHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	var req clubsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "password")
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), subject, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
