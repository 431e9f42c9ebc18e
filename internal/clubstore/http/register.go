package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP godoc
//
//	@Summary		Register Account
//	@Description	Create an administrator (with their club), coach or parent identity
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.RegisterRequest	true	"account and club details"
//	@Success		201		{object}	clubsdk.Identity		"created identity"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "user")
		return
	}

	user, err := h.RegistrationService.Register(r.Context(), domain.Registration{
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		Name:         req.Name,
		PictureURL:   req.PictureURL,
		ClubName:     req.ClubName,
		ClubLocation: req.ClubLocation,
		ClubLogoURL:  req.ClubLogoURL,
	})
	if err != nil {
		writeServiceError(w, r, err, "user")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, userIdentity(user))
}
