package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

// DirectoryHandler serves the lookups the sign-in and onboarding flows
// depend on.
type DirectoryHandler struct {
	DirectoryService *service.DirectoryService
}

// HandleCoachLookup godoc
//
//	@Summary		Find Coach By Access Code
//	@Tags			Directory
//	@Produce		json
//	@Param			access_code	query		string					true	"Coach access code (case-insensitive)"
//	@Success		200			{object}	clubsdk.Coach			"coach record"
//	@Failure		400			{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		404			{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/coaches [get].
func (h *DirectoryHandler) HandleCoachLookup(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("access_code")
	if code == "" {
		clubsdk.ErrInvalidRequest.WithDescription("access_code is required").WriteError(w)
		return
	}

	coach, err := h.DirectoryService.CoachByAccessCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err, "coach")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, coachView(coach))
}

// HandleUserLookup godoc
//
//	@Summary		Get User
//	@Tags			Directory
//	@Produce		json
//	@Param			id	path		string					true	"User ID"
//	@Success		200	{object}	clubsdk.Identity		"public identity"
//	@Failure		404	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users/{id} [get].
func (h *DirectoryHandler) HandleUserLookup(w http.ResponseWriter, r *http.Request) {
	user, err := h.DirectoryService.UserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userIdentity(user))
}

// HandleParentLookup godoc
//
//	@Summary		Find Parent By Phone
//	@Tags			Directory
//	@Produce		json
//	@Param			phone	query		string					true	"Phone number, matched exactly"
//	@Success		200		{object}	clubsdk.Parent			"parent record"
//	@Failure		400		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/parents [get].
func (h *DirectoryHandler) HandleParentLookup(w http.ResponseWriter, r *http.Request) {
	parent, err := h.DirectoryService.ParentByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		writeServiceError(w, r, err, "parent")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, parentView(parent))
}

// HandleTeamLookup godoc
//
//	@Summary		Find Team By Access Code
//	@Tags			Directory
//	@Produce		json
//	@Param			access_code	query		string					true	"Team access code (case-insensitive)"
//	@Success		200			{object}	clubsdk.Team			"team record"
//	@Failure		400			{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		404			{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/teams [get].
func (h *DirectoryHandler) HandleTeamLookup(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("access_code")
	if code == "" {
		clubsdk.ErrInvalidRequest.WithDescription("access_code is required").WriteError(w)
		return
	}

	team, err := h.DirectoryService.TeamByAccessCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, r, err, "team")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, teamView(team))
}

// HandleCreateParent godoc
//
//	@Summary		Register Parent
//	@Description	Create a parent record for a team. Phone numbers are unique.
//	@Tags			Directory
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubsdk.CreateParentRequest	true	"first_name, last_name, phone, team_id, password"
//	@Success		201		{object}	clubsdk.Parent				"parent record"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/parents [post].
func (h *DirectoryHandler) HandleCreateParent(w http.ResponseWriter, r *http.Request) {
	var req clubsdk.CreateParentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "parent")
		return
	}

	parent, err := h.DirectoryService.CreateParent(r.Context(), domain.NewParent{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		TeamID:    req.TeamID,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "parent")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, parentView(parent))
}
