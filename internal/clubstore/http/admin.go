package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/clubstore/domain"
	"github.com/aussiebroadwan/clubhouse/internal/clubstore/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

type TeamsHandler struct {
	TeamService *service.TeamService
}

// HandleCreate godoc
//
//	@Summary		Create Team
//	@Description	Create a team in the caller's club and mint its access code
//	@Tags			Administration
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		clubsdk.CreateTeamRequest	true	"name"
//	@Success		201		{object}	clubsdk.Team				"team record"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/teams [post].
func (h *TeamsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	var req clubsdk.CreateTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "team")
		return
	}

	team, err := h.TeamService.CreateTeam(r.Context(), subject.ID, req.Name)
	if err != nil {
		writeServiceError(w, r, err, "team")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, teamView(team))
}

// HandleListMine godoc
//
//	@Summary		List Teams
//	@Description	List the teams of the caller's club
//	@Tags			Administration
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	clubsdk.TeamsResponse	"teams"
//	@Failure		401	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	clubsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/teams/mine [get].
func (h *TeamsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	teams, err := h.TeamService.ListTeams(r.Context(), subject.ID)
	if err != nil {
		writeServiceError(w, r, err, "team")
		return
	}

	out := clubsdk.TeamsResponse{Teams: make([]clubsdk.Team, 0, len(teams))}
	for _, t := range teams {
		out.Teams = append(out.Teams, teamView(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type CoachesHandler struct {
	CoachService *service.CoachService
}

// HandleCreate godoc
//
//	@Summary		Provision Coach
//	@Description	Create a coach identity with a freshly minted access code. The code is the coach's sign-in password.
//	@Tags			Administration
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		clubsdk.CreateCoachRequest	true	"email, name, phone, team_id"
//	@Success		201		{object}	clubsdk.Coach				"coach record with access code"
//	@Failure		400		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	clubsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/coaches [post].
func (h *CoachesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	subject, _ := httpx.SubjectFromContext(r.Context())

	var req clubsdk.CreateCoachRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "coach")
		return
	}

	coach, err := h.CoachService.CreateCoach(r.Context(), subject.ID, domain.NewCoach{
		Email:  req.Email,
		Name:   req.Name,
		Phone:  req.Phone,
		TeamID: req.TeamID,
	})
	if err != nil {
		writeServiceError(w, r, err, "coach")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, coachView(coach))
}
