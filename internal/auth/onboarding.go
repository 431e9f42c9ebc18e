package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// MinPasswordLength applies to passwords chosen during parent setup.
const MinPasswordLength = 6

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Step is a position in the parent onboarding flow.
type Step uint8

const (
	StepPhoneEntry Step = iota
	StepTeamCodeCheck
	StepSetup
	StepPasswordEntry
	StepAuthenticated
	StepAbandoned
)

func (s Step) String() string {
	switch s {
	case StepPhoneEntry:
		return "phone_entry"
	case StepTeamCodeCheck:
		return "team_code_check"
	case StepSetup:
		return "setup"
	case StepPasswordEntry:
		return "password_entry"
	case StepAuthenticated:
		return "authenticated"
	case StepAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Draft is what the flow has gathered so far. Passwords are never kept.
type Draft struct {
	Phone     string
	TeamCode  string
	IsNewUser bool
	FirstName string
	LastName  string
}

// Flow is an onboarding position plus its draft. Flows are values; only
// Onboarding's transitions produce new ones, so a Setup flow always holds a
// verified team code. The zero Flow is a fresh PhoneEntry.
type Flow struct {
	step  Step
	draft Draft

	// viaTeamCode records that PasswordEntry was reached by re-verifying
	// the team code, so Back returns there.
	viaTeamCode bool
}

func (f Flow) Step() Step { return f.step }
func (f Flow) Draft() Draft { return f.draft }
func (f Flow) Done() bool { return f.step == StepAuthenticated || f.step == StepAbandoned }

// Back steps the flow backwards, dropping what was gathered at the step
// being left. Backing out of PhoneEntry abandons the flow.
func (f Flow) Back() Flow {
	switch f.step {
	case StepPhoneEntry:
		return Flow{step: StepAbandoned}
	case StepTeamCodeCheck:
		return Flow{step: StepPhoneEntry, draft: Draft{Phone: f.draft.Phone}}
	case StepSetup:
		return Flow{step: StepTeamCodeCheck, draft: Draft{
			Phone:     f.draft.Phone,
			TeamCode:  f.draft.TeamCode,
			IsNewUser: true,
		}}
	case StepPasswordEntry:
		if f.viaTeamCode {
			return Flow{step: StepTeamCodeCheck, draft: Draft{Phone: f.draft.Phone}}
		}
		return Flow{step: StepPhoneEntry, draft: Draft{Phone: f.draft.Phone}}
	}
	return Flow{step: f.step}
}

// SetupForm is the new-parent form submitted at Setup.
type SetupForm struct {
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// Onboarding drives the parent flow: a phone number leads either to a
// password prompt (known parent) or through a team code check to account
// setup (new parent).
type Onboarding struct {
	backend Backend
	gateway *Gateway

	// ParentTeamReverify sends known parents through the team code check
	// before their password.
	ParentTeamReverify bool
}

func NewOnboarding(backend Backend, gateway *Gateway) *Onboarding {
	return &Onboarding{backend: backend, gateway: gateway}
}

// Start returns a fresh flow.
func (o *Onboarding) Start() Flow { return Flow{} }

// SubmitPhone validates the phone locally, then looks the parent up once.
func (o *Onboarding) SubmitPhone(ctx context.Context, f Flow, phone string) (Flow, error) {
	if f.step != StepPhoneEntry {
		return f, ErrWrongStep
	}

	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return f, ErrInvalidPhone
	}

	_, err := o.backend.FindParentByPhone(ctx, phone)
	switch {
	case err == nil:
		if o.ParentTeamReverify {
			return Flow{step: StepTeamCodeCheck, draft: Draft{Phone: phone}}, nil
		}
		return Flow{step: StepPasswordEntry, draft: Draft{Phone: phone}}, nil
	case errors.Is(err, ErrNotFound):
		return Flow{step: StepTeamCodeCheck, draft: Draft{Phone: phone, IsNewUser: true}}, nil
	default:
		return f, ErrNetwork.wrap(err)
	}
}

// SubmitTeamCode checks the code against the team records.
func (o *Onboarding) SubmitTeamCode(ctx context.Context, f Flow, code string) (Flow, error) {
	if f.step != StepTeamCodeCheck {
		return f, ErrWrongStep
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return f, ErrMissingField
	}

	if _, err := o.backend.FindTeamByAccessCode(ctx, code); err != nil {
		return f, backendErr(err, ErrInvalidTeamCode, ErrInvalidTeamCode)
	}

	if f.draft.IsNewUser {
		return Flow{step: StepSetup, draft: Draft{
			Phone:     f.draft.Phone,
			TeamCode:  code,
			IsNewUser: true,
		}}, nil
	}
	return Flow{step: StepPasswordEntry, draft: Draft{Phone: f.draft.Phone}, viaTeamCode: true}, nil
}

// SubmitSetup creates the parent and signs them in. Validation happens
// before any network call. If the parent was created but sign-in failed,
// ErrSetupIncomplete is returned with the flow reset to PhoneEntry.
func (o *Onboarding) SubmitSetup(ctx context.Context, f Flow, form SetupForm) (Flow, Principal, error) {
	if f.step != StepSetup {
		return f, Principal{}, ErrWrongStep
	}

	first := strings.TrimSpace(form.FirstName)
	last := strings.TrimSpace(form.LastName)
	switch {
	case first == "" || last == "":
		return f, Principal{}, ErrMissingField
	case len(form.Password) < MinPasswordLength:
		return f, Principal{}, ErrPasswordTooShort
	case form.Password != form.ConfirmPassword:
		return f, Principal{}, ErrPasswordMismatch
	}

	// No parent row is written while the sign-in would be refused.
	release, err := o.gateway.begin()
	if err != nil {
		return f, Principal{}, err
	}
	defer release()
	if o.gateway.sessions.State().Status() == StatusAuthenticated {
		return f, Principal{}, ErrSessionActive
	}

	l := slogx.FromContext(ctx)

	// Keep the names so a retry after a failed insert is prefilled.
	stay := f
	stay.draft.FirstName = first
	stay.draft.LastName = last

	team, err := o.backend.FindTeamByAccessCode(ctx, f.draft.TeamCode)
	if err != nil {
		l.Warn("parent setup could not resolve team", slog.Any("error", err))
		return stay, Principal{}, ErrSetupFailed.wrap(err)
	}

	if _, err := o.backend.CreateParent(ctx, NewParent{
		FirstName: first,
		LastName:  last,
		Phone:     f.draft.Phone,
		TeamID:    team.ID,
		Password:  form.Password,
	}); err != nil {
		l.Warn("parent insert failed", slog.Any("error", err))
		return stay, Principal{}, ErrSetupFailed.wrap(err)
	}

	p, err := o.gateway.phoneLogin(ctx, f.draft.Phone, form.Password)
	if err != nil {
		l.Warn("parent created but sign-in failed", slog.Any("error", err))
		return Flow{step: StepPhoneEntry, draft: Draft{Phone: f.draft.Phone}}, Principal{}, ErrSetupIncomplete.wrap(err)
	}

	return Flow{step: StepAuthenticated}, p, nil
}

// SubmitPassword signs a known parent in. On failure the flow is unchanged.
func (o *Onboarding) SubmitPassword(ctx context.Context, f Flow, password string) (Flow, Principal, error) {
	if f.step != StepPasswordEntry {
		return f, Principal{}, ErrWrongStep
	}
	if password == "" {
		return f, Principal{}, ErrMissingField
	}

	p, err := o.gateway.LoginWithPhoneAndPassword(ctx, f.draft.Phone, password)
	if err != nil {
		return f, Principal{}, err
	}
	return Flow{step: StepAuthenticated}, p, nil
}
