package auth

import "errors"

// Kind groups errors by how a caller should react to them.
type Kind uint8

const (
	KindValidation         Kind = iota + 1 // local, no network call made
	KindLookupNotFound                     // recoverable, flow does not advance
	KindCredentialRejected                 // recoverable, flow does not advance
	KindTransport                          // store unreachable, cause kept
	KindState                              // operation not allowed right now
	KindInternal                           // programming error
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindLookupNotFound:
		return "lookup_not_found"
	case KindCredentialRejected:
		return "credential_rejected"
	case KindTransport:
		return "transport"
	case KindState:
		return "state"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error is the error type returned by the gateway, session store and
// onboarding flow. Two Errors match under errors.Is when their codes match.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// wrap returns a copy of e carrying cause.
func (e *Error) wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

var (
	ErrInvalidPhone     = &Error{Kind: KindValidation, Code: "invalid_phone", Message: "enter a phone number in international format"}
	ErrMissingField     = &Error{Kind: KindValidation, Code: "missing_field", Message: "all fields are required"}
	ErrPasswordTooShort = &Error{Kind: KindValidation, Code: "password_too_short", Message: "password must be at least 6 characters"}
	ErrPasswordMismatch = &Error{Kind: KindValidation, Code: "password_mismatch", Message: "passwords do not match"}

	ErrInvalidAccessCode = &Error{Kind: KindLookupNotFound, Code: "invalid_access_code", Message: "no coach has that access code"}
	ErrAccountNotFound   = &Error{Kind: KindLookupNotFound, Code: "account_not_found", Message: "no account is linked to that access code"}
	ErrInvalidTeamCode   = &Error{Kind: KindLookupNotFound, Code: "invalid_team_code", Message: "no team has that code"}

	ErrInvalidCredentials = &Error{Kind: KindCredentialRejected, Code: "invalid_credentials", Message: "sign-in details were not accepted"}

	ErrNetwork         = &Error{Kind: KindTransport, Code: "network_error", Message: "could not reach the club store"}
	ErrSetupFailed     = &Error{Kind: KindTransport, Code: "setup_failed", Message: "could not create the parent account"}
	ErrSetupIncomplete = &Error{Kind: KindTransport, Code: "setup_incomplete", Message: "account created but sign-in failed; sign in again with your phone"}

	ErrLoginInFlight  = &Error{Kind: KindState, Code: "login_in_flight", Message: "a sign-in is already in progress"}
	ErrSessionActive  = &Error{Kind: KindState, Code: "session_active", Message: "sign out before signing in as someone else"}
	ErrSessionLoading = &Error{Kind: KindState, Code: "session_loading", Message: "session restoration has not finished"}
	ErrRestored       = &Error{Kind: KindState, Code: "already_restored", Message: "the session has already been restored"}
	ErrWrongStep      = &Error{Kind: KindState, Code: "wrong_step", Message: "not available at this onboarding step"}

	ErrRoleResolution = &Error{Kind: KindInternal, Code: "role_resolution", Message: "identity carries an unknown role"}
)

// Backend implementations classify their failures with these. Any other
// error is treated as a transport failure.
var (
	ErrNotFound = errors.New("auth: record not found")
	ErrRejected = errors.New("auth: rejected by store")
	ErrExpired  = errors.New("auth: credential expired")
)

// KindOf reports the Kind of err, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// backendErr maps a backend failure onto the core taxonomy. notFound and
// rejected choose the errors for the two classified outcomes.
func backendErr(err error, notFound, rejected *Error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return notFound.wrap(err)
	case errors.Is(err, ErrRejected), errors.Is(err, ErrExpired):
		return rejected.wrap(err)
	default:
		return ErrNetwork.wrap(err)
	}
}
