package clubsdk

import "time"

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// Sessions
// ============================================================================

type PasswordSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PhoneSignInRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Identity is the public view of whoever a session belongs to. Parents
// carry Phone; users carry Email.
type Identity struct {
	ID         string `json:"id"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

// SessionResponse is returned by sign-in (with Token) and by GET
// /v1/sessions/current (without).
type SessionResponse struct {
	Token     string    `json:"token,omitempty"`
	TokenType string    `json:"token_type,omitempty"`
	SessionID string    `json:"session_id"`
	Channel   string    `json:"channel"`
	ExpiresAt time.Time `json:"expires_at"`
	Identity  Identity  `json:"identity"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ============================================================================
// Directory
// ============================================================================

type Coach struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	TeamID     string `json:"team_id,omitempty"`
	AccessCode string `json:"access_code"`
	Phone      string `json:"phone,omitempty"`
}

type Team struct {
	ID         string `json:"id"`
	ClubID     string `json:"club_id"`
	Name       string `json:"name"`
	AccessCode string `json:"access_code"`
}

type TeamsResponse struct {
	Teams []Team `json:"teams"`
}

type Parent struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	TeamID    string `json:"team_id"`
}

type CreateParentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	TeamID    string `json:"team_id"`
	Password  string `json:"password"`
}

// ============================================================================
// Administration
// ============================================================================

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	PictureURL   string `json:"picture_url,omitempty"`
	ClubName     string `json:"club_name,omitempty"`
	ClubLocation string `json:"club_location,omitempty"`
	ClubLogoURL  string `json:"club_logo_url,omitempty"`
}

type CreateTeamRequest struct {
	Name string `json:"name"`
}

type CreateCoachRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	TeamID string `json:"team_id,omitempty"`
}
