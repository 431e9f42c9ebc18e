package domain

// Registration is a self-service account signup. Club fields are required
// for administrators and ignored otherwise.
type Registration struct {
	Email        string
	Password     string
	Role         string
	Name         string
	ClubName     string
	ClubLocation string
	PictureURL   string
	ClubLogoURL  string
}

// NewParent is a parent self-registration from the onboarding flow.
type NewParent struct {
	FirstName string
	LastName  string
	Phone     string
	TeamID    string
	Password  string
}

// NewCoach provisions a coach for one of an administrator's teams.
type NewCoach struct {
	Email  string
	Name   string
	Phone  string
	TeamID string
}
