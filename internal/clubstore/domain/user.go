package domain

import "time"

// Stored roles of the users table.
const (
	RoleAdmin  = "admin"
	RoleCoach  = "coach"
	RoleParent = "parent"
)

// ValidRole reports whether r is one of the stored roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleParent:
		return true
	}
	return false
}

// User is a row of the identity table. Administrators and coaches sign in
// through it; coaches hold their access code as their password.
type User struct {
	ID           string
	Email        string // stored lower-cased
	Role         string
	Name         string
	PictureURL   string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
