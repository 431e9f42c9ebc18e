package domain

import "time"

type Parent struct {
	ID           string
	FirstName    string
	LastName     string
	Phone        string // unique, matched exactly
	TeamID       string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName is how a parent is shown to others.
func (p Parent) DisplayName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
