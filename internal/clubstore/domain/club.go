package domain

import "time"

// Club is owned by exactly one administrator.
type Club struct {
	ID        string
	AdminID   string
	Name      string
	Location  string
	LogoURL   string
	CreatedAt time.Time
}

type Team struct {
	ID         string
	ClubID     string
	Name       string
	AccessCode string // upper-case, unique
	CreatedAt  time.Time
}

// Coach links an identity to an access code.
type Coach struct {
	ID         string
	UserID     string
	TeamID     string
	AccessCode string // upper-case, unique
	Phone      string
	CreatedAt  time.Time
}
