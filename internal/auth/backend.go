package auth

import (
	"context"
	"time"
)

// Channel is how a credential was obtained.
type Channel string

const (
	ChannelPassword      Channel = "password"
	ChannelAccessCode    Channel = "accessCode"
	ChannelPhonePassword Channel = "phonePassword"
)

// Identity is a signed-in record as the store describes it. Role is the
// stored role string (admin, coach or parent).
type Identity struct {
	ID         string
	Email      string
	Role       string
	Name       string
	Phone      string
	PictureURL string
}

type Coach struct {
	ID         string
	UserID     string
	AccessCode string
	Phone      string
	TeamID     string
}

type Parent struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	TeamID    string
}

type Team struct {
	ID         string
	Name       string
	AccessCode string
}

type NewParent struct {
	FirstName string
	LastName  string
	Phone     string
	TeamID    string
	Password  string
}

// Credential is what the store issues on sign-in and what a Keychain
// persists between runs.
type Credential struct {
	Token     string    `json:"token"`
	Channel   Channel   `json:"channel"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Backend is the club store as the core sees it. Lookups return ErrNotFound
// when nothing matches; sign-ins return ErrRejected for bad credentials;
// Resume returns ErrExpired for a dead credential.
type Backend interface {
	FindCoachByAccessCode(ctx context.Context, code string) (Coach, error)
	FindIdentity(ctx context.Context, id string) (Identity, error)
	FindParentByPhone(ctx context.Context, phone string) (Parent, error)
	FindTeamByAccessCode(ctx context.Context, code string) (Team, error)
	CreateParent(ctx context.Context, p NewParent) (Parent, error)

	SignInWithPassword(ctx context.Context, email, password string) (Identity, Credential, error)
	SignInWithPhone(ctx context.Context, phone, password string) (Identity, Credential, error)
	Resume(ctx context.Context, cred Credential) (Identity, error)
	Revoke(ctx context.Context, cred Credential) error
}

// Keychain persists at most one credential.
type Keychain interface {
	Load() (Credential, bool, error)
	Save(cred Credential) error
	Clear() error
}
