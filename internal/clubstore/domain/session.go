package domain

import "time"

// Subject kinds: which table a session's subject lives in.
const (
	SubjectUser   = "user"
	SubjectParent = "parent"
)

// Login channels, recorded on each session.
const (
	ChannelPassword      = "password"
	ChannelAccessCode    = "accessCode"
	ChannelPhonePassword = "phonePassword"
)

// ValidChannel reports whether c is a known login channel.
func ValidChannel(c string) bool {
	switch c {
	case ChannelPassword, ChannelAccessCode, ChannelPhonePassword:
		return true
	}
	return false
}

// Session is an issued sign-in. The bearer token references it by ID, so
// revoking the row invalidates the token.
type Session struct {
	ID          string
	SubjectID   string
	SubjectKind string
	Channel     string
	DeviceID    string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	RevokedAt   *time.Time
}

// Live reports whether the session can still authenticate requests at now.
func (s Session) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// IssuedSession is what a successful sign-in hands back.
type IssuedSession struct {
	Token   string
	Session Session
	User    *User   // set for user subjects
	Parent  *Parent // set for parent subjects
}
