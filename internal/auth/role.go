package auth

// Role is the closed set of principal kinds. The zero value is not a role.
type Role uint8

const (
	roleUnknown Role = iota
	RoleAdministrator
	RoleCoach
	RoleParent
)

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleCoach:
		return "coach"
	case RoleParent:
		return "parent"
	case roleUnknown:
		return "unknown"
	}
	return "unknown"
}

// Valid reports whether r is one of the three roles.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleCoach || r == RoleParent
}

// Principal is whoever is signed in. Role never changes for the life of a
// session.
type Principal struct {
	ID         string
	Role       Role
	Name       string
	Email      string
	Phone      string
	PictureURL string
}
