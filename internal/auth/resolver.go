package auth

import (
	"errors"
	"fmt"
)

// Resolve turns a signed-in identity into a Principal. The channel decides
// the role for access-code and phone sign-ins; password sign-ins take the
// stored role.
func Resolve(id Identity, channel Channel) (Principal, error) {
	p := Principal{
		ID:         id.ID,
		Name:       id.Name,
		Email:      id.Email,
		Phone:      id.Phone,
		PictureURL: id.PictureURL,
	}

	switch channel {
	case ChannelAccessCode:
		p.Role = RoleCoach
	case ChannelPhonePassword:
		p.Role = RoleParent
	case ChannelPassword:
		switch id.Role {
		case "admin":
			p.Role = RoleAdministrator
		case "coach":
			p.Role = RoleCoach
		case "parent":
			p.Role = RoleParent
		default:
			return Principal{}, ErrRoleResolution.wrap(fmt.Errorf("stored role %q", id.Role))
		}
	default:
		return Principal{}, ErrRoleResolution.wrap(fmt.Errorf("channel %q", channel))
	}

	if p.ID == "" {
		return Principal{}, ErrRoleResolution.wrap(errors.New("identity has no id"))
	}
	return p, nil
}
