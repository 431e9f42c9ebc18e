package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		channel auth.Channel
		want    auth.Role
		wantErr error
	}{
		{"admin by password", "admin", auth.ChannelPassword, auth.RoleAdministrator, nil},
		{"coach by password", "coach", auth.ChannelPassword, auth.RoleCoach, nil},
		{"parent by password", "parent", auth.ChannelPassword, auth.RoleParent, nil},
		{"access code is always coach", "admin", auth.ChannelAccessCode, auth.RoleCoach, nil},
		{"phone is always parent", "", auth.ChannelPhonePassword, auth.RoleParent, nil},
		{"unknown stored role", "referee", auth.ChannelPassword, 0, auth.ErrRoleResolution},
		{"unknown channel", "admin", auth.Channel("sms"), 0, auth.ErrRoleResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := auth.Resolve(auth.Identity{ID: "u1", Role: tt.role, Name: "Sam"}, tt.channel)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, auth.KindInternal, auth.KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Role)
			require.Equal(t, "u1", p.ID)
			require.Equal(t, "Sam", p.Name)
		})
	}
}

func TestResolveRequiresID(t *testing.T) {
	_, err := auth.Resolve(auth.Identity{Role: "admin"}, auth.ChannelPassword)
	require.ErrorIs(t, err, auth.ErrRoleResolution)
}

func TestAuthenticatedStatePanicsWithoutRole(t *testing.T) {
	require.Panics(t, func() { auth.Authenticated(auth.Principal{ID: "u1"}) })
}

func TestErrorMatching(t *testing.T) {
	wrapped := &auth.Error{Kind: auth.KindTransport, Code: auth.ErrNetwork.Code, Message: "x", Err: auth.ErrNotFound}
	require.ErrorIs(t, wrapped, auth.ErrNetwork)
	require.ErrorIs(t, wrapped, auth.ErrNotFound)
	require.NotErrorIs(t, wrapped, auth.ErrSetupFailed)
	require.Equal(t, auth.KindTransport, auth.KindOf(wrapped))
	require.Equal(t, auth.Kind(0), auth.KindOf(auth.ErrNotFound))
}
