package nav

import (
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	require.Equal(t, KindSplash, Select(auth.Loading()).Kind())
	require.Empty(t, Select(auth.Loading()).Screens())

	g := Select(auth.Unauthenticated())
	require.Equal(t, KindAuth, g.Kind())
	require.Equal(t, []Screen{
		Welcome, Login, Register, CoachLogin,
		ParentPhoneEntry, ParentTeamCode, ParentSetup, ParentPassword,
	}, g.Screens())

	tests := []struct {
		role auth.Role
		kind Kind
		tabs []Screen
	}{
		{auth.RoleAdministrator, KindAdmin, []Screen{Dashboard, Teams, Players, Payments, Events, Announcements}},
		{auth.RoleCoach, KindCoach, []Screen{Dashboard, Teams, Players, Events, Announcements, Chat}},
		{auth.RoleParent, KindParent, []Screen{Dashboard, Children, Payments, Events, Announcements, Chat}},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			g := Select(auth.Authenticated(auth.Principal{ID: "p1", Role: tt.role}))
			require.Equal(t, tt.kind, g.Kind())
			require.Equal(t, tt.tabs, g.Tabs())
		})
	}
}

func TestGraphsDoNotMixRoles(t *testing.T) {
	admin := ForRole(auth.RoleAdministrator)
	coach := ForRole(auth.RoleCoach)
	parent := ForRole(auth.RoleParent)

	require.True(t, admin.Has(Security))
	require.False(t, coach.Has(Security))
	require.False(t, parent.Has(Security))

	require.True(t, parent.Has(ChildDetails))
	require.False(t, admin.Has(ChildDetails))
	require.False(t, coach.Has(ChildDetails))

	require.True(t, coach.Has(TeamDetails))
	require.False(t, admin.Has(Chat))

	signedOut := Select(auth.Unauthenticated())
	for _, s := range signedOut.Screens() {
		require.False(t, admin.Has(s) || coach.Has(s) || parent.Has(s), "auth screen %s in a role graph", s)
	}
}

func TestGraphsAreImmutable(t *testing.T) {
	g := ForRole(auth.RoleAdministrator)
	tabs := g.Tabs()
	tabs[0] = Chat

	require.Equal(t, Dashboard, ForRole(auth.RoleAdministrator).Tabs()[0])
}

func TestUnknownRolePanics(t *testing.T) {
	require.Panics(t, func() { ForRole(auth.Role(0)) })
}
