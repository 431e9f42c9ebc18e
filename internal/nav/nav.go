// Package nav picks the root screen graph for the current session state.
package nav

import (
	"fmt"
	"slices"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
)

type Screen string

const (
	// Auth graph
	Welcome          Screen = "Welcome"
	Login            Screen = "Login"
	Register         Screen = "Register"
	CoachLogin       Screen = "CoachLogin"
	ParentPhoneEntry Screen = "ParentPhoneEntry"
	ParentTeamCode   Screen = "ParentTeamCode"
	ParentSetup      Screen = "ParentSetup"
	ParentPassword   Screen = "ParentPassword"

	// Tabs
	Dashboard     Screen = "Dashboard"
	Teams         Screen = "Teams"
	Players       Screen = "Players"
	Payments      Screen = "Payments"
	Events        Screen = "Events"
	Announcements Screen = "Announcements"
	Chat          Screen = "Chat"
	Children      Screen = "Children"

	// Stacked
	Settings           Screen = "Settings"
	ClubInformation    Screen = "ClubInformation"
	AdminProfile       Screen = "AdminProfile"
	Security           Screen = "Security"
	ProfileInformation Screen = "ProfileInformation"
	TeamDetails        Screen = "TeamDetails"
	PlayerDetails      Screen = "PlayerDetails"
	EventDetails       Screen = "EventDetails"
	ChildDetails       Screen = "ChildDetails"
	TeamInfo           Screen = "TeamInfo"
)

// Kind names the root graph.
type Kind uint8

const (
	KindSplash Kind = iota
	KindAuth
	KindAdmin
	KindCoach
	KindParent
)

func (k Kind) String() string {
	switch k {
	case KindSplash:
		return "splash"
	case KindAuth:
		return "auth"
	case KindAdmin:
		return "admin"
	case KindCoach:
		return "coach"
	case KindParent:
		return "parent"
	}
	return "unknown"
}

// Graph is an immutable root navigation graph. The splash graph has no
// screens.
type Graph struct {
	kind  Kind
	tabs  []Screen
	stack []Screen
}

func (g Graph) Kind() Kind { return g.kind }

// Tabs returns the tab screens, in order.
func (g Graph) Tabs() []Screen { return slices.Clone(g.tabs) }

// Stack returns the screens pushed over the tabs, or the auth flow screens.
func (g Graph) Stack() []Screen { return slices.Clone(g.stack) }

// Screens returns every screen in the graph.
func (g Graph) Screens() []Screen { return slices.Concat(g.tabs, g.stack) }

// Has reports whether s is reachable in g.
func (g Graph) Has(s Screen) bool {
	return slices.Contains(g.tabs, s) || slices.Contains(g.stack, s)
}

var (
	splash = Graph{kind: KindSplash}

	authGraph = Graph{
		kind: KindAuth,
		stack: []Screen{
			Welcome, Login, Register, CoachLogin,
			ParentPhoneEntry, ParentTeamCode, ParentSetup, ParentPassword,
		},
	}

	adminGraph = Graph{
		kind:  KindAdmin,
		tabs:  []Screen{Dashboard, Teams, Players, Payments, Events, Announcements},
		stack: []Screen{Settings, ClubInformation, AdminProfile, Security, ProfileInformation},
	}

	coachGraph = Graph{
		kind:  KindCoach,
		tabs:  []Screen{Dashboard, Teams, Players, Events, Announcements, Chat},
		stack: []Screen{TeamDetails, PlayerDetails, EventDetails},
	}

	parentGraph = Graph{
		kind:  KindParent,
		tabs:  []Screen{Dashboard, Children, Payments, Events, Announcements, Chat},
		stack: []Screen{ChildDetails, TeamInfo},
	}
)

// Select returns the root graph for s.
func Select(s auth.State) Graph {
	switch s.Status() {
	case auth.StatusLoading:
		return splash
	case auth.StatusUnauthenticated:
		return authGraph
	case auth.StatusAuthenticated:
		p, _ := s.Principal()
		return ForRole(p.Role)
	}
	panic(fmt.Sprintf("nav: unhandled session status %d", s.Status()))
}

// ForRole returns the signed-in graph for r.
func ForRole(r auth.Role) Graph {
	switch r {
	case auth.RoleAdministrator:
		return adminGraph
	case auth.RoleCoach:
		return coachGraph
	case auth.RoleParent:
		return parentGraph
	}
	panic(fmt.Sprintf("nav: unhandled role %s", r))
}
