package screen

import (
	"testing"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
)

func TestSelect(t *testing.T) {
	member := &auth.UserProfile{ID: "u1", Role: auth.RoleMember}
	admin := &auth.UserProfile{ID: "u2", Role: auth.RoleAdmin}
	chat := nav.Route{View: nav.ViewChat, Topic: "intro"}
	adminRoute := nav.Route{View: nav.ViewAdmin}
	premium := nav.LoginForm{Flavor: nav.FlavorPremium}
	standard := nav.LoginForm{Flavor: nav.FlavorStandard}

	tests := []struct {
		name string
		in   Input
		want Screen
	}{
		{
			name: "idle shows loading",
			in:   Input{Status: auth.StatusIdle, Intent: nav.App{Route: chat}},
			want: Screen{Kind: KindLoading},
		},
		{
			name: "authenticated app view",
			in:   Input{Status: auth.StatusAuthenticated, Profile: member, Intent: nav.App{Route: chat}},
			want: Screen{Kind: KindApp, Route: chat},
		},
		{
			name: "admin without privilege",
			in:   Input{Status: auth.StatusAuthenticated, Profile: member, Intent: nav.App{Route: adminRoute}},
			want: Screen{Kind: KindAccessDenied, Route: adminRoute},
		},
		{
			name: "admin before profile loads",
			in:   Input{Status: auth.StatusAuthenticated, Intent: nav.App{Route: adminRoute}},
			want: Screen{Kind: KindLoading, Route: adminRoute},
		},
		{
			name: "other views do not wait on the profile",
			in:   Input{Status: auth.StatusAuthenticated, Intent: nav.App{Route: chat}},
			want: Screen{Kind: KindApp, Route: chat},
		},
		{
			name: "admin with privilege",
			in:   Input{Status: auth.StatusAuthenticated, Profile: admin, Intent: nav.App{Route: adminRoute}},
			want: Screen{Kind: KindApp, Route: adminRoute},
		},
		{
			name: "authenticated on premium login goes to chat",
			in:   Input{Status: auth.StatusAuthenticated, Profile: member, Intent: premium},
			want: Screen{Kind: KindApp, Route: nav.Route{View: nav.ViewChat}},
		},
		{
			name: "authenticated on login goes home",
			in:   Input{Status: auth.StatusAuthenticated, Profile: member, Intent: standard},
			want: Screen{Kind: KindApp, Route: nav.Home},
		},
		{
			name: "authenticated landing goes home",
			in:   Input{Status: auth.StatusAuthenticated, Profile: member, Intent: nav.Landing{}},
			want: Screen{Kind: KindApp, Route: nav.Home},
		},
		{
			name: "anonymous deep link shows landing",
			in:   Input{Status: auth.StatusUnauthenticated, Intent: nav.App{Route: chat}},
			want: Screen{Kind: KindLanding},
		},
		{
			name: "anonymous login form",
			in:   Input{Status: auth.StatusUnauthenticated, Intent: standard},
			want: Screen{Kind: KindLogin, Form: standard},
		},
		{
			name: "anonymous premium shows splash first",
			in:   Input{Status: auth.StatusUnauthenticated, Intent: premium},
			want: Screen{Kind: KindSplash, Form: premium},
		},
		{
			name: "anonymous premium after splash",
			in:   Input{Status: auth.StatusUnauthenticated, Intent: premium, SplashSeen: true},
			want: Screen{Kind: KindLogin, Form: premium},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.in); got != tt.want {
				t.Errorf("Select() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
