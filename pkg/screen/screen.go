// Package screen picks the top-level screen tree from the auth status and
// the navigation intent.
package screen

import (
	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
)

// Kind identifies a top-level screen.
type Kind int

const (
	KindLoading Kind = iota
	KindLanding
	KindSplash
	KindLogin
	KindApp
	KindAccessDenied
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindLanding:
		return "landing"
	case KindSplash:
		return "splash"
	case KindLogin:
		return "login"
	case KindApp:
		return "app"
	case KindAccessDenied:
		return "access-denied"
	default:
		return "unknown"
	}
}

// Screen is the selector's decision. Route is set for KindApp and
// KindAccessDenied, and for KindLoading while an admin route waits on the
// profile; Form is set for KindSplash and KindLogin.
type Screen struct {
	Kind  Kind
	Route nav.Route
	Form  nav.LoginForm
}

// Input is everything Select looks at.
type Input struct {
	Status  auth.Status
	Profile *auth.UserProfile
	Intent  nav.Intent
	// SplashSeen is set once the premium intro has been dismissed.
	SplashSeen bool
}

// Select chooses the screen to mount.
func Select(in Input) Screen {
	switch in.Status {
	case auth.StatusIdle:
		return Screen{Kind: KindLoading}
	case auth.StatusAuthenticated:
		return selectAuthenticated(in)
	default:
		return selectAnonymous(in)
	}
}

func selectAuthenticated(in Input) Screen {
	var r nav.Route
	switch intent := in.Intent.(type) {
	case nav.App:
		r = intent.Route
	case nil:
		r = nav.Home
	default:
		r = intent.PostLogin()
	}
	if !r.View.InApp() {
		r = nav.Home
	}
	if r.View == nav.ViewAdmin {
		// The privilege check waits for the profile; a failed load ends
		// the session instead of leaving this screen up.
		if in.Profile == nil {
			return Screen{Kind: KindLoading, Route: r}
		}
		if !in.Profile.Privileged() {
			return Screen{Kind: KindAccessDenied, Route: r}
		}
	}
	return Screen{Kind: KindApp, Route: r}
}

func selectAnonymous(in Input) Screen {
	form, ok := in.Intent.(nav.LoginForm)
	if !ok {
		return Screen{Kind: KindLanding}
	}
	if form.Flavor == nav.FlavorPremium && !in.SplashSeen {
		return Screen{Kind: KindSplash, Form: form}
	}
	return Screen{Kind: KindLogin, Form: form}
}
