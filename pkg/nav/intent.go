package nav

// Intent is what the current route asks the screen selector to show. Only
// one variant is live at a time, so the landing page, a login form and the
// app shell can never be requested together.
type Intent interface {
	// PostLogin is the route to show once the user is signed in.
	PostLogin() Route
	intent()
}

// Flavor distinguishes the plain login form from the premium entry.
type Flavor int

const (
	FlavorStandard Flavor = iota
	FlavorPremium
)

func (f Flavor) String() string {
	if f == FlavorPremium {
		return "premium"
	}
	return "standard"
}

// FormMode selects between signing in and creating an account.
type FormMode int

const (
	ModeSignIn FormMode = iota
	ModeSignUp
)

func (m FormMode) String() string {
	if m == ModeSignUp {
		return "signup"
	}
	return "signin"
}

// Landing asks for the unauthenticated landing page.
type Landing struct{}

// LoginForm asks for the credential form.
type LoginForm struct {
	Flavor Flavor
	Mode   FormMode
}

// App asks for a view inside the authenticated shell.
type App struct {
	Route Route
}

func (Landing) intent()   {}
func (LoginForm) intent() {}
func (App) intent()       {}

func (Landing) PostLogin() Route { return Home }

// PostLogin sends premium arrivals straight to the chat.
func (f LoginForm) PostLogin() Route {
	if f.Flavor == FlavorPremium {
		return Route{View: ViewChat}
	}
	return Home
}

func (a App) PostLogin() Route { return a.Route }

// IntentFor derives the screen intent for a route.
func IntentFor(r Route) Intent {
	switch r.View {
	case ViewLogin:
		return LoginForm{Flavor: FlavorStandard, Mode: ModeSignIn}
	case ViewSignup:
		return LoginForm{Flavor: FlavorStandard, Mode: ModeSignUp}
	case ViewPremiumLogin:
		return LoginForm{Flavor: FlavorPremium, Mode: ModeSignIn}
	default:
		return App{Route: r}
	}
}
