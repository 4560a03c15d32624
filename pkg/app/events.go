// Package app is the portal's Bubble Tea root model. It owns the in-memory
// browser, the navigation synchronizer and the auth state machine, runs
// collaborator calls as commands, and hands a tui.Frame to the renderer.
package app

import (
	"time"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
)

// SessionResolvedEvent carries the result of the startup session lookup.
type SessionResolvedEvent struct {
	Session *auth.Session
	Err     error
}

// SignInEvent carries the result of a sign-in or sign-up submission.
type SignInEvent struct {
	Session *auth.Session
	Err     error
}

// SignOutEvent reports that the provider finished signing out.
type SignOutEvent struct {
	Err error
}

// ProfileEvent carries a loaded member profile. UserID identifies the
// session it was requested for so late results can be dropped.
type ProfileEvent struct {
	UserID  string
	Profile auth.UserProfile
	Err     error
}

// AuthChangeEvent relays one provider subscription event. Open is false
// once the subscription channel has been closed.
type AuthChangeEvent struct {
	Event auth.Event
	Open  bool
}

// StatusExpiredEvent clears the status bar message with the same Seq.
type StatusExpiredEvent struct {
	Seq  int
	Time time.Time
}
