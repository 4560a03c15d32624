// Package auth models who is signed in: the idle/authenticated/
// unauthenticated state machine, the internal user profile, and the
// provider contract the portal consumes.
package auth

import (
	"errors"
	"fmt"
)

// Status is the authentication state of the portal.
type Status int

const (
	StatusIdle Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for transitions the machine does not allow.
var ErrInvalidTransition = errors.New("invalid auth transition")

// Machine tracks Status. It starts idle, resolves once, and afterwards only
// moves between authenticated and unauthenticated.
type Machine struct {
	status Status
}

func (m *Machine) Status() Status {
	return m.status
}

// Authenticated is shorthand for Status() == StatusAuthenticated.
func (m *Machine) Authenticated() bool {
	return m.status == StatusAuthenticated
}

// Resolve leaves idle once the initial session lookup completes.
func (m *Machine) Resolve(sessionPresent bool) error {
	if m.status != StatusIdle {
		return fmt.Errorf("resolve from %s: %w", m.status, ErrInvalidTransition)
	}
	if sessionPresent {
		m.status = StatusAuthenticated
	} else {
		m.status = StatusUnauthenticated
	}
	return nil
}

// SignedIn records a successful credential submission.
func (m *Machine) SignedIn() error {
	if m.status != StatusUnauthenticated {
		return fmt.Errorf("sign in from %s: %w", m.status, ErrInvalidTransition)
	}
	m.status = StatusAuthenticated
	return nil
}

// LoggedOut records an explicit logout or a lost session.
func (m *Machine) LoggedOut() error {
	if m.status != StatusAuthenticated {
		return fmt.Errorf("log out from %s: %w", m.status, ErrInvalidTransition)
	}
	m.status = StatusUnauthenticated
	return nil
}
