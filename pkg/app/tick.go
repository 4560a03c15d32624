package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
)

// StatusExpiryCmd returns a Cmd that sends a StatusExpiredEvent for seq
// after d.
func StatusExpiryCmd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return StatusExpiredEvent{Seq: seq, Time: t}
	})
}

// CallCmd returns a Cmd that runs fn in a goroutine with a deadline derived
// from parent and delivers whatever message fn builds.
//
// Usage:
//
//	cmd := CallCmd(ctx, 10*time.Second, func(ctx context.Context) tea.Msg {
//	    s, err := provider.Session(ctx)
//	    return SessionResolvedEvent{Session: s, Err: err}
//	})
func CallCmd(parent context.Context, timeout time.Duration, fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m AppModel) resolveSessionCmd() tea.Cmd {
	p := m.provider
	return CallCmd(m.ctx, m.timeout, func(ctx context.Context) tea.Msg {
		s, err := p.Session(ctx)
		return SessionResolvedEvent{Session: s, Err: err}
	})
}

func (m AppModel) signInCmd(email, password string) tea.Cmd {
	p := m.provider
	return CallCmd(m.ctx, m.timeout, func(ctx context.Context) tea.Msg {
		s, err := p.SignIn(ctx, email, password)
		return SignInEvent{Session: s, Err: err}
	})
}

func (m AppModel) signUpCmd(email, password, name string) tea.Cmd {
	p := m.provider
	return CallCmd(m.ctx, m.timeout, func(ctx context.Context) tea.Msg {
		s, err := p.SignUp(ctx, email, password, name)
		return SignInEvent{Session: s, Err: err}
	})
}

func (m AppModel) signOutCmd() tea.Cmd {
	p := m.provider
	return CallCmd(m.ctx, m.timeout, func(ctx context.Context) tea.Msg {
		return SignOutEvent{Err: p.SignOut(ctx)}
	})
}

func (m AppModel) loadProfileCmd(s auth.Session) tea.Cmd {
	loader := m.profiles
	return CallCmd(m.ctx, m.timeout, func(ctx context.Context) tea.Msg {
		p, err := loader.LoadProfile(ctx, s)
		return ProfileEvent{UserID: s.UserID, Profile: p, Err: err}
	})
}

// waitForAuthEvent blocks on the subscription channel. It returns once an
// event arrives or the channel is closed by the subscription's cancel.
func waitForAuthEvent(events <-chan auth.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return AuthChangeEvent{Event: ev, Open: ok}
	}
}
