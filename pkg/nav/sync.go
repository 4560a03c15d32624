package nav

import (
	"io"
	"log/slog"
	"strings"
)

// HistoryState is the object attached to each history entry and read back
// verbatim on popstate.
type HistoryState struct {
	View  string  `json:"view"`
	Topic *string `json:"topic"`
	Tab   string  `json:"tab,omitempty"`
}

// StateFor builds the history state object mirroring r.
func StateFor(r Route) HistoryState {
	st := HistoryState{View: string(r.View)}
	if r.Topic != "" {
		topic := r.Topic
		st.Topic = &topic
	}
	return st
}

// Route converts a history state object back into a route. Unknown views
// resolve to the default route.
func (s HistoryState) Route() Route {
	view := View(s.View)
	if !view.Valid() {
		return Home
	}
	r := Route{View: view}
	if s.Topic != nil {
		r.Topic = *s.Topic
	}
	return r
}

// History is the mutating half of the browser history API. Only the
// Synchronizer calls PushState.
type History interface {
	PushState(state HistoryState, url string)
	Location() string
}

// EventTarget delivers hashchange and popstate events. Each registration
// returns a func that removes the listener.
type EventTarget interface {
	OnHashChange(fn func(hash string)) (remove func())
	OnPopState(fn func(state *HistoryState)) (remove func())
}

// State is the synchronised navigation state.
type State struct {
	Route  Route
	Intent Intent
}

// Options configures a Synchronizer.
type Options struct {
	// HistoryDepth caps the back stack. Zero means DefaultHistoryDepth,
	// negative means unbounded.
	HistoryDepth int
	Logger       *slog.Logger
}

// Synchronizer reconciles hash changes, popstate events and explicit
// navigation into one State.
type Synchronizer struct {
	history History
	stack   *Stack
	state   State
	logger  *slog.Logger
}

// NewSynchronizer derives the initial state from the current location and
// seeds the back stack with it.
func NewSynchronizer(history History, opts Options) *Synchronizer {
	depth := opts.HistoryDepth
	switch {
	case depth == 0:
		depth = DefaultHistoryDepth
	case depth < 0:
		depth = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Synchronizer{
		history: history,
		stack:   NewStack(depth),
		logger:  logger,
	}
	s.set(Parse(history.Location()))
	s.stack.Push(s.state.Route)
	return s
}

// State returns the current navigation state.
func (s *Synchronizer) State() State {
	return s.state
}

// Route returns the active route.
func (s *Synchronizer) Route() Route {
	return s.state.Route
}

// Stack exposes the back stack for inspection.
func (s *Synchronizer) Stack() *Stack {
	return s.stack
}

// Mount registers the hashchange and popstate listeners on target.
// authenticated is consulted on every popstate. The returned func removes
// both listeners of this registration only; its handlers never run after
// it is called.
func (s *Synchronizer) Mount(target EventTarget, authenticated func() bool) (unmount func()) {
	active := true
	removeHash := target.OnHashChange(func(hash string) {
		if active {
			s.HandleHashChange(hash)
		}
	})
	removePop := target.OnPopState(func(st *HistoryState) {
		if active {
			s.HandlePopState(st, authenticated())
		}
	})
	return func() {
		active = false
		removeHash()
		removePop()
	}
}

// HandleHashChange re-parses the hash. A hash that matches the current
// route is the echo of an earlier Navigate and changes nothing. It reports
// whether the state changed.
func (s *Synchronizer) HandleHashChange(hash string) bool {
	r := Parse(hash)
	if r == s.state.Route {
		s.logger.Debug("hashchange confirmed", "hash", hash)
		return false
	}
	s.set(r)
	s.stack.Push(r)
	s.logger.Debug("hashchange", "route", r.Hash(), "depth", s.stack.Len())
	return true
}

// HandlePopState applies a native back/forward step. A nil state belongs
// to an entry that was not created by Navigate, such as the initial deep
// link or a typed hash, so the route is read from the location instead.
// Only an empty location is the document root, which shows the landing
// page to anonymous users.
func (s *Synchronizer) HandlePopState(st *HistoryState, authenticated bool) {
	var r Route
	root := false
	switch {
	case st != nil:
		r = st.Route()
	case isRoot(s.history.Location()):
		r, root = Home, true
	default:
		r = Parse(s.history.Location())
	}

	if prev, ok := s.stack.Previous(); ok && prev == r {
		s.stack.Pop()
	} else {
		s.stack.Push(r)
	}
	if root && !authenticated {
		s.state = State{Route: r, Intent: Landing{}}
	} else {
		s.set(r)
	}
	s.logger.Debug("popstate", "route", r.Hash(), "stateless", st == nil, "depth", s.stack.Len())
}

func isRoot(location string) bool {
	return strings.TrimPrefix(location, "#") == ""
}

// Navigate moves to (view, topic) and records a browser history entry.
// skipHistory leaves the back stack untouched; Back uses it when replaying.
func (s *Synchronizer) Navigate(view View, topic string, skipHistory bool) {
	if !view.Valid() {
		view = DefaultView
	}
	r := Route{View: view, Topic: topic}
	if r == s.state.Route {
		return
	}
	s.set(r)
	if !skipHistory {
		s.stack.Push(r)
	}
	s.history.PushState(StateFor(r), r.Hash())
	s.logger.Debug("navigate", "route", r.Hash(), "skip_history", skipHistory)
}

// NavigateTo is Navigate for a whole route.
func (s *Synchronizer) NavigateTo(r Route) {
	s.Navigate(r.View, r.Topic, false)
}

// Back steps the in-app back stack. At the first entry an authenticated
// user falls back to the dashboard; otherwise nothing happens. It reports
// whether the route changed.
func (s *Synchronizer) Back(authenticated bool) bool {
	before := s.state.Route
	if s.stack.Len() <= 1 {
		if !authenticated {
			return false
		}
		s.Navigate(ViewDashboard, "", false)
		return s.state.Route != before
	}
	s.stack.Pop()
	top, _ := s.stack.Top()
	s.Navigate(top.View, top.Topic, true)
	return s.state.Route != before
}

// Reset returns to the home route with a one-entry back stack.
func (s *Synchronizer) Reset() {
	s.set(Home)
	s.stack.Reset(Home)
	s.history.PushState(StateFor(Home), Home.Hash())
	s.logger.Debug("navigation reset")
}

// set assigns route and intent together so no caller ever observes one
// without the other.
func (s *Synchronizer) set(r Route) {
	s.state = State{Route: r, Intent: IntentFor(r)}
}
