// Package browser is an in-memory stand-in for a web browser's location and
// session history. It owns the address-bar hash and the list of history
// entries, and queues hashchange and popstate events until Dispatch is
// called, so every listener runs as its own discrete step of the caller's
// event loop.
package browser

import (
	"strings"

	"gitlab.com/horizonten/gemenskap/pkg/nav"
)

// Entry is one session history entry.
type Entry struct {
	URL   string
	State *nav.HistoryState
}

type eventKind int

const (
	eventHashChange eventKind = iota
	eventPopState
)

type event struct {
	kind  eventKind
	hash  string
	state *nav.HistoryState
}

// Options configures a Browser.
type Options struct {
	// EchoPushState makes PushState fire a hashchange when the fragment
	// changes, as older hash routers expect.
	EchoPushState bool
}

// Browser holds location, history and listeners.
type Browser struct {
	entries []Entry
	index   int
	opts    Options

	hashListeners map[int]func(string)
	popListeners  map[int]func(*nav.HistoryState)
	nextID        int

	queue []event
}

// New creates a browser whose single entry is initialHash with no state.
func New(initialHash string, opts Options) *Browser {
	return &Browser{
		entries:       []Entry{{URL: normalize(initialHash)}},
		opts:          opts,
		hashListeners: make(map[int]func(string)),
		popListeners:  make(map[int]func(*nav.HistoryState)),
	}
}

func normalize(hash string) string {
	hash = strings.TrimSpace(hash)
	if hash == "" || hash == "#" {
		return ""
	}
	if !strings.HasPrefix(hash, "#") {
		hash = "#" + hash
	}
	return hash
}

// Location returns the current fragment, including the leading '#'.
func (b *Browser) Location() string {
	return b.entries[b.index].URL
}

// PushState adds an entry after the current one, dropping forward entries.
func (b *Browser) PushState(st nav.HistoryState, url string) {
	prev := b.Location()
	url = normalize(url)
	state := st
	b.push(Entry{URL: url, State: &state})
	if b.opts.EchoPushState && url != prev {
		b.enqueue(event{kind: eventHashChange, hash: url})
	}
}

// SetHash is the user editing the address bar. A new entry without a state
// object is created and hashchange fires; an unchanged hash does nothing.
func (b *Browser) SetHash(hash string) bool {
	hash = normalize(hash)
	if hash == b.Location() {
		return false
	}
	b.push(Entry{URL: hash})
	b.enqueue(event{kind: eventHashChange, hash: hash})
	return true
}

func (b *Browser) push(e Entry) {
	b.entries = append(b.entries[:b.index+1], e)
	b.index = len(b.entries) - 1
}

// Back moves one entry back, firing popstate (and hashchange when the
// fragment differs). It reports whether there was an entry to go to.
func (b *Browser) Back() bool {
	return b.traverse(-1)
}

// Forward moves one entry forward.
func (b *Browser) Forward() bool {
	return b.traverse(1)
}

func (b *Browser) traverse(delta int) bool {
	target := b.index + delta
	if target < 0 || target >= len(b.entries) {
		return false
	}
	prev := b.Location()
	b.index = target
	entry := b.entries[target]

	var st *nav.HistoryState
	if entry.State != nil {
		copied := *entry.State
		st = &copied
	}
	b.enqueue(event{kind: eventPopState, state: st})
	if entry.URL != prev {
		b.enqueue(event{kind: eventHashChange, hash: entry.URL})
	}
	return true
}

// CanGoBack reports whether Back would move.
func (b *Browser) CanGoBack() bool {
	return b.index > 0
}

// CanGoForward reports whether Forward would move.
func (b *Browser) CanGoForward() bool {
	return b.index < len(b.entries)-1
}

// Entries returns a copy of the history list and the current index.
func (b *Browser) Entries() ([]Entry, int) {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out, b.index
}

// OnHashChange registers a hashchange listener.
func (b *Browser) OnHashChange(fn func(hash string)) func() {
	id := b.nextID
	b.nextID++
	b.hashListeners[id] = fn
	return func() { delete(b.hashListeners, id) }
}

// OnPopState registers a popstate listener.
func (b *Browser) OnPopState(fn func(state *nav.HistoryState)) func() {
	id := b.nextID
	b.nextID++
	b.popListeners[id] = fn
	return func() { delete(b.popListeners, id) }
}

// Listeners returns the number of registered listeners.
func (b *Browser) Listeners() int {
	return len(b.hashListeners) + len(b.popListeners)
}

func (b *Browser) enqueue(e event) {
	b.queue = append(b.queue, e)
}

// Pending reports whether events are waiting for Dispatch.
func (b *Browser) Pending() bool {
	return len(b.queue) > 0
}

// Dispatch delivers queued events in order, including any queued by the
// listeners themselves, and returns how many were delivered.
func (b *Browser) Dispatch() int {
	n := 0
	for len(b.queue) > 0 {
		e := b.queue[0]
		b.queue = b.queue[1:]
		n++
		switch e.kind {
		case eventHashChange:
			for _, fn := range b.hashListeners {
				fn(e.hash)
			}
		case eventPopState:
			for _, fn := range b.popListeners {
				fn(e.state)
			}
		}
	}
	return n
}

var _ nav.History = (*Browser)(nil)
var _ nav.EventTarget = (*Browser)(nil)
