package browser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/horizonten/gemenskap/pkg/nav"
)

func TestSetHashFiresHashChange(t *testing.T) {
	b := New("", Options{})
	var got []string
	b.OnHashChange(func(h string) { got = append(got, h) })

	if !b.SetHash("chat?topic=intro") {
		t.Fatal("expected SetHash to create an entry")
	}
	if b.SetHash("#chat?topic=intro") {
		t.Error("unchanged hash should be ignored")
	}
	b.Dispatch()

	if diff := cmp.Diff([]string{"#chat?topic=intro"}, got); diff != "" {
		t.Errorf("hashchange events mismatch (-want +got):\n%s", diff)
	}
	if b.Location() != "#chat?topic=intro" {
		t.Errorf("unexpected location %q", b.Location())
	}
}

func TestPushStateEcho(t *testing.T) {
	quiet := New("#welcome", Options{})
	quiet.PushState(nav.HistoryState{View: "chat"}, "#chat")
	if quiet.Pending() {
		t.Error("pushState must not fire hashchange without echo")
	}

	echo := New("#welcome", Options{EchoPushState: true})
	echo.PushState(nav.HistoryState{View: "chat"}, "#chat")
	if !echo.Pending() {
		t.Error("expected echoed hashchange")
	}
}

func TestBackForward(t *testing.T) {
	b := New("#welcome", Options{})
	b.PushState(nav.HistoryState{View: "dashboard"}, "#dashboard")
	b.PushState(nav.HistoryState{View: "chat"}, "#chat")

	var pops []*nav.HistoryState
	var hashes []string
	b.OnPopState(func(st *nav.HistoryState) { pops = append(pops, st) })
	b.OnHashChange(func(h string) { hashes = append(hashes, h) })

	if !b.Back() || !b.Back() {
		t.Fatal("expected two back steps")
	}
	if b.Back() {
		t.Error("back past the first entry should fail")
	}
	if !b.Forward() {
		t.Fatal("expected forward step")
	}
	b.Dispatch()

	if len(pops) != 3 {
		t.Fatalf("expected 3 popstate events, got %d", len(pops))
	}
	if pops[0] == nil || pops[0].View != "dashboard" {
		t.Errorf("first pop should carry dashboard, got %+v", pops[0])
	}
	if pops[1] != nil {
		t.Errorf("initial entry has no state, got %+v", pops[1])
	}
	if diff := cmp.Diff([]string{"#dashboard", "#welcome", "#dashboard"}, hashes); diff != "" {
		t.Errorf("hashchange mismatch (-want +got):\n%s", diff)
	}
}

func TestPushDropsForwardEntries(t *testing.T) {
	b := New("#welcome", Options{})
	b.PushState(nav.HistoryState{View: "chat"}, "#chat")
	b.Back()
	b.PushState(nav.HistoryState{View: "experts"}, "#experts")

	if b.CanGoForward() {
		t.Error("forward entries should be discarded after a push")
	}
	entries, idx := b.Entries()
	if len(entries) != 2 || idx != 1 || entries[1].URL != "#experts" {
		t.Errorf("unexpected history %+v at %d", entries, idx)
	}
}

func TestListenerRemoval(t *testing.T) {
	b := New("", Options{})
	calls := 0
	remove := b.OnHashChange(func(string) { calls++ })
	removePop := b.OnPopState(func(*nav.HistoryState) {})
	if b.Listeners() != 2 {
		t.Fatalf("expected 2 listeners, got %d", b.Listeners())
	}
	remove()
	removePop()
	b.SetHash("#chat")
	b.Dispatch()
	if calls != 0 || b.Listeners() != 0 {
		t.Errorf("listener ran after removal (calls=%d, listeners=%d)", calls, b.Listeners())
	}
}

// The synchronizer mounted on an echoing browser: every navigate produces a
// hashchange, and none of them may add a second back-stack entry.
func TestSynchronizerOnBrowser(t *testing.T) {
	b := New("#dashboard", Options{EchoPushState: true})
	s := nav.NewSynchronizer(b, nav.Options{})
	unmount := s.Mount(b, func() bool { return true })
	defer unmount()

	s.Navigate(nav.ViewChat, "intro", false)
	b.Dispatch()
	if s.Stack().Len() != 2 {
		t.Fatalf("expected 2 stack entries after navigate+echo, got %d", s.Stack().Len())
	}

	s.Navigate(nav.ViewExperts, "", false)
	b.Dispatch()

	// Native back: popstate carries the chat state, then the hashchange echo.
	b.Back()
	b.Dispatch()
	if s.Route() != (nav.Route{View: nav.ViewChat, Topic: "intro"}) {
		t.Errorf("expected chat/intro after back, got %+v", s.Route())
	}
	want := []nav.Route{{View: nav.ViewDashboard}, {View: nav.ViewChat, Topic: "intro"}}
	if diff := cmp.Diff(want, s.Stack().Entries()); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}

	// Address bar edit.
	b.SetHash("#admin")
	b.Dispatch()
	if s.Route().View != nav.ViewAdmin {
		t.Errorf("expected admin after address bar edit, got %+v", s.Route())
	}

	// Back to the very first entry, which has no state object. popstate
	// reads the route from the address bar.
	for b.CanGoBack() {
		b.Back()
	}
	b.Dispatch()
	if got := nav.Parse(b.Location()); s.Route() != got {
		t.Errorf("route %+v out of sync with location %q", s.Route(), b.Location())
	}
	if s.Route().View != nav.ViewDashboard {
		t.Errorf("expected dashboard at the root entry, got %+v", s.Route())
	}
}

func TestRootEntryWithoutHash(t *testing.T) {
	b := New("", Options{})
	s := nav.NewSynchronizer(b, nav.Options{})
	authed := false
	unmount := s.Mount(b, func() bool { return authed })
	defer unmount()

	s.Navigate(nav.ViewLogin, "", false)
	b.Back()
	b.Dispatch()

	if _, ok := s.State().Intent.(nav.Landing); !ok {
		t.Errorf("expected landing intent at the root, got %T", s.State().Intent)
	}
}

func TestBackToStatelessEntries(t *testing.T) {
	t.Run("deep link", func(t *testing.T) {
		b := New("#chat?topic=self-care", Options{EchoPushState: true})
		s := nav.NewSynchronizer(b, nav.Options{})
		unmount := s.Mount(b, func() bool { return true })
		defer unmount()

		s.Navigate(nav.ViewDashboard, "", false)
		b.Dispatch()
		b.Back()
		b.Dispatch()

		deepLink := nav.Route{View: nav.ViewChat, Topic: "self-care"}
		if s.Route() != deepLink {
			t.Errorf("expected %+v after back, got %+v", deepLink, s.Route())
		}
		if diff := cmp.Diff([]nav.Route{deepLink}, s.Stack().Entries()); diff != "" {
			t.Errorf("stack mismatch (-want +got):\n%s", diff)
		}

		// The in-app back button is now at the root entry.
		s.Back(true)
		if s.Route().View != nav.ViewDashboard {
			t.Errorf("expected dashboard fallback, got %+v", s.Route())
		}
	})
	t.Run("typed hash", func(t *testing.T) {
		b := New("#welcome", Options{EchoPushState: true})
		s := nav.NewSynchronizer(b, nav.Options{})
		unmount := s.Mount(b, func() bool { return true })
		defer unmount()

		b.SetHash("#experts")
		b.Dispatch()
		s.Navigate(nav.ViewChat, "", false)
		b.Dispatch()
		b.Back()
		b.Dispatch()

		want := []nav.Route{{View: nav.ViewWelcome}, {View: nav.ViewExperts}}
		if diff := cmp.Diff(want, s.Stack().Entries()); diff != "" {
			t.Errorf("stack mismatch (-want +got):\n%s", diff)
		}
		if s.Route().View != nav.ViewExperts {
			t.Errorf("expected experts, got %+v", s.Route())
		}
	})
}
