package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/components"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
	"gitlab.com/horizonten/gemenskap/pkg/screen"
	"gitlab.com/horizonten/gemenskap/pkg/theme"
)

// helper to build a frame for the given screen.
func newTestFrame(s screen.Screen) Frame {
	return Frame{
		Width:    100,
		Height:   30,
		Theme:    theme.Get("horisont"),
		Screen:   s,
		Location: s.Route.Hash(),
	}
}

func member() *auth.UserProfile {
	return &auth.UserProfile{ID: "u1", Email: "sara@example.se", DisplayName: "Sara", Role: auth.RoleMember}
}

func TestRenderFillsFrame(t *testing.T) {
	r := NewRenderer(nil)
	kinds := []screen.Screen{
		{Kind: screen.KindLoading},
		{Kind: screen.KindLanding},
		{Kind: screen.KindSplash, Form: nav.LoginForm{Flavor: nav.FlavorPremium}},
		{Kind: screen.KindLogin},
		{Kind: screen.KindApp, Route: nav.Route{View: nav.ViewDashboard}},
		{Kind: screen.KindAccessDenied, Route: nav.Route{View: nav.ViewAdmin}},
	}
	for _, s := range kinds {
		t.Run(s.Kind.String(), func(t *testing.T) {
			out := r.Render(newTestFrame(s))
			if got := lipgloss.Height(out); got != 30 {
				t.Errorf("expected 30 lines, got %d", got)
			}
			if got := lipgloss.Width(out); got > 100 {
				t.Errorf("output wider than frame: %d", got)
			}
		})
	}
}

func TestRenderZeroSize(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindLanding})
	f.Width = 0
	if out := NewRenderer(nil).Render(f); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestHeaderShowsLocationAndMember(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindApp, Route: nav.Route{View: nav.ViewChat, Topic: "sömn"}})
	f.Location = "#chat?topic=s%C3%B6mn"
	f.Profile = member()
	out := NewRenderer(nil).Render(f)
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(first, "#chat?topic=s%C3%B6mn") {
		t.Errorf("header missing location: %q", first)
	}
	if !strings.Contains(first, "Sara") {
		t.Errorf("header missing member name: %q", first)
	}
}

func TestHeaderAnonymous(t *testing.T) {
	out := NewRenderer(nil).Render(newTestFrame(screen.Screen{Kind: screen.KindLanding}))
	if !strings.Contains(out, "ej inloggad") {
		t.Error("expected anonymous marker in header")
	}
}

func TestStatusBarWidth(t *testing.T) {
	st := newStyles(theme.Get("horisont"))
	f := newTestFrame(screen.Screen{Kind: screen.KindLanding})
	f.Width = 40
	if got := components.VisibleLen(renderStatusBar(f, st)); got != 40 {
		t.Errorf("hint bar width = %d, want 40", got)
	}
	f.Status = Status{Text: "Fel lösenord", Level: LevelError}
	bar := renderStatusBar(f, st)
	if !strings.Contains(bar, "Fel lösenord") {
		t.Errorf("status text missing: %q", bar)
	}
	if got := components.VisibleLen(bar); got != 40 {
		t.Errorf("status bar width = %d, want 40", got)
	}
}

func TestShellRendersSidebarAndTopics(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindApp, Route: nav.Route{View: nav.ViewChat, Topic: "sleep"}})
	f.Profile = member()
	f.Sidebar = []Link{
		{Hash: "#welcome", Label: "Välkommen"},
		{Hash: "#chat", Label: "Chatt", Active: true},
	}
	f.Links = []Link{
		{Hash: "#chat?topic=sleep", Label: "Sömn", Active: true},
		{Hash: "#chat?topic=work", Label: "Arbete", Focused: true},
	}
	out := NewRenderer(nil).Render(f)
	for _, want := range []string{"Välkommen", "Chatt", "Ämne: Sömn", "▸ Arbete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAdminViewListsHistory(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindApp, Route: nav.Route{View: nav.ViewAdmin}})
	f.Stack = []nav.Route{nav.Home, {View: nav.ViewAdmin}}
	f.History = []string{"", "#admin"}
	f.HistoryIndex = 1
	out := NewRenderer(nil).Render(f)
	for _, want := range []string{"Bakåtstack", "(rot)", "▸ #admin"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestAccessDeniedMentionsRoute(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindAccessDenied, Route: nav.Route{View: nav.ViewAdmin}})
	out := NewRenderer(nil).Render(f)
	if !strings.Contains(out, "Ingen behörighet") || !strings.Contains(out, "#admin") {
		t.Errorf("access denied screen incomplete:\n%s", out)
	}
}

func TestLoginShowsFormError(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindLogin})
	f.Form = Form{Title: "Logga in", Fields: []string{"E-post: sara", "Lösenord: ••••"}, Error: "Fel e-post eller lösenord"}
	out := NewRenderer(nil).Render(f)
	if !strings.Contains(out, "Fel e-post eller lösenord") {
		t.Error("form error not rendered")
	}
}

func TestHelpReplacesBody(t *testing.T) {
	f := newTestFrame(screen.Screen{Kind: screen.KindLanding})
	f.ShowHelp = true
	f.Help = "q avsluta"
	out := NewRenderer(nil).Render(f)
	if !strings.Contains(out, "Tangenter") || !strings.Contains(out, "q avsluta") {
		t.Error("help overlay not rendered")
	}
}

func TestClickedWithoutZones(t *testing.T) {
	r := NewRenderer(nil)
	_, ok := r.Clicked(tea.MouseMsg{X: 1, Y: 1}, []Link{{Hash: "#chat"}})
	if ok {
		t.Error("expected no hit without a zone manager")
	}
	if ZoneID("#chat") != "link:#chat" {
		t.Errorf("unexpected zone id %q", ZoneID("#chat"))
	}
}
