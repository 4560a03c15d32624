// Package tui renders portal frames. It is a pure view layer: the app
// model fills in a Frame and Renderer turns it into the terminal string,
// marking every link as a clickable zone.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/components"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
	"gitlab.com/horizonten/gemenskap/pkg/screen"
	"gitlab.com/horizonten/gemenskap/pkg/theme"
)

const (
	brand        = "Horizonten gemenskap"
	sidebarWidth = 22
)

// Link is something the user can follow to a hash.
type Link struct {
	Hash    string
	Label   string
	Active  bool
	Focused bool
}

// Level grades a status bar message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Status is the one-line message shown at the bottom.
type Status struct {
	Text  string
	Level Level
}

// Form describes the sign-in or sign-up form.
type Form struct {
	Title  string
	Fields []string // rendered text inputs, in focus order
	Error  string
	Busy   bool
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Width, Height int
	Theme         theme.Theme
	Screen        screen.Screen
	Location      string
	// Address is the rendered address-bar input while it is being edited.
	Address string
	Profile *auth.UserProfile
	Sidebar []Link
	// Links are the followable entries inside the main area: chat topics,
	// landing choices or form switches.
	Links []Link
	Form  Form
	// Stack and History feed the admin view.
	Stack        []nav.Route
	History      []string
	HistoryIndex int
	Status       Status
	Help         string
	ShowHelp     bool
}

// Renderer draws frames. A nil zone manager disables mouse zones.
type Renderer struct {
	zones *zone.Manager
}

// NewRenderer returns a renderer marking links in zones.
func NewRenderer(zones *zone.Manager) Renderer {
	return Renderer{zones: zones}
}

// ZoneID is the mouse zone identifier for a link to hash.
func ZoneID(hash string) string {
	return "link:" + hash
}

// Clicked returns the link under a mouse event, searching groups in order.
func (r Renderer) Clicked(msg tea.MouseMsg, groups ...[]Link) (Link, bool) {
	if r.zones == nil {
		return Link{}, false
	}
	for _, links := range groups {
		for _, l := range links {
			if z := r.zones.Get(ZoneID(l.Hash)); z != nil && z.InBounds(msg) {
				return l, true
			}
		}
	}
	return Link{}, false
}

// Render draws f at exactly f.Width by f.Height cells.
func (r Renderer) Render(f Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	st := newStyles(f.Theme)

	header := renderHeader(f, st)
	footer := renderStatusBar(f, st)
	bodyH := f.Height - lipgloss.Height(header) - 1
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch {
	case f.ShowHelp:
		body = renderHelp(f, st, bodyH)
	case f.Screen.Kind == screen.KindApp:
		body = r.renderShell(f, st, bodyH)
	case f.Screen.Kind == screen.KindAccessDenied:
		body = renderAccessDenied(f, st, bodyH)
	case f.Screen.Kind == screen.KindLanding:
		body = r.renderLanding(f, st, bodyH)
	case f.Screen.Kind == screen.KindSplash:
		body = renderSplash(f, st, bodyH)
	case f.Screen.Kind == screen.KindLogin:
		body = r.renderLogin(f, st, bodyH)
	default:
		body = renderLoading(f, st, bodyH)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if r.zones != nil {
		out = r.zones.Scan(out)
	}
	return out
}

// renderHeader draws the brand, the address bar and the signed-in member
// above a rule.
func renderHeader(f Frame, st styles) string {
	left := st.title.Render(brand)
	addr := f.Address
	if addr == "" {
		loc := f.Location
		if loc == "" {
			loc = "#"
		}
		addr = st.address.Render(loc)
	}

	right := st.dim.Render("ej inloggad")
	if f.Profile != nil {
		name := f.Profile.DisplayName
		if name == "" {
			name = f.Profile.Email
		}
		right = st.text.Render(name) + st.dim.Render(" ("+string(f.Profile.Role)+")")
	}

	line := left + "  " + addr
	room := f.Width - components.VisibleLen(right) - 1
	if room < components.VisibleLen(left) {
		line = components.Fit(line, f.Width)
	} else {
		line = components.Fit(line, room) + " " + right
	}
	rule := st.dim.Render(strings.Repeat("─", f.Width))
	return line + "\n" + rule
}

// renderStatusBar renders a one-line status bar padded or truncated to
// exactly the frame width.
func renderStatusBar(f Frame, st styles) string {
	if f.Status.Text != "" {
		style := st.text
		switch f.Status.Level {
		case LevelSuccess:
			style = st.success
		case LevelError:
			style = st.err
		}
		return style.Render(components.Fit(f.Status.Text, f.Width))
	}
	return st.dim.Render(components.Fit(hintsFor(f), f.Width))
}

func hintsFor(f Frame) string {
	switch f.Screen.Kind {
	case screen.KindLogin:
		return "tab:fält  enter:skicka  ctrl+n:byt formulär  esc:avbryt  f1:hjälp"
	case screen.KindSplash:
		return "enter:fortsätt  esc:tillbaka  f1:hjälp"
	case screen.KindApp, screen.KindAccessDenied:
		return "tab:fokus  enter:öppna  b:bakåt  [ ]:historik  ::adress  ctrl+l:logga ut  ?:hjälp  q:avsluta"
	default:
		return "tab:fokus  enter:öppna  [ ]:historik  ::adress  ?:hjälp  q:avsluta"
	}
}

// renderShell draws the sidebar next to the active view.
func (r Renderer) renderShell(f Frame, st styles, height int) string {
	sideW := sidebarWidth
	if f.Width < sideW*3 {
		sideW = f.Width / 3
	}
	mainW := f.Width - sideW

	var side []string
	for _, l := range f.Sidebar {
		side = append(side, r.link(l, st, sideW-4))
	}
	sidebar := st.panel.Width(sideW - 2).Height(height - 2).MaxHeight(height).Render(strings.Join(side, "\n"))

	content := r.viewContent(f, st, mainW-4)
	main := st.focused.Width(mainW - 2).Height(height - 2).MaxHeight(height).Render(strings.Join(content, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

// link renders one followable entry and marks it as a mouse zone.
func (r Renderer) link(l Link, st styles, width int) string {
	prefix := "  "
	style := st.link
	switch {
	case l.Focused:
		prefix = "▸ "
		style = st.linkFocus
	case l.Active:
		style = st.linkOn
	}
	text := style.Render(components.Ellipsize(l.Label, width-2))
	if r.zones == nil {
		return prefix + text
	}
	return prefix + r.zones.Mark(ZoneID(l.Hash), text)
}

func (r Renderer) links(links []Link, st styles, width int) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, r.link(l, st, width))
	}
	return out
}

func paragraph(st styles, text string, width int) []string {
	var out []string
	for _, line := range components.Wrap(text, width) {
		out = append(out, st.text.Render(line))
	}
	return out
}

func fill(lines []string, width, height int) string {
	body := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func routeLine(r nav.Route) string {
	if r.Topic == "" {
		return fmt.Sprintf("%-14s %s", r.View, r.Hash())
	}
	return fmt.Sprintf("%-14s %s (%s)", r.View, r.Hash(), r.Topic)
}
