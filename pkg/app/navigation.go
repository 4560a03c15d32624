package app

import (
	"gitlab.com/horizonten/gemenskap/pkg/nav"
	"gitlab.com/horizonten/gemenskap/pkg/screen"
	"gitlab.com/horizonten/gemenskap/pkg/tui"
)

// sidebar lists the shell's views. Admin is only offered to privileged
// members; others can still type its hash and get the access screen.
func (m *AppModel) sidebar() []tui.Link {
	if m.screen.Kind != screen.KindApp && m.screen.Kind != screen.KindAccessDenied {
		return nil
	}
	links := make([]tui.Link, 0, len(nav.AppViews))
	for _, v := range nav.AppViews {
		if v == nav.ViewAdmin && (m.profile == nil || !m.profile.Privileged()) {
			continue
		}
		links = append(links, tui.Link{
			Hash:   nav.Route{View: v}.Hash(),
			Label:  v.Title(),
			Active: m.screen.Route.View == v,
		})
	}
	return links
}

// bodyLinks lists the links inside the main area of the current screen.
func (m *AppModel) bodyLinks() []tui.Link {
	switch m.screen.Kind {
	case screen.KindApp:
		if m.screen.Route.View != nav.ViewChat {
			return nil
		}
		links := make([]tui.Link, 0, len(Topics))
		for _, t := range Topics {
			links = append(links, tui.Link{
				Hash:   nav.Route{View: nav.ViewChat, Topic: t.ID}.Hash(),
				Label:  t.Title,
				Active: m.screen.Route.Topic == t.ID,
			})
		}
		return links
	case screen.KindLanding:
		return []tui.Link{
			{Hash: nav.Route{View: nav.ViewLogin}.Hash(), Label: "Logga in"},
			{Hash: nav.Route{View: nav.ViewSignup}.Hash(), Label: "Bli medlem"},
			{Hash: nav.Route{View: nav.ViewPremiumLogin}.Hash(), Label: "Premium"},
		}
	case screen.KindLogin:
		other := tui.Link{Hash: nav.Route{View: nav.ViewSignup}.Hash(), Label: "Inget konto? Bli medlem"}
		if m.screen.Form.Mode == nav.ModeSignUp {
			other = tui.Link{Hash: nav.Route{View: nav.ViewLogin}.Hash(), Label: "Har du ett konto? Logga in"}
		}
		return []tui.Link{other, {Hash: nav.Home.Hash(), Label: "Tillbaka till start"}}
	}
	return nil
}

// focusRing is the keyboard focus order: sidebar first, then the body.
func (m *AppModel) focusRing() []tui.Link {
	return append(m.sidebar(), m.bodyLinks()...)
}

// CycleFocusForward moves focus to the next link, wrapping around to the
// first link after the last.
func (m *AppModel) CycleFocusForward() {
	ring := m.focusRing()
	if len(ring) == 0 {
		return
	}
	idx := m.focusedIndex(ring)
	m.focused = ring[(idx+1)%len(ring)].Hash
}

// CycleFocusBackward moves focus to the previous link, wrapping around to
// the last link before the first.
func (m *AppModel) CycleFocusBackward() {
	ring := m.focusRing()
	if len(ring) == 0 {
		return
	}
	idx := m.focusedIndex(ring)
	if idx < 0 {
		idx = 0
	}
	m.focused = ring[(idx-1+len(ring))%len(ring)].Hash
}

// FocusLink sets focus to the link for hash. Hashes not on the current
// screen leave focus unchanged.
func (m *AppModel) FocusLink(hash string) {
	for _, l := range m.focusRing() {
		if l.Hash == hash {
			m.focused = hash
			return
		}
	}
}

// followFocused navigates to the focused link, if any.
func (m *AppModel) followFocused() {
	ring := m.focusRing()
	if idx := m.focusedIndex(ring); idx >= 0 {
		m.follow(ring[idx].Hash)
	}
}

// follow navigates to hash through the synchronizer, like clicking an
// in-app link.
func (m *AppModel) follow(hash string) {
	m.sync.NavigateTo(nav.Parse(hash))
}

// focusedIndex returns the position of the focused link in ring, or -1.
func (m *AppModel) focusedIndex(ring []tui.Link) int {
	for i, l := range ring {
		if l.Hash == m.focused {
			return i
		}
	}
	return -1
}

func markFocus(links []tui.Link, hash string) []tui.Link {
	for i := range links {
		links[i].Focused = links[i].Hash == hash
	}
	return links
}
