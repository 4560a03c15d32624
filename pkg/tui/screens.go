package tui

import (
	"fmt"
	"strings"

	"gitlab.com/horizonten/gemenskap/pkg/components"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
)

var experts = []struct{ name, field string }{
	{"Amina Yusuf", "Leg. psykolog, oro och stress"},
	{"Jonas Berg", "Kurator, relationer"},
	{"Lena Holm", "Sömncoach"},
	{"Erik Sand", "Studie- och karriärvägledare"},
}

// viewContent returns the main-area lines for the routed view.
func (r Renderer) viewContent(f Frame, st styles, width int) []string {
	route := f.Screen.Route
	lines := []string{st.title.Render(route.View.Title()), ""}

	switch route.View {
	case nav.ViewWelcome:
		name := "medlem"
		if f.Profile != nil && f.Profile.DisplayName != "" {
			name = f.Profile.DisplayName
		}
		lines = append(lines, paragraph(st, fmt.Sprintf("Hej %s, välkommen tillbaka till gemenskapen.", name), width)...)
		lines = append(lines, "")
		lines = append(lines, paragraph(st, "Använd menyn till vänster för att se din översikt, prata i chatten eller hitta en expert.", width)...)

	case nav.ViewDashboard:
		if f.Profile != nil {
			lines = append(lines,
				st.dim.Render("Namn:   ")+st.text.Render(f.Profile.DisplayName),
				st.dim.Render("E-post: ")+st.text.Render(f.Profile.Email),
				st.dim.Render("Roll:   ")+st.text.Render(string(f.Profile.Role)),
			)
		} else {
			lines = append(lines, st.dim.Render("Profilen laddas…"))
		}
		lines = append(lines, "", st.dim.Render(fmt.Sprintf("Steg i bakåthistoriken: %d", len(f.Stack))))

	case nav.ViewChat:
		if route.Topic != "" {
			label := route.Topic
			for _, l := range f.Links {
				if l.Active {
					label = l.Label
				}
			}
			lines = append(lines, st.accent.Render("Ämne: "+label), "")
			lines = append(lines, paragraph(st, "Samtalet visas här när du är ansluten till chatten.", width)...)
			lines = append(lines, "")
		} else {
			lines = append(lines, paragraph(st, "Välj ett ämne för att gå med i samtalet.", width)...)
			lines = append(lines, "")
		}
		lines = append(lines, r.links(f.Links, st, width)...)

	case nav.ViewExperts:
		for _, e := range experts {
			lines = append(lines, st.text.Render(e.name)+st.dim.Render("  "+components.Ellipsize(e.field, width-len(e.name)-2)))
		}

	case nav.ViewAdmin:
		lines = append(lines, st.accent.Render("Bakåtstack"))
		for i, rt := range f.Stack {
			lines = append(lines, st.text.Render(fmt.Sprintf("%2d  %s", i, routeLine(rt))))
		}
		lines = append(lines, "", st.accent.Render("Webbläsarhistorik"))
		for i, url := range f.History {
			marker := "  "
			if i == f.HistoryIndex {
				marker = "▸ "
			}
			if url == "" {
				url = "(rot)"
			}
			lines = append(lines, st.text.Render(marker+url))
		}
	}
	return lines
}

func (r Renderer) renderLanding(f Frame, st styles, height int) string {
	width := min(f.Width-4, 60)
	lines := []string{
		st.title.Render(brand),
		"",
	}
	lines = append(lines, paragraph(st, "En trygg plats att prata, lära och få stöd. Logga in eller bli medlem för att fortsätta.", width)...)
	lines = append(lines, "")
	lines = append(lines, r.links(f.Links, st, width)...)
	return fill(lines, f.Width, height)
}

func renderSplash(f Frame, st styles, height int) string {
	width := min(f.Width-4, 60)
	lines := []string{st.accent.Render("Horizonten Premium"), ""}
	lines = append(lines, paragraph(st, "Premium ger dig direktkontakt med våra experter och tillgång till alla samtalsämnen.", width)...)
	lines = append(lines, "", st.dim.Render("Tryck enter för att logga in"))
	return fill(lines, f.Width, height)
}

func (r Renderer) renderLogin(f Frame, st styles, height int) string {
	width := min(f.Width-4, 50)
	lines := []string{st.title.Render(f.Form.Title), ""}
	lines = append(lines, f.Form.Fields...)
	lines = append(lines, "")
	switch {
	case f.Form.Busy:
		lines = append(lines, st.dim.Render("Vänta…"))
	case f.Form.Error != "":
		lines = append(lines, st.err.Render(components.Ellipsize(f.Form.Error, width)))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, "")
	lines = append(lines, r.links(f.Links, st, width)...)
	box := st.focused.Width(width).Render(strings.Join(lines, "\n"))
	return fill([]string{box}, f.Width, height)
}

func renderAccessDenied(f Frame, st styles, height int) string {
	lines := []string{
		st.err.Render("Ingen behörighet"),
		"",
		st.text.Render(fmt.Sprintf("Sidan %s kräver administratörsbehörighet.", f.Screen.Route.Hash())),
		st.dim.Render("Tryck b för att gå tillbaka"),
	}
	return fill(lines, f.Width, height)
}

func renderLoading(f Frame, st styles, height int) string {
	return fill([]string{st.dim.Render("Laddar…")}, f.Width, height)
}

func renderHelp(f Frame, st styles, height int) string {
	lines := []string{st.title.Render("Tangenter"), "", f.Help}
	return st.focused.Width(f.Width - 2).Height(height - 2).MaxHeight(height).Render(strings.Join(lines, "\n"))
}
