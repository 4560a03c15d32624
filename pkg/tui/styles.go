package tui

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/horizonten/gemenskap/pkg/theme"
)

// styles are the lipgloss styles derived from one palette.
type styles struct {
	text      lipgloss.Style
	dim       lipgloss.Style
	accent    lipgloss.Style
	title     lipgloss.Style
	address   lipgloss.Style
	success   lipgloss.Style
	warn      lipgloss.Style
	err       lipgloss.Style
	panel     lipgloss.Style
	focused   lipgloss.Style
	link      lipgloss.Style
	linkFocus lipgloss.Style
	linkOn    lipgloss.Style
}

func newStyles(th theme.Theme) styles {
	c := func(hex string) lipgloss.Color { return lipgloss.Color(hex) }
	return styles{
		text:    lipgloss.NewStyle().Foreground(c(th.Foreground)),
		dim:     lipgloss.NewStyle().Foreground(c(th.Dim)),
		accent:  lipgloss.NewStyle().Foreground(c(th.Accent)).Bold(true),
		title:   lipgloss.NewStyle().Foreground(c(th.Title)).Bold(true),
		address: lipgloss.NewStyle().Foreground(c(th.AddressBar)),
		success: lipgloss.NewStyle().Foreground(c(th.Success)),
		warn:    lipgloss.NewStyle().Foreground(c(th.Warn)),
		err:     lipgloss.NewStyle().Foreground(c(th.Error)).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(th.Border)).
			Padding(0, 1),
		focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(th.BorderFocus)).
			Padding(0, 1),
		link:      lipgloss.NewStyle().Foreground(c(th.Foreground)),
		linkFocus: lipgloss.NewStyle().Foreground(c(th.Accent)).Underline(true),
		linkOn:    lipgloss.NewStyle().Foreground(c(th.Accent)).Bold(true),
	}
}
