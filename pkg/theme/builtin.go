package theme

func thRegisterBuiltins() {
	Register(thHorisontTheme())
	Register(thSkymningTheme())
}

// thHorisontTheme is the calm teal palette of the member portal.
func thHorisontTheme() Theme {
	return Theme{
		Name:       "horisont",
		Foreground: "#e6edf3",
		Dim:        "#7d8590",
		Accent:     "#2dd4bf",

		Border:      "#30363d",
		BorderFocus: "#2dd4bf",
		Title:       "#f0f6fc",
		AddressBar:  "#93c5fd",

		Success: "#4ade80",
		Warn:    "#fbbf24",
		Error:   "#f87171",

		HelpKey:  "#2dd4bf",
		HelpDesc: "#7d8590",
	}
}

// thSkymningTheme is a warm dusk palette used by the premium splash.
func thSkymningTheme() Theme {
	return Theme{
		Name:       "skymning",
		Foreground: "#f5e9e2",
		Dim:        "#8c7b86",
		Accent:     "#f59e0b",

		Border:      "#3f2f45",
		BorderFocus: "#f59e0b",
		Title:       "#fde68a",
		AddressBar:  "#c4b5fd",

		Success: "#86efac",
		Warn:    "#fcd34d",
		Error:   "#fca5a5",

		HelpKey:  "#f59e0b",
		HelpDesc: "#8c7b86",
	}
}
