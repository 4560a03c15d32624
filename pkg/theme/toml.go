package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the on-disk layout of a palette file. With Extends set,
// colours left out are taken from the named registered theme.
type thTOMLTheme struct {
	Name    string `toml:"name"`
	Extends string `toml:"extends,omitempty"`
	Base    struct {
		Foreground string `toml:"foreground"`
		Dim        string `toml:"dim"`
		Accent     string `toml:"accent"`
	} `toml:"base"`
	Chrome struct {
		Border      string `toml:"border"`
		BorderFocus string `toml:"border_focus"`
		Title       string `toml:"title"`
		AddressBar  string `toml:"address_bar"`
	} `toml:"chrome"`
	Feedback struct {
		Success string `toml:"success"`
		Warn    string `toml:"warn"`
		Error   string `toml:"error"`
	} `toml:"feedback"`
	Help struct {
		Key  string `toml:"key"`
		Desc string `toml:"desc"`
	} `toml:"help"`
}

// thColor ties a TOML key to its slot in the file and in the Theme.
type thColor struct {
	key  string
	file *string
	th   *string
}

func thColors(tt *thTOMLTheme, t *Theme) []thColor {
	return []thColor{
		{"base.foreground", &tt.Base.Foreground, &t.Foreground},
		{"base.dim", &tt.Base.Dim, &t.Dim},
		{"base.accent", &tt.Base.Accent, &t.Accent},
		{"chrome.border", &tt.Chrome.Border, &t.Border},
		{"chrome.border_focus", &tt.Chrome.BorderFocus, &t.BorderFocus},
		{"chrome.title", &tt.Chrome.Title, &t.Title},
		{"chrome.address_bar", &tt.Chrome.AddressBar, &t.AddressBar},
		{"feedback.success", &tt.Feedback.Success, &t.Success},
		{"feedback.warn", &tt.Feedback.Warn, &t.Warn},
		{"feedback.error", &tt.Feedback.Error, &t.Error},
		{"help.key", &tt.Help.Key, &t.HelpKey},
		{"help.desc", &tt.Help.Desc, &t.HelpDesc},
	}
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFile reads a TOML palette from disk.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	return LoadFromTOML(data)
}

// LoadFromTOML parses a palette. Every colour must be present unless the
// file extends a registered theme.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	var t Theme
	if tt.Extends != "" {
		base, ok := Lookup(tt.Extends)
		if !ok {
			return Theme{}, fmt.Errorf("theme: %q extends unknown theme %q", tt.Name, tt.Extends)
		}
		t = base
	}
	t.Name = tt.Name
	for _, c := range thColors(&tt, &t) {
		if *c.file != "" {
			*c.th = *c.file
		}
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// SaveToTOML serializes a theme with every colour spelled out.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{Name: t.Name}
	for _, c := range thColors(&tt, &t) {
		*c.file = *c.th
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thValidateTheme checks that a name is set and every colour is #RRGGBB.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	for _, c := range thColors(&thTOMLTheme{}, &t) {
		switch v := *c.th; {
		case v == "":
			return fmt.Errorf("theme: missing required field %q", c.key)
		case !thHexColorRegex.MatchString(v):
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", v, c.key)
		}
	}
	return nil
}
