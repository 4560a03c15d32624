// Package theme holds the portal's colour palettes.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// DefaultName is the palette used when a requested one is unknown.
const DefaultName = "horisont"

// Theme defines the complete color palette for the portal.
type Theme struct {
	Name string

	// Base colors
	Foreground string // hex color e.g. "#e6edf3"
	Dim        string // secondary text, hints
	Accent     string // highlights, active sidebar entry

	// Shell chrome
	Border      string // unfocused panel borders
	BorderFocus string // focused panel border
	Title       string // header and panel titles
	AddressBar  string // hash shown in the header

	// Feedback
	Success string
	Warn    string
	Error   string

	// Help overlay
	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to DefaultName if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry[DefaultName]
}

// Lookup returns a named theme and whether it exists.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme under its lowercase name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
