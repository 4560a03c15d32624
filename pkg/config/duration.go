// Package config provides TOML-based configuration for gemenskap.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration wraps time.Duration with TOML-friendly string parsing.
// Accepts Go duration strings ("90s", "15m", "12h") plus a whole-day form
// ("30d") for session lifetimes.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		if n < 0 {
			return fmt.Errorf("negative duration %q not allowed", s)
		}
		d.Duration = time.Duration(n) * 24 * time.Hour
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	if d.Duration > 0 && d.Duration%(24*time.Hour) == 0 {
		return []byte(strconv.Itoa(int(d.Duration/(24*time.Hour))) + "d"), nil
	}
	return []byte(d.Duration.String()), nil
}
