package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config is the top-level configuration file layout.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Navigation NavigationConfig `toml:"navigation"`
	Auth       AuthConfig       `toml:"auth"`
	Theme      ThemeConfig      `toml:"theme"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	// StateDir holds the log file, the session token and the local
	// profile database.
	StateDir string `toml:"state_dir"`
}

// NavigationConfig tunes the navigation core.
type NavigationConfig struct {
	// HistoryDepth caps the in-app back stack. 0 means unbounded.
	HistoryDepth int `toml:"history_depth"`
	// EchoPushState makes programmatic navigation fire hashchange, the way
	// legacy hash routers behave.
	EchoPushState bool `toml:"echo_push_state"`
	// StartHash is the address the portal opens at when none is given on
	// the command line.
	StartHash string `toml:"start_hash"`
}

// AuthConfig selects the profile and session backends.
type AuthConfig struct {
	// Backend is "sqlite" (local file) or "postgres".
	Backend     string `toml:"backend"`
	SQLitePath  string `toml:"sqlite_path"`
	DatabaseURL string `toml:"database_url"`
	// RedisURL enables the Redis session store; empty keeps sessions in
	// the profile database.
	RedisURL   string   `toml:"redis_url"`
	SessionTTL Duration `toml:"session_ttl"`
	// WatchInterval is how often the active session is re-checked for
	// remote revocation. 0 turns the check off.
	WatchInterval Duration `toml:"watch_interval"`
}

// ThemeConfig selects the colour theme.
type ThemeConfig struct {
	Name string `toml:"name"`
	// File optionally points at a TOML palette overriding Name.
	File string `toml:"file"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.General.LogLevel); err != nil {
		return err
	}
	if c.Navigation.HistoryDepth < 0 {
		return fmt.Errorf("navigation.history_depth must be >= 0, got %d", c.Navigation.HistoryDepth)
	}
	switch c.Auth.Backend {
	case "sqlite":
		if c.Auth.SQLitePath == "" {
			return fmt.Errorf("auth.sqlite_path is required for the sqlite backend")
		}
	case "postgres":
		if c.Auth.DatabaseURL == "" {
			return fmt.Errorf("auth.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("auth.backend must be sqlite or postgres, got %q", c.Auth.Backend)
	}
	if c.Auth.SessionTTL.Duration <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Auth.WatchInterval.Duration < 0 {
		return fmt.Errorf("auth.watch_interval must be >= 0, got %s", c.Auth.WatchInterval.Duration)
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("general.log_level: unknown level %q", name)
	}
}
