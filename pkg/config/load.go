package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appDir = "gemenskap"

// Load reads the first config file found on the search path:
//  1. $XDG_CONFIG_HOME/gemenskap/config.toml
//  2. ~/.config/gemenskap/config.toml
//
// Without one it returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	if path, ok := findConfigFile(); ok {
		return LoadFromFile(path)
	}
	return finish(DefaultConfig(), toml.MetaData{}), nil
}

// LoadFromFile reads configuration from path. A missing file is not an
// error and yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(expandHome(path))
	if os.IsNotExist(err) {
		return finish(DefaultConfig(), toml.MetaData{}), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML on top of the defaults. Keys the portal does
// not know are rejected so typos surface at startup.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return finish(cfg, md), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(xdgHome("XDG_STATE_HOME", home, ".local", "state"), appDir)

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			StateDir: stateDir,
		},
		Navigation: NavigationConfig{
			HistoryDepth:  50,
			EchoPushState: true,
		},
		Auth: AuthConfig{
			Backend:       "sqlite",
			SQLitePath:    filepath.Join(stateDir, "profiles.db"),
			SessionTTL:    Duration{30 * 24 * time.Hour},
			WatchInterval: Duration{time.Minute},
		},
		Theme: ThemeConfig{
			Name: "horisont",
		},
	}
}

// LogFile is where the portal writes its log.
func (c *Config) LogFile() string {
	return filepath.Join(c.General.StateDir, "gemenskap.log")
}

// TokenFile is where the session token is kept between runs.
func (c *Config) TokenFile() string {
	return filepath.Join(c.General.StateDir, "session")
}

// finish applies environment overrides and derives dependent paths. The
// SQLite file follows state_dir unless the file set sqlite_path itself.
func finish(cfg *Config, md toml.MetaData) *Config {
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			o.apply(cfg, v)
		}
	}
	cfg.General.StateDir = expandHome(cfg.General.StateDir)
	if md.IsDefined("general", "state_dir") && !md.IsDefined("auth", "sqlite_path") {
		cfg.Auth.SQLitePath = filepath.Join(cfg.General.StateDir, "profiles.db")
	}
	cfg.Auth.SQLitePath = expandHome(cfg.Auth.SQLitePath)
	cfg.Theme.File = expandHome(cfg.Theme.File)
	return cfg
}

var envOverrides = []struct {
	name  string
	apply func(*Config, string)
}{
	{"GEMENSKAP_LOG_LEVEL", func(c *Config, v string) { c.General.LogLevel = v }},
	{"GEMENSKAP_THEME", func(c *Config, v string) { c.Theme.Name = v }},
	{"GEMENSKAP_REDIS_URL", func(c *Config, v string) { c.Auth.RedisURL = v }},
	{"GEMENSKAP_DATABASE_URL", func(c *Config, v string) {
		c.Auth.DatabaseURL = v
		c.Auth.Backend = "postgres"
	}},
}

func findConfigFile() (string, bool) {
	home, _ := os.UserHomeDir()
	candidates := []string{filepath.Join(xdgHome("XDG_CONFIG_HOME", home, ".config"), appDir, "config.toml")}
	// An explicit XDG_CONFIG_HOME still falls back to ~/.config.
	if fallback := filepath.Join(home, ".config", appDir, "config.toml"); fallback != candidates[0] {
		candidates = append(candidates, fallback)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// xdgHome returns the directory named by env, or home joined with def.
func xdgHome(env, home string, def ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return filepath.Join(append([]string{home}, def...)...)
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
