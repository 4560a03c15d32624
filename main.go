// gemenskap is the terminal portal of the Horizonten community.
//
// It keeps the in-app back stack and the address bar in step while members
// move between the landing page, the login forms and the signed-in shell.
//
// Usage:
//
//	gemenskap [hash] [flags]
//	gemenskap route <hash>
//	gemenskap profiles import <file.yaml>
//	gemenskap profiles add --email <email> [--name <name>] [--role <role>]
//	gemenskap profiles list
//	gemenskap version
//
// Flags:
//
//	--config string  Path to configuration file (default: ~/.config/gemenskap/config.toml)
//	--verbose        Enable debug logging
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"gitlab.com/horizonten/gemenskap/pkg/app"
	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/config"
	"gitlab.com/horizonten/gemenskap/pkg/profiles"
	"gitlab.com/horizonten/gemenskap/pkg/session"
	"gitlab.com/horizonten/gemenskap/pkg/theme"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "gemenskap [hash]",
		Short: "Horizonten gemenskap terminal portal",
		Long: `gemenskap opens the Horizonten community portal in the terminal.

An optional address such as "#chat?topic=sleep" picks the starting view.
Without one the portal opens at navigation.start_hash, or the welcome view.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortal(cmd, flags, args)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to configuration file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRouteCmd())
	root.AddCommand(newProfilesCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the file named by --config, or the standard search path.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level, _ := config.ParseLevel(cfg.General.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openProfiles opens the configured profile backend, creating the SQLite
// file's directory when needed.
func openProfiles(ctx context.Context, cfg *config.Config) (*profiles.SQLStore, error) {
	if cfg.Auth.Backend == "postgres" {
		return profiles.OpenPostgres(ctx, cfg.Auth.DatabaseURL)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Auth.SQLitePath), 0o700); err != nil {
		return nil, fmt.Errorf("create profile directory: %w", err)
	}
	return profiles.OpenSQLite(ctx, cfg.Auth.SQLitePath)
}

// openSessions uses Redis when a URL is configured, and a table in the
// profile database otherwise.
func openSessions(ctx context.Context, cfg *config.Config, store *profiles.SQLStore, logger *slog.Logger) (session.Store, error) {
	if cfg.Auth.RedisURL == "" {
		logger.Debug("keeping sessions in the profile database", "backend", store.Dialect())
		return session.NewSQLStore(ctx, store.DB(), string(store.Dialect()))
	}
	return session.NewRedisStore(ctx, cfg.Auth.RedisURL)
}

func loadTheme(cfg *config.Config) (theme.Theme, error) {
	if cfg.Theme.File != "" {
		return theme.LoadFile(cfg.Theme.File)
	}
	return theme.Get(cfg.Theme.Name), nil
}

// portalOptions carries the navigation settings over to the app. The
// config spells an unbounded back stack as 0, the navigator as a negative
// depth.
func portalOptions(cfg *config.Config, start string) app.Options {
	opts := app.DefaultOptions()
	opts.StartHash = start
	opts.HistoryDepth = cfg.Navigation.HistoryDepth
	if opts.HistoryDepth == 0 {
		opts.HistoryDepth = -1
	}
	opts.EchoPushState = cfg.Navigation.EchoPushState
	return opts
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runPortal(cmd *cobra.Command, flags *globalFlags, args []string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if !isTerminal(os.Stdout) {
		return errors.New("gemenskap needs an interactive terminal; try 'gemenskap route' for scripting")
	}
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// The portal owns the screen, so logs only go to the file.
	if err := os.MkdirAll(cfg.General.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg, flags.verbose)

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	store, err := openProfiles(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open profiles: %w", err)
	}
	defer store.Close()

	sessions, err := openSessions(ctx, cfg, store, logger)
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	defer sessions.Close()

	provider := auth.NewLocalProvider(auth.LocalConfig{
		Profiles:   store,
		Sessions:   sessions,
		TokenPath:  cfg.TokenFile(),
		SessionTTL: cfg.Auth.SessionTTL.Duration,
		Logger:     logger,
	})
	go provider.Watch(ctx, cfg.Auth.WatchInterval.Duration)

	th, err := loadTheme(cfg)
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}

	start := cfg.Navigation.StartHash
	if len(args) == 1 {
		start = args[0]
	}

	zones := zone.New()
	defer zones.Close()

	opts := portalOptions(cfg, start)
	opts.Theme = th
	opts.Provider = provider
	opts.Profiles = provider
	opts.Zones = zones
	opts.Logger = logger
	opts.Context = ctx

	model := app.New(opts)
	logger.Info("starting portal", "version", version, "start", start, "theme", th.Name)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(app.AppModel); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return err
	}
	return nil
}
