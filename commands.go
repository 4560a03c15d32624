package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/components"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
	"gitlab.com/horizonten/gemenskap/pkg/profiles"
)

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <hash>",
		Short: "Show how an address resolves",
		Long: `Parses an address the way the portal does and prints the resulting
view, topic, canonical hash and the screen it asks for.

Example:
  gemenskap route '#chat?topic=s%C3%B6mn'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return printRoute(out, nav.Parse(args[0]), isTerminal(out))
		},
	}
}

// describeIntent names the screen a route asks for.
func describeIntent(in nav.Intent) string {
	switch v := in.(type) {
	case nav.LoginForm:
		return fmt.Sprintf("login (%s, %s)", v.Flavor, v.Mode)
	case nav.App:
		return "app"
	default:
		return "landing"
	}
}

func printRoute(w io.Writer, r nav.Route, styled bool) error {
	rows := [][2]string{
		{"view", string(r.View)},
		{"title", r.View.Title()},
		{"topic", r.Topic},
		{"hash", r.Hash()},
		{"screen", describeIntent(nav.IntentFor(r))},
		{"after login", nav.IntentFor(r).PostLogin().Hash()},
	}

	key := lipgloss.NewStyle()
	val := lipgloss.NewStyle()
	if styled {
		key = key.Foreground(lipgloss.Color("#94a3b8"))
		val = val.Bold(true)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s %s\n", key.Render(components.PadRight(row[0], 12)), val.Render(row[1])); err != nil {
			return err
		}
	}
	return nil
}

func newProfilesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage member profiles",
		Long: `Manage the member profiles the portal signs in against.

Available subcommands:
  import - Create profiles from a YAML fixture
  add    - Create a single profile
  list   - List stored profiles`,
	}
	cmd.AddCommand(newProfilesImportCmd(flags))
	cmd.AddCommand(newProfilesAddCmd(flags))
	cmd.AddCommand(newProfilesListCmd(flags))
	return cmd
}

func newProfilesImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create profiles from a YAML fixture",
		Long: `Creates every profile in the fixture that does not exist yet.

Fixture format:
  profiles:
    - email: anna@example.se
      name: Anna
      role: admin
      password: hemligt123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			seeds, err := profiles.ReadSeeds(f)
			if err != nil {
				return err
			}
			return withProfiles(cmd, flags, func(store profiles.Store) error {
				n, err := profiles.Import(cmd.Context(), store, seeds)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d profiles\n", n, len(seeds))
				return nil
			})
		},
	}
}

func newProfilesAddCmd(flags *globalFlags) *cobra.Command {
	var seed profiles.Seed
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a single profile",
		Long: `Creates one profile. Without --password the password is read from the
terminal without echo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed.Role != "" && string(auth.NormalizeRole(seed.Role)) != seed.Role {
				return fmt.Errorf("unknown role %q", seed.Role)
			}
			if seed.Password == "" {
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				seed.Password = pw
			}
			return withProfiles(cmd, flags, func(store profiles.Store) error {
				n, err := profiles.Import(cmd.Context(), store, []profiles.Seed{seed})
				if err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("%s: %w", seed.Email, profiles.ErrExists)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", seed.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seed.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&seed.Name, "name", "", "Display name (defaults to the email)")
	cmd.Flags().StringVar(&seed.Role, "role", "", "Role: medlem, moderator or admin")
	cmd.Flags().StringVar(&seed.Password, "password", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword prompts on the controlling terminal. Piped input is read as
// a single line.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		fmt.Fprint(cmd.ErrOrStderr(), "Lösenord: ")
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(io.LimitReader(in, 1024))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(string(b), "\r\n")
	if pw == "" {
		return "", errors.New("a password is required")
	}
	return pw, nil
}

var listWidths = []int{32, 10}

func newProfilesListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfiles(cmd, flags, func(store profiles.Store) error {
				rows, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, p := range rows {
					fmt.Fprintln(out, components.Columns(listWidths,
						p.Email, string(auth.NormalizeRole(p.Role)), p.DisplayName))
				}
				return nil
			})
		},
	}
}

// withProfiles opens the configured profile store for one command.
func withProfiles(cmd *cobra.Command, flags *globalFlags, fn func(profiles.Store) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	store, err := openProfiles(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open profiles: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gemenskap %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
