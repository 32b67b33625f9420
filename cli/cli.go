// Package cli assembles the orodb command tree.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/config"
	"github.com/orolab/orodb/genericclioptions"
	"github.com/orolab/orodb/input"
	"github.com/orolab/orodb/migrate"
	"github.com/orolab/orodb/pool"

	"github.com/spf13/cobra"
)

// Version is the orodb build version, injected at build time.
var Version = "0.0.0-dev"

// RootOptions carries the flags and resolved configuration shared by all
// orodb subcommands.
type RootOptions struct {
	*genericclioptions.IOStreams

	ConfigPath     string
	MigrationsDir  string
	PasswordPrompt bool

	Settings *config.Settings
}

var _ genericclioptions.BaseOptions = &RootOptions{}

// Complete loads the settings and applies flag overrides. With the
// password prompt enabled and no configured password, the password is
// read interactively.
func (o *RootOptions) Complete() error {
	s, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	if len(o.MigrationsDir) > 0 {
		s.MigrationsDir = o.MigrationsDir
	}

	if o.PasswordPrompt && len(s.Password) == 0 {
		fi, err := o.In.Stat()
		if err != nil {
			return errf("stat input: %v", err)
		}

		if input.IsPipedOrRedirected(fi) {
			return errf("password prompt requires an interactive terminal")
		}

		p, err := input.PromptPassword(o.ErrOut, int(o.In.Fd()))
		if err != nil {
			return err
		}

		s.Password = string(p)
	}

	o.Settings = s

	o.Debugf("using migrations dir %q (config file: %q)\n", s.MigrationsDir, s.Path())

	return nil
}

func (o *RootOptions) Validate() error {
	if o.PasswordPrompt && o.Settings.Driver == config.DriverSQLite {
		return errf("the sqlite driver does not use a password")
	}

	return nil
}

// openRunner opens the configured pool and wraps it in a migration
// runner. The returned closer releases the pool.
func (o *RootOptions) openRunner() (*migrate.Runner, func() error, error) {
	p, err := pool.Open(o.Settings)
	if err != nil {
		return nil, nil, err
	}

	r := migrate.NewRunner(p.DB(), dialectFor(o.Settings.Driver), migrate.Dir(o.Settings.MigrationsDir))

	return r, p.Close, nil
}

func dialectFor(driver string) migrate.Dialect {
	if driver == config.DriverSQLite {
		return migrate.SQLiteDialect{}
	}

	return migrate.PostgreSQLDialect{}
}

// NewDefaultOroDBCommand creates the orodb root command with its
// subcommands, reading and writing through the given streams.
func NewDefaultOroDBCommand(iostreams *genericclioptions.IOStreams, args []string) *cobra.Command {
	defaults := &RootOptions{IOStreams: iostreams}

	cmd := &cobra.Command{
		Use:   "orodb",
		Short: "schema migrations for your database",
		Long: "orodb discovers versioned migration artifacts, tracks the applied set in a\n" +
			"ledger table, and applies or reverts them in strict order.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetFlags(0)
			log.SetOutput(io.Discard)

			if iostreams.Verbose {
				log.SetOutput(os.Stderr)
			}

			clierror.DebugMode(iostreams.Verbose)
		},
	}

	cmd.SetArgs(args)
	cmd.SetOut(iostreams.Out)
	cmd.SetErr(iostreams.ErrOut)

	cmd.PersistentFlags().BoolVarP(&iostreams.Verbose, "verbose", "v", false,
		"enable verbose output")
	cmd.PersistentFlags().StringVar(&defaults.ConfigPath, "config", "",
		"path to the orodb config file (default: '~/.orodb.toml')")
	cmd.PersistentFlags().StringVarP(&defaults.MigrationsDir, "dir", "d", "",
		"directory holding migration artifacts (overrides the configured value)")
	cmd.PersistentFlags().BoolVarP(&defaults.PasswordPrompt, "password-prompt", "W", false,
		"prompt for the database password before connecting")

	cmd.AddCommand(
		newStatusCommand(defaults),
		newUpCommand(defaults),
		newDownCommand(defaults),
		newBootstrapCommand(defaults),
		newCreateCommand(defaults),
		newPingCommand(defaults),
		newVersionCommand(defaults),
	)

	return cmd
}

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}
