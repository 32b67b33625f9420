package cli

import (
	"context"
	"strings"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"
	"github.com/orolab/orodb/migrate"

	"github.com/spf13/cobra"
)

type CreateOptions struct {
	*RootOptions
}

var _ genericclioptions.CmdOptions = &CreateOptions{}

// Validate skips the root validation: create never connects, so the
// password flags are irrelevant.
func (o *CreateOptions) Validate() error { return nil }

func (o *CreateOptions) Run(_ context.Context, args ...string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return errf("create: a migration description is required")
	}

	path, err := migrate.Create(o.Settings.MigrationsDir, description)
	if err != nil {
		return err
	}

	o.Printf("created %s\n", path)

	return nil
}

func newCreateCommand(defaults *RootOptions) *cobra.Command {
	o := &CreateOptions{RootOptions: defaults}

	return &cobra.Command{
		Use:   "create <description>...",
		Short: "Scaffold the next migration artifact",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}
}
