package cli

import (
	"context"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"

	"github.com/spf13/cobra"
)

type UpOptions struct {
	*RootOptions

	dryRun bool
}

var _ genericclioptions.CmdOptions = &UpOptions{}

func (o *UpOptions) Run(ctx context.Context, _ ...string) error {
	r, closePool, err := o.openRunner()
	if err != nil {
		return err
	}
	defer func() {
		if err := closePool(); err != nil {
			o.Errorf("failure closing pool: %v\n", err)
		}
	}()

	applied, err := r.Up(ctx, o.dryRun)

	verb := "applied"
	if o.dryRun {
		verb = "would apply"
	}

	for _, version := range applied {
		o.Printf("%s %s\n", verb, version)
	}

	if err != nil {
		return err
	}

	if len(applied) == 0 {
		o.Infof("nothing to apply; schema is up to date\n")
	}

	return nil
}

func newUpCommand(defaults *RootOptions) *cobra.Command {
	o := &UpOptions{RootOptions: defaults}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations in version order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}

	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false,
		"report the migrations that would be applied without running them")

	return cmd
}
