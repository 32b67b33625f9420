package cli

import (
	"context"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"

	"github.com/spf13/cobra"
)

type DownOptions struct {
	*RootOptions

	steps int
}

var _ genericclioptions.CmdOptions = &DownOptions{}

func (o *DownOptions) Validate() error {
	if err := o.RootOptions.Validate(); err != nil {
		return err
	}

	if o.steps < 1 {
		return errf("--steps must be positive, got %d", o.steps)
	}

	return nil
}

func (o *DownOptions) Run(ctx context.Context, _ ...string) error {
	r, closePool, err := o.openRunner()
	if err != nil {
		return err
	}
	defer func() {
		if err := closePool(); err != nil {
			o.Errorf("failure closing pool: %v\n", err)
		}
	}()

	rolledBack, err := r.Down(ctx, o.steps)

	for _, version := range rolledBack {
		o.Printf("rolled back %s\n", version)
	}

	if err != nil {
		return err
	}

	if len(rolledBack) == 0 {
		o.Infof("nothing to roll back; ledger is empty\n")
	}

	return nil
}

func newDownCommand(defaults *RootOptions) *cobra.Command {
	o := &DownOptions{RootOptions: defaults}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recently applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}

	cmd.Flags().IntVarP(&o.steps, "steps", "n", 1,
		"number of migrations to roll back")

	return cmd
}
