package cli

import (
	"context"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"

	"github.com/spf13/cobra"
)

type BootstrapOptions struct {
	*RootOptions
}

var _ genericclioptions.CmdOptions = &BootstrapOptions{}

func (o *BootstrapOptions) Run(ctx context.Context, _ ...string) error {
	r, closePool, err := o.openRunner()
	if err != nil {
		return err
	}
	defer func() {
		if err := closePool(); err != nil {
			o.Errorf("failure closing pool: %v\n", err)
		}
	}()

	version, err := r.Bootstrap(ctx)
	if err != nil {
		return err
	}

	o.Printf("bootstrapped ledger at version %s\n", version)

	return nil
}

func newBootstrapCommand(defaults *RootOptions) *cobra.Command {
	o := &BootstrapOptions{RootOptions: defaults}

	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Initialize the ledger for a pre-existing baseline schema",
		Long: "Bootstrap records the earliest migration as applied without running it,\n" +
			"for databases whose baseline schema was created outside orodb.\n" +
			"It refuses to run against a non-empty ledger.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}
}
