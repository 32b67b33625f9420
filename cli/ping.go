package cli

import (
	"context"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"
	"github.com/orolab/orodb/pool"

	"github.com/spf13/cobra"
)

type PingOptions struct {
	*RootOptions
}

var _ genericclioptions.CmdOptions = &PingOptions{}

func (o *PingOptions) Run(ctx context.Context, _ ...string) error {
	p, err := pool.Open(o.Settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			o.Errorf("failure closing pool: %v\n", err)
		}
	}()

	if err := p.Ping(ctx); err != nil {
		return err
	}

	o.Printf("database is reachable (%s)\n", p.Driver())

	return nil
}

func newPingCommand(defaults *RootOptions) *cobra.Command {
	o := &PingOptions{RootOptions: defaults}

	return &cobra.Command{
		Use:   "ping",
		Short: "Verify database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}
}
