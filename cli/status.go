package cli

import (
	"context"
	"text/tabwriter"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"

	"github.com/spf13/cobra"
)

type StatusOptions struct {
	*RootOptions
}

var _ genericclioptions.CmdOptions = &StatusOptions{}

func (o *StatusOptions) Run(ctx context.Context, _ ...string) error {
	r, closePool, err := o.openRunner()
	if err != nil {
		return err
	}
	defer func() {
		if err := closePool(); err != nil {
			o.Errorf("failure closing pool: %v\n", err)
		}
	}()

	statuses, err := r.Status(ctx)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		o.Infof("no migrations discovered\n")
		return nil
	}

	w := tabwriter.NewWriter(o.Out, 0, 0, 2, ' ', 0)

	defer func() { _ = w.Flush() }()

	if _, err := w.Write([]byte("VERSION\tDESCRIPTION\tAPPLIED\tAPPLIED AT\n")); err != nil {
		return errf("write status header: %w", err)
	}

	for _, s := range statuses {
		applied, appliedAt := "pending", ""
		if s.Applied {
			applied, appliedAt = "applied", s.AppliedAt.Format("2006-01-02 15:04:05")
		}

		if _, err := w.Write([]byte(s.Version + "\t" + s.Description + "\t" + applied + "\t" + appliedAt + "\n")); err != nil {
			return errf("write status row: %w", err)
		}
	}

	return nil
}

func newStatusCommand(defaults *RootOptions) *cobra.Command {
	o := &StatusOptions{RootOptions: defaults}

	return &cobra.Command{
		Use:   "status",
		Short: "Show each discovered migration and whether it is applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}
}
