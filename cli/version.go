package cli

import (
	"errors"

	"github.com/orolab/orodb/clierror"
	"github.com/orolab/orodb/genericclioptions"

	"github.com/spf13/cobra"
)

func newVersionCommand(defaults *RootOptions) *cobra.Command {
	cmd := cobra.Command{
		Use:                "version",
		Short:              "Show version",
		DisableFlagParsing: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return clierror.Check(func() error {
				if len(args) > 0 {
					return errors.New("version: command takes no arguments")
				}

				defaults.Printf("%s\n", Version)

				return nil
			}())
		},
	}

	genericclioptions.MarkAllFlagsHidden(&cmd)

	return &cmd
}
