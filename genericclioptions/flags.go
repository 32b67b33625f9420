package genericclioptions

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// MarkAllFlagsHidden hides every local and inherited flag of cmd, e.g.
// for commands like version that take no options.
func MarkAllFlagsHidden(cmd *cobra.Command) {
	hide := func(f *pflag.Flag) { f.Hidden = true }

	cmd.Flags().VisitAll(hide)
	cmd.InheritedFlags().VisitAll(hide)
}
