package genericclioptions

import "context"

// BaseOptions defines the shared setup and validation steps of a command.
type BaseOptions interface {
	Complete() error // Complete fills in defaults and derived values.
	Validate() error // Validate checks the options before running.
}

// CmdOptions extends BaseOptions with the command logic itself.
type CmdOptions interface {
	BaseOptions

	Run(ctx context.Context, args ...string) error
}

// ExecuteCommand runs cmd through its full lifecycle: complete, validate,
// run.
func ExecuteCommand(ctx context.Context, cmd CmdOptions, args ...string) error {
	if err := cmd.Complete(); err != nil {
		return err
	}

	if err := cmd.Validate(); err != nil {
		return err
	}

	return cmd.Run(ctx, args...)
}
