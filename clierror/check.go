// Package clierror turns orodb errors into user-facing CLI messages and
// exit behavior.
package clierror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/orolab/orodb/dberrors"
)

const DefaultErrorExitCode = 1

var (
	// errHandler handles cli errors; fatal by default.
	errHandler = FatalErrHandler

	// errWriter receives cli error messages.
	errWriter io.Writer = os.Stderr

	// debugMode enables printing raw error values.
	debugMode bool
)

// SetErrorHandler overrides the default [FatalErrHandler].
func SetErrorHandler(f func(string, int)) {
	errHandler = f
}

// ResetErrorHandler restores the default error handler.
func ResetErrorHandler() {
	errHandler = FatalErrHandler
}

// SetErrWriter overrides the default error output writer [os.Stderr].
func SetErrWriter(w io.Writer) {
	errWriter = w
}

// ResetErrWriter restores the default error output writer.
func ResetErrWriter() {
	errWriter = os.Stderr
}

// DebugMode controls whether raw error values are printed alongside the
// friendly message.
func DebugMode(enabled bool) {
	debugMode = enabled
}

// FatalErrHandler prints msg and exits with the given code.
func FatalErrHandler(msg string, code int) {
	printError(msg)

	//nolint:revive // intentional exit after a fatal error.
	os.Exit(code)
}

// PrintErrHandler prints msg without exiting.
func PrintErrHandler(msg string, _ int) {
	printError(msg)
}

func printError(msg string) {
	if len(msg) == 0 {
		return
	}

	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	fmt.Fprint(errWriter, msg)
}

func debugPrint(err error) {
	if !debugMode {
		return
	}

	fmt.Fprintf(errWriter, "DEBUG %+v\n", err)
}

// Check prints a user-friendly message for err and invokes the configured
// error handler. With the default handler the process exits before Check
// returns.
func Check(err error) error {
	check(err, errHandler)
	return err
}

func check(err error, handleErr func(string, int)) {
	if err == nil {
		return
	}

	debugPrint(err)

	var (
		validationErr *dberrors.ValidationError
		notFoundErr   *dberrors.MigrationNotFoundError
	)

	switch {
	case errors.Is(err, dberrors.ErrBootstrapLedger):
		handleErr("orodb: "+err.Error()+"\nBootstrap only initializes a pristine ledger; use 'status' to inspect the applied migrations.", DefaultErrorExitCode)
	case errors.Is(err, dberrors.ErrNoMigrations):
		handleErr("orodb: "+err.Error()+"\nUse 'create' to scaffold the first migration.", DefaultErrorExitCode)
	case errors.As(err, &validationErr):
		handleErr("orodb: "+err.Error()+"\nFix or remove the malformed migration artifact and retry.", DefaultErrorExitCode)
	case errors.As(err, &notFoundErr):
		handleErr("orodb: "+err.Error()+"\nRestore the artifact before rolling back.", DefaultErrorExitCode)
	default:
		msg := err.Error()
		if !strings.HasPrefix(msg, "orodb: ") {
			msg = "orodb: " + msg
		}

		handleErr(msg, DefaultErrorExitCode)
	}
}
