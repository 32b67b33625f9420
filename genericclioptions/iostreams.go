// Package genericclioptions carries the shared option types and IO
// plumbing used by the orodb CLI commands.
package genericclioptions

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// FdReader is an input stream exposing its file descriptor, as required
// for terminal password prompts.
type FdReader interface {
	io.Reader

	Fd() uintptr
	Stat() (os.FileInfo, error)
}

type IOStreams struct {
	In     FdReader
	Out    io.Writer
	ErrOut io.Writer

	Verbose bool
}

// NewDefaultIOStreams returns IOStreams over stdin, stdout and stderr.
func NewDefaultIOStreams() *IOStreams {
	return &IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

// NewTestIOStreams returns IOStreams backed by in-memory buffers for unit
// tests.
func NewTestIOStreams(in *TestFdReader) (iostreams *IOStreams, out, errOut *bytes.Buffer) {
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}

	iostreams = &IOStreams{
		In:     in,
		Out:    out,
		ErrOut: errOut,
	}

	return iostreams, out, errOut
}

// Printf writes an unprefixed formatted message to the output stream.
func (s *IOStreams) Printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Infof writes a formatted message to the output stream.
func (s *IOStreams) Infof(format string, args ...any) {
	fmt.Fprintf(s.Out, "INFO "+format, args...)
}

// Errorf writes a formatted message to the error stream.
func (s *IOStreams) Errorf(format string, args ...any) {
	fmt.Fprintf(s.ErrOut, "WARN "+format, args...)
}

// Debugf writes formatted debug output to the error stream when Verbose
// is enabled.
func (s *IOStreams) Debugf(format string, args ...any) {
	if s.Verbose {
		fmt.Fprintf(s.ErrOut, "DEBUG "+format, args...)
	}
}
