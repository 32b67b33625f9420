// Package input provides interactive terminal input helpers.
package input

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPasswordFunc reads a password without echo.
var readPasswordFunc = term.ReadPassword

// SetDefaultReadPassword overrides the password reader for testing.
func SetDefaultReadPassword(f func(fd int) ([]byte, error)) {
	readPasswordFunc = f
}

// IsPipedOrRedirected reports whether the stream described by fi is not a
// terminal.
func IsPipedOrRedirected(fi os.FileInfo) bool {
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// PromptReadSecure prompts via w and reads input without echo from the
// given file descriptor.
func PromptReadSecure(w io.Writer, fd int, prompt string, a ...any) ([]byte, error) {
	fmt.Fprintf(w, prompt, a...)
	defer fmt.Fprintln(w)

	bs, err := readPasswordFunc(fd)
	if err != nil {
		return nil, fmt.Errorf("term read password: %w", err)
	}

	return bs, nil
}

// PromptPassword prompts for the database password.
func PromptPassword(w io.Writer, fd int) ([]byte, error) {
	return PromptReadSecure(w, fd, "Password: ")
}
