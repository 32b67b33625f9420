package sqlutil_test

import (
	"testing"

	"github.com/orolab/orodb/sqlutil"
)

func TestEscapeILike(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", "hello", "hello"},
		{"escapes percent", "50%", `50\%`},
		{"escapes underscore", "user_name", `user\_name`},
		{"escapes backslash", `path\to`, `path\\to`},
		{"escapes all", `50%_test\end`, `50\%\_test\\end`},
		{"empty string", "", ""},
		{"no special chars", "simple text", "simple text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sqlutil.EscapeILike(tt.in); got != tt.want {
				t.Errorf("EscapeILike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
