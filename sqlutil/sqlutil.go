// Package sqlutil provides small SQL string helpers.
package sqlutil

import "strings"

var ilikeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeILike escapes LIKE/ILIKE wildcard characters in s so it can be
// embedded verbatim inside a pattern. Backslash is the escape character,
// matching the default behavior of PostgreSQL's LIKE.
func EscapeILike(s string) string {
	return ilikeEscaper.Replace(s)
}
