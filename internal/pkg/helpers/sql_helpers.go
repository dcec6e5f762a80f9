package helpers

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern builds a %fragment% pattern for ILIKE lookups.
func ContainsPattern(fragment string) string {
	return "%" + EscapeLike(strings.TrimSpace(fragment)) + "%"
}
