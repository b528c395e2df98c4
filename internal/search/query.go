package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseQuery splits a raw query into search tokens. Tokens are separated by
// whitespace and normalized to NFC so they compare equal to converted plain
// text. Exact duplicates are dropped; order is kept.
func ParseQuery(q string) []string {
	fields := strings.Fields(norm.NFC.String(q))
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		tokens = append(tokens, f)
	}
	return tokens
}
