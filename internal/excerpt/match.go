package excerpt

import (
	"slices"
	"strings"
	"unicode"
)

// Match is one located occurrence of a token in the source text. Start and
// End are rune offsets forming the half-open interval [Start, End).
type Match struct {
	Start int
	End   int
	Token string
}

// uniqueTokens trims tokens, drops empty ones, and removes duplicates by
// exact string comparison. Input order is preserved.
func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Locate finds every case-insensitive occurrence of each token in text.
// Runes compare equal under Unicode simple case folding, the same folding
// the highlight pattern applies, so every match is also marked.
// Scanning for a token resumes one rune after the previous hit, so shifted
// overlapping occurrences of the same token are reported. The result is
// sorted by Start.
func Locate(text []rune, tokens []string) []Match {
	folded := foldRunes(text)

	var matches []Match
	for _, token := range uniqueTokens(tokens) {
		needle := foldRunes([]rune(token))
		for from := 0; ; {
			idx := indexRunes(folded, needle, from)
			if idx < 0 {
				break
			}
			matches = append(matches, Match{
				Start: idx,
				End:   idx + len(needle),
				Token: token,
			})
			from = idx + 1
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return a.Start - b.Start
	})
	return matches
}

// foldRunes maps each rune to the smallest rune of its case-folding orbit
// so offsets stay aligned with the original text.
func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = foldRune(r)
	}
	return out
}

func foldRune(r rune) rune {
	least := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		least = min(least, f)
	}
	return least
}

// indexRunes returns the index of the first occurrence of needle in hay at
// or after from, or -1.
func indexRunes(hay, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	last := len(hay) - len(needle)
	for i := from; i <= last; i++ {
		if hay[i] != needle[0] {
			continue
		}
		if slices.Equal(hay[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}
