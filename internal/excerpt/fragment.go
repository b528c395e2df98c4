package excerpt

import "unicode/utf8"

const (
	// basePadding is the context added on each side of a raw match.
	basePadding = 2
	// mergeDistance is how close a padded match may start to the previous
	// fragment's end and still be merged into it.
	mergeDistance = 10
)

// Fragment is a window into the source text chosen for display.
//
// Start and End move during budget fitting. OriginalStart and OriginalEnd
// track the keyword span that seeded the fragment (extended by merged
// matches) and bound how far context expansion may reach.
type Fragment struct {
	Start int
	End   int

	// Score is the summed rune length of every merged token.
	Score  int
	Tokens map[string]struct{}

	OriginalStart int
	OriginalEnd   int
}

// Len returns the number of runes the fragment covers.
func (f *Fragment) Len() int {
	return f.End - f.Start
}

// Cluster turns sorted matches into an ordered, non-overlapping list of
// micro-fragments. textLen is the rune length of the source text.
func Cluster(matches []Match, textLen int) []*Fragment {
	var frags []*Fragment
	for _, m := range matches {
		start := max(0, m.Start-basePadding)
		end := min(textLen, m.End+basePadding)
		tokenLen := utf8.RuneCountInString(m.Token)

		if n := len(frags); n > 0 {
			prev := frags[n-1]
			if start <= prev.End+mergeDistance {
				prev.End = max(prev.End, end)
				prev.OriginalEnd = max(prev.OriginalEnd, m.End)
				prev.Score += tokenLen
				prev.Tokens[m.Token] = struct{}{}
				continue
			}
		}

		frags = append(frags, &Fragment{
			Start:         start,
			End:           end,
			Score:         tokenLen,
			Tokens:        map[string]struct{}{m.Token: {}},
			OriginalStart: m.Start,
			OriginalEnd:   m.End,
		})
	}
	return frags
}
