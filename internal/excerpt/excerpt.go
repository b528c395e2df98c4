// Package excerpt builds highlighted search-result excerpts and titles.
//
// An excerpt is produced in four steps: matches of each token are located
// in the plain text, nearby matches are clustered into small fragments,
// the fragments are pruned and grown to fit a length budget, and the
// result is rendered as HTML with <mark> around every token occurrence and
// "..." between fragments. All lengths are counted in runes.
package excerpt

// DefaultMaxLength is the excerpt budget used for search-result summaries.
const DefaultMaxLength = 80

// Smart returns an HTML excerpt of text that shows as many of tokens as
// fit in maxLength visible characters. The output is already escaped and
// safe to embed; callers must not escape it again.
//
// When no token is usable or none occurs in text, the first maxLength
// runes of text are returned as-is, without escaping or markup. A
// maxLength <= 0 selects DefaultMaxLength.
func Smart(text string, tokens []string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	unique := uniqueTokens(tokens)
	if len(unique) == 0 {
		return truncate(text, maxLength)
	}

	runes := []rune(text)
	matches := Locate(runes, unique)
	if len(matches) == 0 {
		return truncate(text, maxLength)
	}

	frags := Cluster(matches, len(runes))
	frags = Fit(frags, len(runes), maxLength)
	return Render(runes, frags, unique)
}

// SmartHTML is Smart with the no-match fallback escaped, so the result is
// always safe to embed as HTML.
func SmartHTML(text string, tokens []string, maxLength int) string {
	if len(Locate([]rune(text), tokens)) == 0 {
		return EscapeHTML(Smart(text, nil, maxLength))
	}
	return Smart(text, tokens, maxLength)
}

// Highlighter bundles the excerpt budget and title mode chosen in
// configuration.
type Highlighter struct {
	MaxLength int
	TitleMode Mode
}

// Excerpt is Smart with the highlighter's budget.
func (h Highlighter) Excerpt(text string, tokens []string) string {
	return Smart(text, tokens, h.MaxLength)
}

// Title is HighlightTitleMode with the highlighter's mode.
func (h Highlighter) Title(title string, tokens []string) string {
	return HighlightTitleMode(title, tokens, h.TitleMode)
}

// ExcerptHTML is SmartHTML with the highlighter's budget.
func (h Highlighter) ExcerptHTML(text string, tokens []string) string {
	return SmartHTML(text, tokens, h.MaxLength)
}

// TitleHTML is HighlightTitleHTML with the highlighter's mode.
func (h Highlighter) TitleHTML(title string, tokens []string) string {
	return HighlightTitleHTML(title, tokens, h.TitleMode)
}
