package excerpt

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	ellipsis  = "..."
	markOpen  = "<mark>"
	markClose = "</mark>"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// byLengthDesc returns tokens ordered longest first so an alternation tries
// a longer token before any shorter token it contains. Equal lengths keep
// their input order.
func byLengthDesc(tokens []string) []string {
	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})
	return sorted
}

// tokenPattern compiles a case-insensitive alternation of tokens, longest
// first. It returns nil for an empty token list.
func tokenPattern(tokens []string) *regexp.Regexp {
	if len(tokens) == 0 {
		return nil
	}
	alts := make([]string, 0, len(tokens))
	for _, t := range byLengthDesc(tokens) {
		alts = append(alts, regexp.QuoteMeta(t))
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}

// markEscaped escapes s and wraps every match of re in <mark> tags. Matches
// are found on the unescaped text, so a token can never land inside an
// entity produced by escaping.
func markEscaped(s string, re *regexp.Regexp) string {
	if re == nil {
		return EscapeHTML(s)
	}
	var b strings.Builder
	prev := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[0] == loc[1] {
			continue
		}
		b.WriteString(EscapeHTML(s[prev:loc[0]]))
		b.WriteString(markOpen)
		b.WriteString(EscapeHTML(s[loc[0]:loc[1]]))
		b.WriteString(markClose)
		prev = loc[1]
	}
	b.WriteString(EscapeHTML(s[prev:]))
	return b.String()
}

// Render emits the HTML excerpt for frags over text. tokens are the
// deduplicated search tokens used for highlighting.
func Render(text []rune, frags []*Fragment, tokens []string) string {
	re := tokenPattern(tokens)

	var b strings.Builder
	for i, f := range frags {
		if i > 0 || f.Start > 0 {
			b.WriteString(ellipsis)
		}
		b.WriteString(markEscaped(string(text[f.Start:f.End]), re))
		if i == len(frags)-1 && f.End < len(text) {
			b.WriteString(ellipsis)
		}
	}
	return b.String()
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
