package excerpt

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how HighlightTitleMode applies tokens.
type Mode int

const (
	// ModeSequential replaces one token at a time, longest first. A token
	// that occurs inside an earlier replacement (markup included) is
	// wrapped again, producing nested marks.
	ModeSequential Mode = iota
	// ModeCombined highlights all tokens in a single alternation pass and
	// never nests marks.
	ModeCombined
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeCombined:
		return "combined"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration name to a Mode. The empty string selects
// ModeSequential.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return ModeSequential, nil
	case "combined":
		return ModeCombined, nil
	default:
		return ModeSequential, fmt.Errorf("unknown title highlight mode %q", s)
	}
}

// HighlightTitle wraps every case-insensitive token occurrence in title
// with <mark>, replacing token by token. With no usable tokens the title
// is returned unchanged and unescaped.
func HighlightTitle(title string, tokens []string) string {
	return HighlightTitleMode(title, tokens, ModeSequential)
}

// HighlightTitleMode is HighlightTitle with an explicit replacement mode.
func HighlightTitleMode(title string, tokens []string, mode Mode) string {
	unique := uniqueTokens(tokens)
	if len(unique) == 0 {
		return title
	}

	if mode == ModeCombined {
		return markEscaped(title, tokenPattern(unique))
	}

	out := EscapeHTML(title)
	for _, t := range byLengthDesc(unique) {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t))
		out = re.ReplaceAllString(out, markOpen+"${0}"+markClose)
	}
	return out
}

// HighlightTitleHTML is HighlightTitleMode with the no-token case escaped,
// so the result is always safe to embed as HTML.
func HighlightTitleHTML(title string, tokens []string, mode Mode) string {
	if len(uniqueTokens(tokens)) == 0 {
		return EscapeHTML(title)
	}
	return HighlightTitleMode(title, tokens, mode)
}
