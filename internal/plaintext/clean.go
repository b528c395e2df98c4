package plaintext

import (
	"regexp"
	"strings"
)

var (
	// tagLike matches things that look like an HTML tag inside text.
	tagLike = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)
	// anyTag matches any angle-bracketed run in raw HTML.
	anyTag = regexp.MustCompile(`<[^>]*>`)
	// whitespace matches a whitespace run.
	whitespace = regexp.MustCompile(`\s+`)

	ruleRun   = regexp.MustCompile(`[-=*_]{3,}`)
	insMarks  = regexp.MustCompile(`\+\+(.+?)\+\+`)
	markMarks = regexp.MustCompile(`==(.+?)==`)

	entities = strings.NewReplacer(
		"&nbsp;", "\u00a0",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	)
	inlineMarkers = strings.NewReplacer(
		"**", " ",
		"__", " ",
		"~~", " ",
		"`", " ",
	)
)

func stripTags(s string) string {
	return tagLike.ReplaceAllString(s, "")
}

func stripRawHTML(s string) string {
	return whitespace.ReplaceAllString(anyTag.ReplaceAllString(s, ""), " ")
}

// clean removes leftover markup from extracted text and collapses
// whitespace. Running it twice gives the same result as running it once.
func clean(s string) string {
	s = entities.Replace(s)
	s = inlineMarkers.Replace(s)
	s = ruleRun.ReplaceAllString(s, " ")
	s = insMarks.ReplaceAllString(s, "$1")
	s = markMarks.ReplaceAllString(s, "$1")
	s = stripTags(s)
	return collapse(s)
}

// collapse trims s and squeezes every whitespace run to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fallback is used when the Markdown cannot be parsed at all.
func fallback(s string) string {
	return collapse(anyTag.ReplaceAllString(s, ""))
}
