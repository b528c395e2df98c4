package content

import (
	"strings"
	"unicode/utf8"

	"github.com/aellingwood/glimpse/internal/plaintext"
)

// moreMarker is the HTML comment used to delimit the summary portion of content.
const moreMarker = "<!--more-->"

// defaultSummaryLength is the summary length in characters used when a post
// has no explicit summary.
const defaultSummaryLength = 160

// Summarize produces a plain-text summary for a post. Priority:
//  1. If rawMD contains a <!--more--> marker, the plain text of the Markdown
//     before the marker is used.
//  2. Otherwise the post's plain text is used.
//  3. The result is truncated at a word boundary to maxLength characters.
//     If maxLength <= 0, it defaults to defaultSummaryLength.
func Summarize(rawMD, plain string, conv *plaintext.Converter, maxLength int) string {
	if maxLength <= 0 {
		maxLength = defaultSummaryLength
	}

	summary := plain
	if before, _, ok := strings.Cut(rawMD, moreMarker); ok {
		summary = conv.Convert(before)
	}

	return TruncateAtWord(summary, maxLength)
}

// CalculateReadingTime estimates reading time at approximately 200 words per
// minute. It always returns at least 1 for non-empty content.
func CalculateReadingTime(content string) int {
	wc := CalculateWordCount(content)
	if wc == 0 {
		return 0
	}
	return max(wc/200, 1)
}

// CalculateWordCount counts the number of words in a string by splitting
// on whitespace.
func CalculateWordCount(content string) int {
	return len(strings.Fields(content))
}

// TruncateAtWord truncates text at a word boundary, appending "..." if
// the text was truncated. Lengths are counted in characters. If the text
// fits within maxLen, it is returned unchanged. If maxLen <= 0, the original
// string is returned.
func TruncateAtWord(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)[:maxLen]
	truncated := string(runes)
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > 0 {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}
