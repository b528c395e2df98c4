package search

import (
	"slices"
	"strings"

	"github.com/aellingwood/glimpse/internal/excerpt"
)

// Query selects entries from a Library.
type Query struct {
	// Text is split with ParseQuery when Tokens is empty.
	Text    string
	Tokens  []string
	Section string
	Tag     string
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// Result is a matching entry with its highlighted title and excerpt.
type Result struct {
	IndexEntry
	TitleHTML   string `json:"titleHTML"`
	ExcerptHTML string `json:"excerptHTML"`
}

// Library holds index entries in memory and answers queries against them.
// A Library is immutable once built and safe for concurrent use.
type Library struct {
	entries     []IndexEntry
	lowered     []string
	highlighter excerpt.Highlighter
}

// NewLibrary builds a Library over entries, ordered newest first.
func NewLibrary(entries []IndexEntry, hl excerpt.Highlighter) *Library {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b IndexEntry) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})

	lowered := make([]string, len(sorted))
	for i, e := range sorted {
		lowered[i] = strings.ToLower(searchableText(e))
	}
	return &Library{entries: sorted, lowered: lowered, highlighter: hl}
}

// searchableText joins every field a token may match.
func searchableText(e IndexEntry) string {
	parts := []string{e.Title, e.Summary, e.Content}
	parts = append(parts, e.Tags...)
	parts = append(parts, e.Categories...)
	return strings.Join(parts, "\n")
}

// Len returns the number of entries.
func (l *Library) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in library order.
func (l *Library) Entries() []IndexEntry { return slices.Clone(l.entries) }

// Highlighter returns the excerpt settings used for results.
func (l *Library) Highlighter() excerpt.Highlighter { return l.highlighter }

// Search returns the entries containing every query token, newest first.
// Section and Tag narrow the candidates before matching. An empty query
// matches every candidate; titles and excerpts are then left unhighlighted.
func (l *Library) Search(q Query) []Result {
	tokens := q.Tokens
	if len(tokens) == 0 {
		tokens = ParseQuery(q.Text)
	}
	lowTokens := make([]string, len(tokens))
	for i, t := range tokens {
		lowTokens[i] = strings.ToLower(t)
	}

	var results []Result
	for i, e := range l.entries {
		if q.Limit > 0 && len(results) >= q.Limit {
			break
		}
		if q.Section != "" && e.Section != q.Section {
			continue
		}
		if q.Tag != "" && !hasFold(e.Tags, q.Tag) {
			continue
		}
		if !containsAll(l.lowered[i], lowTokens) {
			continue
		}
		results = append(results, l.present(e, tokens))
	}
	return results
}

// present highlights e for tokens. Both fields are escaped even when
// nothing is highlighted: results are always embedded as HTML.
func (l *Library) present(e IndexEntry, tokens []string) Result {
	text := e.Content
	if text == "" {
		text = e.Summary
	}

	return Result{
		IndexEntry:  e,
		TitleHTML:   l.highlighter.TitleHTML(e.Title, tokens),
		ExcerptHTML: l.highlighter.ExcerptHTML(text, tokens),
	}
}

func containsAll(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(haystack, t) {
			return false
		}
	}
	return true
}

func hasFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
