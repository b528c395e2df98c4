package search

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/plaintext"
)

// dateLayout is how post dates are written to the index. It sorts
// lexically in date order.
const dateLayout = "2006-01-02"

// IndexEntry represents a single post in the search index.
type IndexEntry struct {
	Title      string              `json:"title"`
	URL        string              `json:"url"`
	Section    string              `json:"section,omitempty"`
	Date       string              `json:"date,omitempty"`
	Tags       []string            `json:"tags,omitempty"`
	Categories []string            `json:"categories,omitempty"`
	Summary    string              `json:"summary,omitempty"`
	Headings   []plaintext.Heading `json:"headings,omitempty"`
	Content    string              `json:"content,omitempty"`
}

// EntryFromPost converts a post into an index entry. Content is the post's
// plain text.
func EntryFromPost(p *content.Post) IndexEntry {
	e := IndexEntry{
		Title:      p.Title,
		URL:        p.URL,
		Section:    p.Section,
		Tags:       p.Tags,
		Categories: p.Categories,
		Summary:    p.Summary,
		Headings:   p.Outline,
		Content:    p.PlainText,
	}
	if !p.Date.IsZero() {
		e.Date = p.Date.Format(dateLayout)
	}
	return e
}

// BuildEntries converts posts into index entries, preserving order.
func BuildEntries(posts []*content.Post) []IndexEntry {
	entries := make([]IndexEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, EntryFromPost(p))
	}
	return entries
}

// GenerateIndex serializes entries as a JSON array. If maxContentLen > 0,
// each entry's Content field is truncated to that many characters at a word
// boundary. The output uses indented JSON for readability.
func GenerateIndex(entries []IndexEntry, maxContentLen int) ([]byte, error) {
	if entries == nil {
		entries = []IndexEntry{}
	}

	if maxContentLen > 0 {
		// Work on a copy so we don't mutate the caller's slice.
		truncated := make([]IndexEntry, len(entries))
		copy(truncated, entries)
		for i := range truncated {
			truncated[i].Content = content.TruncateAtWord(truncated[i].Content, maxContentLen)
		}
		entries = truncated
	}

	return json.MarshalIndent(entries, "", "  ")
}

// WriteIndexFile generates the index and writes it to path, creating parent
// directories as needed.
func WriteIndexFile(path string, entries []IndexEntry, maxContentLen int) error {
	data, err := GenerateIndex(entries, maxContentLen)
	if err != nil {
		return fmt.Errorf("encoding search index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing search index: %w", err)
	}
	return nil
}

// ReadIndex decodes a JSON index produced by GenerateIndex.
func ReadIndex(r io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding search index: %w", err)
	}
	return entries, nil
}

// ReadIndexFile reads the index at path.
func ReadIndexFile(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	defer f.Close()
	return ReadIndex(f)
}
