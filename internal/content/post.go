package content

import (
	"slices"
	"sort"
	"time"

	"github.com/aellingwood/glimpse/internal/plaintext"
)

// Post is a single Markdown document together with the searchable text
// derived from it.
type Post struct {
	// Core metadata
	Title       string
	Slug        string
	URL         string // Relative permalink (e.g., "/blog/my-post/")
	Description string
	Summary     string

	// Dates
	Date    time.Time
	Lastmod time.Time

	// Content
	RawContent  string // Markdown body without front matter
	PlainText   string
	Outline     []plaintext.Heading
	WordCount   int
	ReadingTime int // Minutes

	// Classification
	Draft      bool
	Section    string // e.g., "blog", "notes"
	Tags       []string
	Categories []string

	// Source path relative to the content dir, slash separated.
	SourcePath string
}

// HasTag reports whether the post carries tag, compared case-insensitively.
func (p *Post) HasTag(tag string) bool {
	return containsFold(p.Tags, tag)
}

// HasCategory reports whether the post carries category, compared
// case-insensitively.
func (p *Post) HasCategory(category string) bool {
	return containsFold(p.Categories, category)
}

// SortByDate sorts posts by Date, newest first. Posts with equal dates keep
// their title order so results are deterministic.
func SortByDate(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Title < posts[j].Title
	})
}

// FilterDrafts returns a new slice with all draft posts removed.
func FilterDrafts(posts []*Post) []*Post {
	return slices.DeleteFunc(slices.Clone(posts), func(p *Post) bool {
		return p.Draft
	})
}

// FilterSections returns a new slice holding only posts in one of sections.
// An empty sections list keeps everything.
func FilterSections(posts []*Post, sections []string) []*Post {
	if len(sections) == 0 {
		return slices.Clone(posts)
	}
	return slices.DeleteFunc(slices.Clone(posts), func(p *Post) bool {
		return !slices.Contains(sections, p.Section)
	})
}
