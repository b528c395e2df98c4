package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aellingwood/glimpse/internal/plaintext"
)

// datePrefixRe matches a leading YYYY-MM-DD- date prefix in a filename.
var datePrefixRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

// slugifyRe removes characters that are not alphanumeric, hyphens, or periods.
var slugifyRe = regexp.MustCompile(`[^\p{L}\p{N}\-.]`)

// multiHyphenRe collapses multiple consecutive hyphens into one.
var multiHyphenRe = regexp.MustCompile(`-{2,}`)

// Options controls Discover.
type Options struct {
	// IncludeDrafts keeps posts marked draft: true.
	IncludeDrafts bool
	// Sections limits discovery to these top-level directories. Empty means
	// all of them.
	Sections []string
	// Converter extracts plain text. Nil uses a default converter.
	Converter *plaintext.Converter
	Logger    *slog.Logger
}

// Discover walks contentDir and loads every Markdown post in it. Files and
// directories whose names start with "_" or "." are skipped, as are
// non-.md files. The result is sorted newest first.
func Discover(contentDir string, opts Options) ([]*Post, error) {
	if opts.Converter == nil {
		opts.Converter = plaintext.NewConverter(opts.Logger)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var posts []*Post
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != contentDir && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", path, err)
		}

		post, err := LoadPost(path, filepath.ToSlash(relPath), opts.Converter)
		if err != nil {
			return err
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking content directory: %w", err)
	}

	if !opts.IncludeDrafts {
		all := len(posts)
		posts = FilterDrafts(posts)
		if skipped := all - len(posts); skipped > 0 {
			logger.Debug("skipping drafts", "count", skipped)
		}
	}
	posts = FilterSections(posts, opts.Sections)
	SortByDate(posts)
	logger.Debug("discovered posts", "dir", contentDir, "count", len(posts))
	return posts, nil
}

// LoadPost reads a single Markdown file. relPath is the slash-separated path
// relative to the content directory; it determines section, slug, and URL.
func LoadPost(path, relPath string, conv *plaintext.Converter) (*Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	fm, body, err := ParseFrontmatter(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}

	doc := conv.Extract(body)
	post := &Post{
		Title:       fm.Title,
		Slug:        fm.Slug,
		Description: fm.Description,
		Summary:     fm.Summary,
		Date:        fm.Date.Time,
		Lastmod:     fm.Lastmod.Time,
		Draft:       fm.Draft,
		Tags:        fm.Tags,
		Categories:  fm.Categories,
		RawContent:  string(body),
		PlainText:   doc.Text,
		Outline:     doc.Outline,
		SourcePath:  relPath,
		Section:     firstPathComponent(relPath),
	}

	name := strings.TrimSuffix(filepath.Base(relPath), ".md")
	if name == "index" && post.Section != "" {
		// Bundle: the directory names the post.
		name = filepath.Base(filepath.Dir(filepath.FromSlash(relPath)))
	}
	if m := datePrefixRe.FindStringSubmatch(name); m != nil {
		if post.Date.IsZero() {
			if t, err := time.Parse("2006-01-02", m[1]); err == nil {
				post.Date = t
			}
		}
		name = name[len(m[0]):]
	}
	if post.Slug == "" {
		post.Slug = slugify(name)
	}
	if post.Title == "" {
		post.Title = titleFromOutline(doc.Outline, name)
	}
	if post.Summary == "" {
		post.Summary = Summarize(post.RawContent, post.PlainText, conv, defaultSummaryLength)
	}

	post.URL = buildURL(post)
	post.WordCount = CalculateWordCount(post.PlainText)
	post.ReadingTime = CalculateReadingTime(post.PlainText)

	return post, nil
}

// titleFromOutline uses the first heading as title, falling back to the
// file name.
func titleFromOutline(outline []plaintext.Heading, name string) string {
	for _, h := range outline {
		if h.Level == 1 {
			return h.Title
		}
	}
	return strings.ReplaceAll(name, "-", " ")
}

// slugify converts a name into a URL-safe slug.
// It lowercases, replaces spaces and underscores with hyphens, removes
// characters other than letters, digits, hyphens and periods, collapses
// multiple hyphens, and trims leading/trailing hyphens.
func slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = slugifyRe.ReplaceAllString(s, "")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// firstPathComponent returns the first directory in a slash-separated path,
// or "" if the path has no directory component (i.e., root-level file).
func firstPathComponent(relPath string) string {
	before, _, ok := strings.Cut(relPath, "/")
	if !ok {
		return ""
	}
	return before
}

// buildURL generates the relative URL for a post from its section and slug.
func buildURL(p *Post) string {
	if p.Section == "" {
		return "/" + p.Slug + "/"
	}
	return "/" + p.Section + "/" + p.Slug + "/"
}
