package mcpserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// abbreviations maps short term spellings to their long forms.
var abbreviations = map[string]string{
	"k8s":    "kubernetes",
	"js":     "javascript",
	"ts":     "typescript",
	"py":     "python",
	"golang": "go",
	"md":     "markdown",
	"db":     "database",
	"infra":  "infrastructure",
}

// findSimilarTerms returns existing terms within threshold edits of input,
// plus terms related to it through a known abbreviation. Exact matches are
// not reported.
func findSimilarTerms(input string, existing []string, threshold int) []string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return nil
	}
	seen := make(map[string]bool)
	var similar []string
	add := func(term string) {
		if !seen[term] {
			seen[term] = true
			similar = append(similar, term)
		}
	}

	for _, term := range existing {
		lower := strings.ToLower(term)
		if lower == in {
			continue
		}
		switch {
		case abbreviations[in] == lower, abbreviations[lower] == in:
			add(term)
		case levenshtein.ComputeDistance(in, lower) <= threshold:
			add(term)
		}
	}
	return similar
}

// frontmatterData is a partial parse of YAML frontmatter. Dates stay
// strings so a bad value is reported rather than failing the parse.
type frontmatterData struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Summary     string   `yaml:"summary,omitempty"`
	Date        string   `yaml:"date,omitempty"`
	Lastmod     string   `yaml:"lastmod,omitempty"`
	Draft       *bool    `yaml:"draft,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
}

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func validDate(s string) bool {
	for _, f := range dateFormats {
		if _, err := time.Parse(f, s); err == nil {
			return true
		}
	}
	return false
}

// validateFrontmatter checks YAML frontmatter the way discovery will read it.
func validateFrontmatter(raw string, existingTags, existingCats []string) ValidateFrontmatterOutput {
	var data frontmatterData
	errs := []ValidationError{}
	warns := []ValidationWarning{}

	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		errs = append(errs, ValidationError{
			Field:   "_yaml",
			Message: fmt.Sprintf("invalid YAML: %s", err.Error()),
		})
		return ValidateFrontmatterOutput{Valid: false, Errors: errs, Warnings: warns}
	}

	// Discovery falls back to the first heading, so a missing title only warns.
	if strings.TrimSpace(data.Title) == "" {
		warns = append(warns, ValidationWarning{
			Field:   "title",
			Message: "title is empty; the first level-1 heading or the file name will be used",
		})
	}

	for _, d := range [...]struct{ field, value string }{{"date", data.Date}, {"lastmod", data.Lastmod}} {
		if d.value != "" && !validDate(d.value) {
			errs = append(errs, ValidationError{
				Field:   d.field,
				Message: "Invalid date format: expected ISO 8601 (e.g. 2025-01-15 or 2025-01-15T10:00:00Z)",
				Value:   d.value,
			})
		}
	}

	if data.Draft != nil && *data.Draft {
		warns = append(warns, ValidationWarning{
			Field:   "draft",
			Message: "draft posts are left out of the index unless content.includeDrafts is set",
		})
	}

	warns = append(warns, similarWarnings("tags", "Tag", data.Tags, existingTags)...)
	warns = append(warns, similarWarnings("categories", "Category", data.Categories, existingCats)...)

	normalized := raw
	if len(errs) == 0 {
		if b, err := yaml.Marshal(&data); err == nil {
			normalized = string(b)
		}
	}

	return ValidateFrontmatterOutput{
		Valid:                 len(errs) == 0,
		Errors:                errs,
		Warnings:              warns,
		NormalizedFrontmatter: normalized,
	}
}

func similarWarnings(field, label string, terms, existing []string) []ValidationWarning {
	var warns []ValidationWarning
	for _, term := range terms {
		for _, s := range findSimilarTerms(term, existing, 2) {
			if !strings.EqualFold(s, term) {
				warns = append(warns, ValidationWarning{
					Field:      field,
					Message:    fmt.Sprintf("%s %q is similar to existing %s %q. Did you mean %q?", label, term, strings.ToLower(label), s, s),
					Suggestion: s,
				})
			}
		}
	}
	return warns
}
