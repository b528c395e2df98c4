// Package mcpserver implements an MCP (Model Context Protocol) server for
// glimpse, exposing search, excerpt generation, and the content's
// taxonomies as tools and resources to MCP clients.
package mcpserver

import (
	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/plaintext"
)

// SearchContentInput is the input for the search_content tool.
type SearchContentInput struct {
	Query   string `json:"query"             jsonschema:"Search text; every whitespace-separated token must occur"`
	Section string `json:"section,omitempty" jsonschema:"Restrict results to one content section"`
	Tag     string `json:"tag,omitempty"     jsonschema:"Restrict results to entries carrying this tag"`
	Limit   int    `json:"limit,omitempty"   jsonschema:"Max results to return, 1-100 (default: search.limit from config)"`
}

// SearchContentOutput is the output from the search_content tool.
type SearchContentOutput struct {
	Tokens  []string    `json:"tokens"`
	Count   int         `json:"count"`
	Results []SearchHit `json:"results"`
}

// SearchHit is one search result with highlighted HTML.
type SearchHit struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Section     string   `json:"section,omitempty"`
	Date        string   `json:"date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	TitleHTML   string   `json:"titleHTML"`
	ExcerptHTML string   `json:"excerptHTML"`
}

// GenerateExcerptInput is the input for the generate_excerpt tool.
type GenerateExcerptInput struct {
	Text      string   `json:"text,omitempty"      jsonschema:"Plain text to excerpt"`
	Markdown  string   `json:"markdown,omitempty"  jsonschema:"Markdown to convert to plain text and excerpt (alternative to text)"`
	Query     string   `json:"query,omitempty"     jsonschema:"Search text split into tokens on whitespace"`
	Tokens    []string `json:"tokens,omitempty"    jsonschema:"Explicit tokens; takes precedence over query"`
	MaxLength int      `json:"maxLength,omitempty" jsonschema:"Visible character budget (default: excerpt.maxLength from config)"`
}

// GenerateExcerptOutput is the output from the generate_excerpt tool.
type GenerateExcerptOutput struct {
	HTML   string   `json:"html"`
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

// HighlightTitleInput is the input for the highlight_title tool.
type HighlightTitleInput struct {
	Title  string   `json:"title"            jsonschema:"Title to highlight"`
	Query  string   `json:"query,omitempty"  jsonschema:"Search text split into tokens on whitespace"`
	Tokens []string `json:"tokens,omitempty" jsonschema:"Explicit tokens; takes precedence over query"`
	Mode   string   `json:"mode,omitempty"   jsonschema:"Replacement mode: sequential or combined (default: excerpt.titleMode from config)"`
}

// HighlightTitleOutput is the output from the highlight_title tool.
type HighlightTitleOutput struct {
	HTML string `json:"html"`
	Mode string `json:"mode"`
}

// MarkdownToTextInput is the input for the markdown_to_text tool.
type MarkdownToTextInput struct {
	Markdown string `json:"markdown" jsonschema:"Markdown source to convert"`
}

// MarkdownToTextOutput is the output from the markdown_to_text tool.
type MarkdownToTextOutput struct {
	Text    string              `json:"text"`
	Outline []plaintext.Heading `json:"outline,omitempty"`
}

// ListTermsInput is the input for the list_terms tool.
type ListTermsInput struct {
	Taxonomy string `json:"taxonomy,omitempty" jsonschema:"Taxonomy to list: tags or categories (default: tags)"`
	Near     string `json:"near,omitempty"     jsonschema:"Also report existing terms similar to this one"`
}

// ListTermsOutput is the output from the list_terms tool.
type ListTermsOutput struct {
	Taxonomy string         `json:"taxonomy"`
	Terms    []content.Term `json:"terms"`
	Similar  []string       `json:"similar,omitempty"`
}

// ValidateFrontmatterInput is the input for the validate_frontmatter tool.
type ValidateFrontmatterInput struct {
	Frontmatter string `json:"frontmatter" jsonschema:"Raw YAML frontmatter without --- delimiters"`
}

// ValidateFrontmatterOutput is the output from the validate_frontmatter tool.
type ValidateFrontmatterOutput struct {
	Valid                 bool                `json:"valid"`
	Errors                []ValidationError   `json:"errors"`
	Warnings              []ValidationWarning `json:"warnings"`
	NormalizedFrontmatter string              `json:"normalizedFrontmatter,omitempty"`
}

// ValidationError describes a frontmatter validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// ValidationWarning describes a frontmatter validation warning.
type ValidationWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// SectionInfo describes a content section.
type SectionInfo struct {
	Name       string `json:"name"`
	PostCount  int    `json:"postCount"`
	LatestDate string `json:"latestDate,omitempty"`
}
