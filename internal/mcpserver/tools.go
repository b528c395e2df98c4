package mcpserver

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/glimpse/internal/excerpt"
	"github.com/aellingwood/glimpse/internal/search"
)

const maxSearchLimit = 100

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_content",
		Description: "Search the site's content. Every token of the query must occur in the title, summary, body, tags, or categories. Returns matches newest first with the title and a short excerpt highlighted in HTML <mark> tags.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "Search Content",
		},
	}, s.handleSearchContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_excerpt",
		Description: "Build a highlighted excerpt of the given text or Markdown that shows as many query tokens as fit in the length budget. Fragments are joined with \"...\" and every token occurrence is wrapped in <mark>.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "Generate Excerpt",
		},
	}, s.handleGenerateExcerpt)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "highlight_title",
		Description: "Wrap every case-insensitive occurrence of the query tokens in a title with <mark>. Titles are never truncated.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "Highlight Title",
		},
	}, s.handleHighlightTitle)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "markdown_to_text",
		Description: "Convert Markdown to the plain text the search index stores, with the heading outline.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "Markdown to Text",
		},
	}, s.handleMarkdownToText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_terms",
		Description: "List the terms of a taxonomy (tags or categories) with post counts. With near, also report existing terms similar to it, which helps narrow a search by tag.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "List Terms",
		},
	}, s.handleListTerms)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_frontmatter",
		Description: "Validate a YAML frontmatter string for indexing. Checks date formats and warns about missing titles and tags or categories similar to existing terms.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "Validate Frontmatter",
		},
	}, s.handleValidateFrontmatter)
}

func (s *Server) handleSearchContent(ctx context.Context, req *mcp.CallToolRequest, input SearchContentInput) (*mcp.CallToolResult, SearchContentOutput, error) {
	if input.Limit < 0 || input.Limit > maxSearchLimit {
		return errorResult(fmt.Sprintf("limit must be between 0 and %d", maxSearchLimit)), SearchContentOutput{}, nil
	}

	sc, err := s.ctx.Load()
	if err != nil {
		return errorResult(err.Error()), SearchContentOutput{}, nil
	}

	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if input.Section != "" && !sc.HasSection(input.Section) {
		return errorResult(fmt.Sprintf("Unknown section %q. Available sections: %s",
			input.Section, strings.Join(sc.SectionNames(), ", "))), SearchContentOutput{}, nil
	}

	tokens := search.ParseQuery(input.Query)
	results := sc.lib.Search(search.Query{
		Tokens:  tokens,
		Section: input.Section,
		Tag:     input.Tag,
		Limit:   cmp.Or(input.Limit, sc.cfg.Search.Limit),
	})

	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{
			Title:       r.Title,
			URL:         r.URL,
			Section:     r.Section,
			Date:        r.Date,
			Tags:        r.Tags,
			TitleHTML:   r.TitleHTML,
			ExcerptHTML: r.ExcerptHTML,
		}
	}

	return nil, SearchContentOutput{Tokens: tokens, Count: len(hits), Results: hits}, nil
}

func (s *Server) handleGenerateExcerpt(ctx context.Context, req *mcp.CallToolRequest, input GenerateExcerptInput) (*mcp.CallToolResult, GenerateExcerptOutput, error) {
	text := input.Text
	if input.Markdown != "" {
		text = s.ctx.conv.Convert(input.Markdown)
	}
	if strings.TrimSpace(text) == "" {
		return errorResult("either text or markdown is required"), GenerateExcerptOutput{}, nil
	}

	maxLength := input.MaxLength
	if maxLength <= 0 {
		maxLength = excerpt.DefaultMaxLength
		if sc, err := s.ctx.Load(); err == nil {
			sc.mu.RLock()
			maxLength = sc.cfg.Excerpt.MaxLength
			sc.mu.RUnlock()
		}
	}

	tokens := tokensOf(input.Tokens, input.Query)
	return nil, GenerateExcerptOutput{
		HTML:   excerpt.SmartHTML(text, tokens, maxLength),
		Text:   text,
		Tokens: tokens,
	}, nil
}

func (s *Server) handleHighlightTitle(ctx context.Context, req *mcp.CallToolRequest, input HighlightTitleInput) (*mcp.CallToolResult, HighlightTitleOutput, error) {
	modeName := input.Mode
	if modeName == "" {
		modeName = excerpt.ModeSequential.String()
		if sc, err := s.ctx.Load(); err == nil {
			sc.mu.RLock()
			modeName = sc.cfg.Excerpt.TitleMode
			sc.mu.RUnlock()
		}
	}
	mode, err := excerpt.ParseMode(modeName)
	if err != nil {
		return errorResult(err.Error()), HighlightTitleOutput{}, nil
	}

	return nil, HighlightTitleOutput{
		HTML: excerpt.HighlightTitleHTML(input.Title, tokensOf(input.Tokens, input.Query), mode),
		Mode: mode.String(),
	}, nil
}

func (s *Server) handleMarkdownToText(ctx context.Context, req *mcp.CallToolRequest, input MarkdownToTextInput) (*mcp.CallToolResult, MarkdownToTextOutput, error) {
	doc := s.ctx.conv.Extract([]byte(input.Markdown))
	return nil, MarkdownToTextOutput{Text: doc.Text, Outline: doc.Outline}, nil
}

func (s *Server) handleListTerms(ctx context.Context, req *mcp.CallToolRequest, input ListTermsInput) (*mcp.CallToolResult, ListTermsOutput, error) {
	name := cmp.Or(strings.ToLower(input.Taxonomy), "tags")
	if name != "tags" && name != "categories" {
		return errorResult(fmt.Sprintf("unknown taxonomy %q: expected tags or categories", input.Taxonomy)), ListTermsOutput{}, nil
	}

	sc, err := s.ctx.Load()
	if err != nil {
		return errorResult(err.Error()), ListTermsOutput{}, nil
	}

	sc.mu.RLock()
	defer sc.mu.RUnlock()

	out := ListTermsOutput{Taxonomy: name, Terms: sc.taxonomies[name].Counts()}
	if input.Near != "" {
		out.Similar = findSimilarTerms(input.Near, sc.TermNames(name), 2)
	}
	return nil, out, nil
}

func (s *Server) handleValidateFrontmatter(ctx context.Context, req *mcp.CallToolRequest, input ValidateFrontmatterInput) (*mcp.CallToolResult, ValidateFrontmatterOutput, error) {
	var tags, cats []string
	if sc, err := s.ctx.Load(); err == nil {
		sc.mu.RLock()
		tags = sc.TermNames("tags")
		cats = sc.TermNames("categories")
		sc.mu.RUnlock()
	}
	return nil, validateFrontmatter(input.Frontmatter, tags, cats), nil
}

// tokensOf prefers explicit tokens and otherwise splits query.
func tokensOf(tokens []string, query string) []string {
	if len(tokens) > 0 {
		return tokens
	}
	return search.ParseQuery(query)
}
