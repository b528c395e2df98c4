package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "refine_search",
		Description: "Help turn a vague information need into search queries that match the indexed content",
		Arguments: []*mcp.PromptArgument{
			{Name: "need", Description: "What the reader is looking for", Required: true},
		},
	}, s.handleRefineSearchPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "index_overview",
		Description: "Summarise what the search index currently holds",
	}, s.handleIndexOverviewPrompt)
}

func (s *Server) handleRefineSearchPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	need := req.Params.Arguments["need"]

	inventory := "(content could not be loaded)"
	var tags string
	if sc, err := s.ctx.Load(); err == nil {
		sc.mu.RLock()
		inventory = describeIndex(sc)
		tags = strings.Join(sc.TermNames("tags"), ", ")
		sc.mu.RUnlock()
	}

	text := fmt.Sprintf(`Find content for this need: %s

Index: %s
Existing tags: %s

Guidelines:
- Search with the search_content tool; every token in a query must occur, so start with two or three distinctive words
- Drop a token when a query returns nothing, and add one when it returns too much
- Use the tag filter when a tag above matches the need
- Report the best results with their URLs and highlighted excerpts`, need, inventory, tags)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Refine a search for: %s", need),
		Messages: []*mcp.PromptMessage{
			{
				Role:    mcp.Role("user"),
				Content: &mcp.TextContent{Text: text},
			},
		},
	}, nil
}

func (s *Server) handleIndexOverviewPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sc, err := s.ctx.Load()
	if err != nil {
		return nil, err
	}

	sc.mu.RLock()
	var b strings.Builder
	fmt.Fprintf(&b, "Summarise this search index for a new reader.\n\n%s\n\nSections:\n", describeIndex(sc))
	for _, sec := range sc.Sections() {
		fmt.Fprintf(&b, "- %s: %d posts (latest %s)\n", sec.Name, sec.PostCount, sec.LatestDate)
	}
	b.WriteString("\nTop tags:\n")
	for i, t := range sc.taxonomies["tags"].Counts() {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "- %s (%d)\n", t.Name, t.Count)
	}
	sc.mu.RUnlock()

	return &mcp.GetPromptResult{
		Description: "Overview of the search index",
		Messages: []*mcp.PromptMessage{
			{
				Role:    mcp.Role("user"),
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}
