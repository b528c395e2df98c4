package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/glimpse/internal/search"
)

const (
	configURI   = "glimpse://config"
	indexURI    = "glimpse://index"
	sectionsURI = "glimpse://sections"
	termsURI    = "glimpse://terms"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         configURI,
		Name:        "Configuration",
		Description: "Resolved glimpse configuration",
		MIMEType:    "application/json",
	}, s.handleConfigResource)

	s.server.AddResource(&mcp.Resource{
		URI:         indexURI,
		Name:        "Search Index",
		Description: "The JSON search index as written by glimpse index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	s.server.AddResource(&mcp.Resource{
		URI:         sectionsURI,
		Name:        "Sections",
		Description: "All content sections with post counts",
		MIMEType:    "application/json",
	}, s.handleSectionsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         termsURI,
		Name:        "Taxonomy Terms",
		Description: "Tags and categories with post counts",
		MIMEType:    "application/json",
	}, s.handleTermsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: termsURI + "/{taxonomy}",
		Name:        "Taxonomy Detail",
		Description: "Terms of one taxonomy and the URLs filed under each",
		MIMEType:    "application/json",
	}, s.handleTaxonomyDetailResource)
}

func jsonResource(uri, data string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: data},
		},
	}
}

func marshalResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, string(b)), nil
}

func (s *Server) handleConfigResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sc, err := s.ctx.Load()
	if err != nil {
		return nil, err
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return marshalResource(req.Params.URI, sc.cfg)
}

func (s *Server) handleIndexResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sc, err := s.ctx.Load()
	if err != nil {
		return nil, err
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	data, err := search.GenerateIndex(sc.lib.Entries(), sc.cfg.Search.ContentLength)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

func (s *Server) handleSectionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sc, err := s.ctx.Load()
	if err != nil {
		return nil, err
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return marshalResource(req.Params.URI, map[string]any{"sections": sc.Sections()})
}

func (s *Server) handleTermsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sc, err := s.ctx.Load()
	if err != nil {
		return nil, err
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return marshalResource(req.Params.URI, map[string]any{
		"tags":       sc.taxonomies["tags"].Counts(),
		"categories": sc.taxonomies["categories"].Counts(),
	})
}

func (s *Server) handleTaxonomyDetailResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	name := strings.TrimPrefix(req.Params.URI, termsURI+"/")

	sc, err := s.ctx.Load()
	if err != nil {
		return nil, err
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	tax, ok := sc.taxonomies[name]
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type termDetail struct {
		Name  string   `json:"name"`
		Count int      `json:"count"`
		URLs  []string `json:"urls"`
	}
	terms := make([]termDetail, 0, len(tax.Terms))
	for _, t := range tax.Counts() {
		posts := tax.Terms[t.Name]
		urls := make([]string, len(posts))
		for i, p := range posts {
			urls[i] = p.URL
		}
		terms = append(terms, termDetail{Name: t.Name, Count: t.Count, URLs: urls})
	}
	return marshalResource(req.Params.URI, map[string]any{
		"taxonomy": name,
		"terms":    terms,
	})
}

// describeIndex is a one-line inventory used by prompts.
func describeIndex(sc *SiteContext) string {
	return fmt.Sprintf("%d indexed posts in sections: %s", sc.lib.Len(), strings.Join(sc.SectionNames(), ", "))
}
