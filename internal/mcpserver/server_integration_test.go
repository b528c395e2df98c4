package mcpserver_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/glimpse/internal/mcpserver"
)

// newTestSite writes a small content tree and a config pointing at it.
// It returns the config path.
func newTestSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")

	writeTestFile(t, contentDir, "blog/go-excerpts.md", `---
title: "Building Excerpts in Go"
date: 2025-02-01
tags: [go, search]
categories: [programming]
---
Smart excerpts show every search token that fits.
`)
	writeTestFile(t, contentDir, "blog/kubernetes.md", `---
title: "Kubernetes Notes"
date: 2024-05-01
tags: [kubernetes]
---
Notes on clusters and search.
`)
	writeTestFile(t, contentDir, "notes/draft.md", `---
title: "Unfinished"
date: 2025-03-01
draft: true
tags: [go]
---
Not ready for search.
`)
	writeTestFile(t, contentDir, "about.md", `---
title: "About"
---
About this site.
`)

	cfgPath := filepath.Join(dir, "glimpse.yaml")
	writeTestFile(t, dir, "glimpse.yaml", "title: Test\ncontent:\n  dir: "+contentDir+"\n")
	return cfgPath
}

// newTestClient starts a Server and connects a test client.
// Returns the client session and a cleanup function.
func newTestClient(t *testing.T) (*mcp.ClientSession, func()) {
	t.Helper()

	srv := mcpserver.New(newTestSite(t), "test", nil)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connecting client: %v", err)
	}

	cleanup := func() {
		session.Close()
		cancel()
		select {
		case <-serverDone:
		case <-time.After(2 * time.Second):
		}
	}

	return session, cleanup
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s: %v", name, err)
	}
	if result.IsError {
		t.Fatalf("unexpected error from %s: %v", name, result.Content)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &out); err != nil {
		t.Fatalf("parsing %s output: %v", name, err)
	}
	return out
}

// callToolError calls a tool that must fail and returns its error message.
func callToolError(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool %s: %v", name, err)
	}
	if !result.IsError {
		t.Errorf("expected %s to report an error", name)
		return ""
	}
	if len(result.Content) == 0 {
		return ""
	}
	text, _ := result.Content[0].(*mcp.TextContent)
	if text == nil {
		return ""
	}
	return text.Text
}

func TestIntegration_Initialize(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result := session.InitializeResult()
	if result == nil {
		t.Fatal("expected non-nil initialize result")
	}
	if result.ServerInfo.Name != "glimpse" {
		t.Errorf("expected server name 'glimpse', got %q", result.ServerInfo.Name)
	}
}

func TestIntegration_ListTools(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"search_content", "generate_excerpt", "highlight_title", "markdown_to_text", "list_terms", "validate_frontmatter"} {
		if !names[want] {
			t.Errorf("expected tool %q not found", want)
		}
	}
}

func TestIntegration_ListResources(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result, err := session.ListResources(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListResources: %v", err)
	}

	uris := make(map[string]bool)
	for _, r := range result.Resources {
		uris[r.URI] = true
	}
	for _, uri := range []string{"glimpse://config", "glimpse://index", "glimpse://sections", "glimpse://terms"} {
		if !uris[uri] {
			t.Errorf("expected resource %q not found in list", uri)
		}
	}
}

func TestIntegration_SearchContent(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "search_content", map[string]any{"query": "search"})
	if count, _ := out["count"].(float64); count != 2 {
		t.Fatalf("count = %v, want 2 (drafts excluded)", out["count"])
	}

	results := out["results"].([]any)
	first := results[0].(map[string]any)
	if first["url"] != "/blog/go-excerpts/" {
		t.Errorf("first result = %v, want newest post first", first["url"])
	}
	if html, _ := first["excerptHTML"].(string); !strings.Contains(html, "<mark>search</mark>") {
		t.Errorf("excerptHTML = %q, want marked token", html)
	}
}

func TestIntegration_SearchContent_Filters(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "search_content", map[string]any{"query": "", "tag": "kubernetes"})
	if count, _ := out["count"].(float64); count != 1 {
		t.Errorf("tag filter count = %v, want 1", out["count"])
	}

	out = callTool(t, session, "search_content", map[string]any{"query": "search", "limit": 1})
	if count, _ := out["count"].(float64); count != 1 {
		t.Errorf("limited count = %v, want 1", out["count"])
	}

	callToolError(t, session, "search_content", map[string]any{"query": "go", "section": "nonexistent"})
	msg := callToolError(t, session, "search_content", map[string]any{"query": "go", "limit": 500})
	if !strings.Contains(msg, "between 0 and 100") {
		t.Errorf("limit error = %q", msg)
	}

	out = callTool(t, session, "search_content", map[string]any{"query": "go", "limit": 0})
	if count, _ := out["count"].(float64); count < 1 {
		t.Errorf("limit 0 should use the default limit, count = %v", out["count"])
	}
}

func TestIntegration_GenerateExcerpt(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "generate_excerpt", map[string]any{"text": "hello world", "query": "world"})
	if out["html"] != "hello <mark>world</mark>" {
		t.Errorf("html = %q", out["html"])
	}

	out = callTool(t, session, "generate_excerpt", map[string]any{"markdown": "Some **bold** text", "tokens": []any{"bold"}})
	if out["text"] != "Some bold text" || out["html"] != "Some <mark>bold</mark> text" {
		t.Errorf("markdown excerpt = %v", out)
	}

	out = callTool(t, session, "generate_excerpt", map[string]any{"text": "<b>x</b>", "query": "zzz"})
	if out["html"] != "&lt;b&gt;x&lt;/b&gt;" {
		t.Errorf("unmatched excerpt html = %q, want escaped text", out["html"])
	}

	callToolError(t, session, "generate_excerpt", map[string]any{"query": "x"})
}

func TestIntegration_HighlightTitle(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "highlight_title", map[string]any{"title": "Go & Search", "query": "search"})
	if out["html"] != "Go &amp; <mark>Search</mark>" || out["mode"] != "sequential" {
		t.Errorf("sequential = %v", out)
	}

	out = callTool(t, session, "highlight_title", map[string]any{"title": "Go Search", "tokens": []any{"go", "search"}, "mode": "combined"})
	if out["html"] != "<mark>Go</mark> <mark>Search</mark>" {
		t.Errorf("combined = %v", out)
	}

	out = callTool(t, session, "highlight_title", map[string]any{"title": "<i>Go</i> & Search"})
	if out["html"] != "&lt;i&gt;Go&lt;/i&gt; &amp; Search" {
		t.Errorf("title without tokens = %q, want escaped title", out["html"])
	}

	callToolError(t, session, "highlight_title", map[string]any{"title": "Go", "mode": "bogus"})
}

func TestIntegration_MarkdownToText(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "markdown_to_text", map[string]any{"markdown": "# Title\n\nA [link](http://x) here."})
	if out["text"] != "Title A link here." {
		t.Errorf("text = %q", out["text"])
	}
	outline, _ := out["outline"].([]any)
	if len(outline) != 1 {
		t.Fatalf("outline = %v, want one heading", out["outline"])
	}
	if h := outline[0].(map[string]any); h["title"] != "Title" {
		t.Errorf("heading = %v", h)
	}
}

func TestIntegration_ListTerms(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "list_terms", map[string]any{"near": "kubernetez"})
	if out["taxonomy"] != "tags" {
		t.Errorf("taxonomy = %v, want tags", out["taxonomy"])
	}
	terms := out["terms"].([]any)
	if len(terms) != 3 {
		t.Errorf("got %d tags, want 3: %v", len(terms), terms)
	}
	similar, _ := out["similar"].([]any)
	if len(similar) != 1 || similar[0] != "kubernetes" {
		t.Errorf("similar = %v, want [kubernetes]", out["similar"])
	}

	out = callTool(t, session, "list_terms", map[string]any{"taxonomy": "categories"})
	if terms := out["terms"].([]any); len(terms) != 1 {
		t.Errorf("got %d categories, want 1", len(terms))
	}

	callToolError(t, session, "list_terms", map[string]any{"taxonomy": "series"})
}

func TestIntegration_ValidateFrontmatter(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	out := callTool(t, session, "validate_frontmatter", map[string]any{
		"frontmatter": "title: x\ntags: [serch]\n",
	})
	if out["valid"] != true {
		t.Errorf("expected valid, got %v", out)
	}
	warnings, _ := out["warnings"].([]any)
	if len(warnings) != 1 || warnings[0].(map[string]any)["suggestion"] != "search" {
		t.Errorf("warnings = %v, want suggestion search", out["warnings"])
	}

	out = callTool(t, session, "validate_frontmatter", map[string]any{"frontmatter": "date: tomorrow\n"})
	if out["valid"] != false {
		t.Errorf("expected invalid for bad date, got %v", out)
	}
}

func TestIntegration_IndexResource(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "glimpse://index"})
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &entries); err != nil {
		t.Fatalf("parsing index: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestIntegration_ConfigResource(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "glimpse://config"})
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &cfg); err != nil {
		t.Fatalf("parsing config JSON: %v", err)
	}
	if cfg["Title"] != "Test" {
		t.Errorf("Title = %v, want Test", cfg["Title"])
	}
}

func TestIntegration_TaxonomyDetailResource(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "glimpse://terms/tags"})
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, "/blog/kubernetes/") {
		t.Errorf("expected kubernetes URL in %s", result.Contents[0].Text)
	}

	if _, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "glimpse://terms/series"}); err == nil {
		t.Error("expected error for unknown taxonomy")
	}
}

func TestIntegration_IndexOverviewPrompt(t *testing.T) {
	session, cleanup := newTestClient(t)
	defer cleanup()

	result, err := session.GetPrompt(context.Background(), &mcp.GetPromptParams{Name: "index_overview"})
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	text := result.Messages[0].Content.(*mcp.TextContent).Text
	if !strings.Contains(text, "3 indexed posts") {
		t.Errorf("prompt text = %q", text)
	}
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	fullPath := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
