package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server is the MCP server for glimpse.
type Server struct {
	server     *mcp.Server
	configPath string
	ctx        *SiteContext
	logger     *slog.Logger
	version    string
}

// New creates a Server answering from the content configured in
// configPath. A missing config file means defaults.
func New(configPath, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		configPath: configPath,
		logger:     logger,
		version:    version,
	}
	s.ctx = NewSiteContext(configPath, logger)

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "glimpse",
			Version: version,
		},
		nil,
	)

	s.registerResources()
	s.registerTools()
	s.registerPrompts()

	return s
}

// Run starts the MCP server on the given transport.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.startWatcher(ctx)
	return s.server.Run(ctx, transport)
}

func ptr[T any](v T) *T {
	return &v
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
