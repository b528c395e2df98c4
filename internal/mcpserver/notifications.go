package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/glimpse/internal/server"
)

// startWatcher starts a file watcher that marks the site context dirty and
// sends resource update notifications when content or config changes.
func (s *Server) startWatcher(ctx context.Context) {
	if _, err := s.ctx.Load(); err != nil {
		s.logger.Warn("initial content load failed", "err", err)
	}
	watchPaths := []string{s.ctx.ContentDir(), s.configPath}

	watcher := server.NewWatcher(watchPaths, 500*time.Millisecond, func() {
		s.ctx.MarkDirty()
		for _, uri := range []string{indexURI, termsURI} {
			if err := s.server.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
				s.logger.Debug("resource update notification failed", "uri", uri, "err", err)
			}
		}
	}, s.logger)

	go func() {
		if err := watcher.Start(); err != nil {
			s.logger.Warn("file watching disabled", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		watcher.Stop()
	}()
}
