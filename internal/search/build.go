package search

import (
	"fmt"
	"log/slog"

	"github.com/aellingwood/glimpse/internal/config"
	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/plaintext"
)

// Load discovers the posts configured in cfg and builds a Library over
// them. The posts are returned as well for callers that need more than the
// index holds.
func Load(cfg *config.Config, conv *plaintext.Converter, logger *slog.Logger) (*Library, []*content.Post, error) {
	if logger == nil {
		logger = slog.Default()
	}

	posts, err := content.Discover(cfg.Content.Dir, content.Options{
		IncludeDrafts: cfg.Content.IncludeDrafts,
		Sections:      cfg.Content.Sections,
		Converter:     conv,
		Logger:        logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading content: %w", err)
	}

	lib := NewLibrary(BuildEntries(posts), cfg.Highlighter())
	logger.Debug("search library built", "entries", lib.Len())
	return lib, posts, nil
}
