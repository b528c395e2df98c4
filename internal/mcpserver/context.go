package mcpserver

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aellingwood/glimpse/internal/config"
	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/search"
)

// SiteContext holds a cached, in-memory search library for the content
// directory named in the configuration file.
type SiteContext struct {
	mu         sync.RWMutex
	configPath string
	logger     *slog.Logger
	conv       *plaintext.Converter

	cfg        *config.Config
	lib        *search.Library
	posts      []*content.Post
	taxonomies map[string]*content.Taxonomy
	loadedAt   time.Time
	dirty      bool
}

// NewSiteContext creates a SiteContext reading configPath.
func NewSiteContext(configPath string, logger *slog.Logger) *SiteContext {
	return &SiteContext{
		configPath: configPath,
		logger:     logger,
		conv:       plaintext.NewConverter(logger),
		dirty:      true,
	}
}

// Load returns the loaded (and cached) site context, reloading if dirty.
func (sc *SiteContext) Load() (*SiteContext, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.dirty && !sc.loadedAt.IsZero() {
		return sc, nil
	}

	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lib, posts, err := search.Load(cfg, sc.conv, sc.logger)
	if err != nil {
		return nil, err
	}

	sc.cfg = cfg
	sc.lib = lib
	sc.posts = posts
	sc.taxonomies = content.BuildTaxonomies(posts)
	sc.loadedAt = time.Now()
	sc.dirty = false

	sc.logger.Debug("site context loaded", "posts", len(posts))
	return sc, nil
}

// MarkDirty marks the context as needing a reload.
func (sc *SiteContext) MarkDirty() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.dirty = true
}

// ContentDir returns the content directory of the last loaded config, or
// the default when nothing has loaded yet.
func (sc *SiteContext) ContentDir() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.cfg == nil {
		return config.Default().Content.Dir
	}
	return sc.cfg.Content.Dir
}

// HasSection returns true if the given section name exists.
func (sc *SiteContext) HasSection(name string) bool {
	for _, p := range sc.posts {
		if p.Section == name {
			return true
		}
	}
	return false
}

// SectionNames returns all unique section names.
func (sc *SiteContext) SectionNames() []string {
	seen := make(map[string]bool)
	for _, p := range sc.posts {
		if p.Section != "" {
			seen[p.Section] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sections summarises every section. Posts are already newest first, so
// the first post seen carries the latest date.
func (sc *SiteContext) Sections() []SectionInfo {
	index := make(map[string]*SectionInfo)
	var order []string
	for _, p := range sc.posts {
		name := p.Section
		if name == "" {
			name = "(root)"
		}
		info, ok := index[name]
		if !ok {
			info = &SectionInfo{Name: name}
			if !p.Date.IsZero() {
				info.LatestDate = p.Date.Format("2006-01-02")
			}
			index[name] = info
			order = append(order, name)
		}
		info.PostCount++
	}
	sort.Strings(order)
	out := make([]SectionInfo, len(order))
	for i, name := range order {
		out[i] = *index[name]
	}
	return out
}

// TermNames returns the term names of taxonomy, sorted.
func (sc *SiteContext) TermNames(taxonomy string) []string {
	tax, ok := sc.taxonomies[taxonomy]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(tax.Terms))
	for name := range tax.Terms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
