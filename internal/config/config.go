// Package config handles loading, validating, and managing configuration
// for glimpse.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/aellingwood/glimpse/internal/excerpt"
)

// EnvPrefix is the prefix of environment variables that override config
// keys, e.g. GLIMPSE_EXCERPT_MAXLENGTH.
const EnvPrefix = "GLIMPSE"

// Config is the top-level glimpse configuration.
type Config struct {
	Title     string          `yaml:"title"     mapstructure:"title"`
	BaseURL   string          `yaml:"baseURL"   mapstructure:"baseURL"`
	Content   ContentConfig   `yaml:"content"   mapstructure:"content"`
	Excerpt   ExcerptConfig   `yaml:"excerpt"   mapstructure:"excerpt"`
	Search    SearchConfig    `yaml:"search"    mapstructure:"search"`
	Server    ServerConfig    `yaml:"server"    mapstructure:"server"`
	Highlight HighlightConfig `yaml:"highlight" mapstructure:"highlight"`
	Publish   PublishConfig   `yaml:"publish"   mapstructure:"publish"`
}

// ContentConfig controls where posts are read from.
type ContentConfig struct {
	Dir           string   `yaml:"dir"           mapstructure:"dir"`
	IncludeDrafts bool     `yaml:"includeDrafts" mapstructure:"includeDrafts"`
	Sections      []string `yaml:"sections"      mapstructure:"sections"`
}

// ExcerptConfig controls excerpt generation.
type ExcerptConfig struct {
	MaxLength int    `yaml:"maxLength" mapstructure:"maxLength"`
	TitleMode string `yaml:"titleMode" mapstructure:"titleMode"`
}

// SearchConfig controls the search index.
type SearchConfig struct {
	Enabled       bool   `yaml:"enabled"       mapstructure:"enabled"`
	ContentLength int    `yaml:"contentLength" mapstructure:"contentLength"`
	Output        string `yaml:"output"        mapstructure:"output"`
	IndexFile     string `yaml:"indexFile"     mapstructure:"indexFile"`
	Limit         int    `yaml:"limit"         mapstructure:"limit"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port        int    `yaml:"port"        mapstructure:"port"`
	Host        string `yaml:"host"        mapstructure:"host"`
	LiveReindex bool   `yaml:"liveReindex" mapstructure:"liveReindex"`
}

// HighlightConfig controls terminal colouring of excerpt output.
type HighlightConfig struct {
	Style string `yaml:"style" mapstructure:"style"`
}

// PublishConfig holds the index publishing target.
type PublishConfig struct {
	Endpoint   string           `yaml:"endpoint"   mapstructure:"endpoint"`
	Profile    string           `yaml:"profile"    mapstructure:"profile"`
	S3         S3Config         `yaml:"s3"         mapstructure:"s3"`
	CloudFront CloudFrontConfig `yaml:"cloudfront" mapstructure:"cloudfront"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Region string `yaml:"region" mapstructure:"region"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// CloudFrontConfig holds AWS CloudFront invalidation settings.
type CloudFrontConfig struct {
	DistributionID  string   `yaml:"distributionId"  mapstructure:"distributionId"`
	InvalidatePaths []string `yaml:"invalidatePaths" mapstructure:"invalidatePaths"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Content: ContentConfig{
			Dir: "content",
		},
		Excerpt: ExcerptConfig{
			MaxLength: excerpt.DefaultMaxLength,
			TitleMode: excerpt.ModeSequential.String(),
		},
		Search: SearchConfig{
			Enabled:       true,
			ContentLength: 5000,
			Output:        "public",
			IndexFile:     "search-index.json",
			Limit:         20,
		},
		Server: ServerConfig{
			Port:        1414,
			Host:        "localhost",
			LiveReindex: true,
		},
		Highlight: HighlightConfig{
			Style: "github",
		},
	}
}

// Load reads the configuration file at configPath (YAML or TOML) on top of
// the defaults and applies GLIMPSE_* environment overrides. A missing file
// is not an error: the defaults and environment are used alone.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			switch strings.TrimPrefix(filepath.Ext(configPath), ".") {
			case "toml":
				v.SetConfigType("toml")
			default:
				v.SetConfigType("yaml")
			}
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key with viper so AutomaticEnv can override
// keys that the config file does not mention.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("title", cfg.Title)
	v.SetDefault("baseURL", cfg.BaseURL)
	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.includeDrafts", cfg.Content.IncludeDrafts)
	v.SetDefault("content.sections", cfg.Content.Sections)
	v.SetDefault("excerpt.maxLength", cfg.Excerpt.MaxLength)
	v.SetDefault("excerpt.titleMode", cfg.Excerpt.TitleMode)
	v.SetDefault("search.enabled", cfg.Search.Enabled)
	v.SetDefault("search.contentLength", cfg.Search.ContentLength)
	v.SetDefault("search.output", cfg.Search.Output)
	v.SetDefault("search.indexFile", cfg.Search.IndexFile)
	v.SetDefault("search.limit", cfg.Search.Limit)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.liveReindex", cfg.Server.LiveReindex)
	v.SetDefault("highlight.style", cfg.Highlight.Style)
	v.SetDefault("publish.endpoint", cfg.Publish.Endpoint)
	v.SetDefault("publish.profile", cfg.Publish.Profile)
	v.SetDefault("publish.s3.bucket", cfg.Publish.S3.Bucket)
	v.SetDefault("publish.s3.region", cfg.Publish.S3.Region)
	v.SetDefault("publish.s3.prefix", cfg.Publish.S3.Prefix)
	v.SetDefault("publish.cloudfront.distributionId", cfg.Publish.CloudFront.DistributionID)
	v.SetDefault("publish.cloudfront.invalidatePaths", cfg.Publish.CloudFront.InvalidatePaths)
}

// Validate checks the Config for common errors.
// It returns a descriptive error if:
//   - BaseURL has a trailing slash
//   - the content directory is empty
//   - excerpt.maxLength or search.limit is negative
//   - excerpt.titleMode is unknown
//   - server.port is out of range
func (c *Config) Validate() error {
	if c.BaseURL != "" && strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("config: baseURL must not have a trailing slash (got %q)", c.BaseURL)
	}

	if strings.TrimSpace(c.Content.Dir) == "" {
		return fmt.Errorf("config: content.dir is required")
	}

	if c.Excerpt.MaxLength < 0 {
		return fmt.Errorf("config: excerpt.maxLength must not be negative (got %d)", c.Excerpt.MaxLength)
	}

	if _, err := excerpt.ParseMode(c.Excerpt.TitleMode); err != nil {
		return fmt.Errorf("config: excerpt.titleMode: %w", err)
	}

	if c.Search.Limit < 0 {
		return fmt.Errorf("config: search.limit must not be negative (got %d)", c.Search.Limit)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port out of range (got %d)", c.Server.Port)
	}

	return nil
}

// Highlighter returns the excerpt settings as an excerpt.Highlighter. An
// unknown title mode falls back to sequential; Validate reports it.
func (c *Config) Highlighter() excerpt.Highlighter {
	mode, _ := excerpt.ParseMode(c.Excerpt.TitleMode)
	return excerpt.Highlighter{MaxLength: c.Excerpt.MaxLength, TitleMode: mode}
}

// IndexPath is the path of the generated search index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.Search.Output, c.Search.IndexFile)
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is returned
// for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "baseURL":
			if s, ok := val.(string); ok {
				c.BaseURL = s
			}
		case "title":
			if s, ok := val.(string); ok {
				c.Title = s
			}
		case "contentDir":
			if s, ok := val.(string); ok {
				c.Content.Dir = s
			}
		case "drafts":
			if b, ok := val.(bool); ok {
				c.Content.IncludeDrafts = b
			}
		case "maxLength":
			if n, ok := val.(int); ok {
				c.Excerpt.MaxLength = n
			}
		case "titleMode":
			if s, ok := val.(string); ok {
				c.Excerpt.TitleMode = s
			}
		case "output":
			if s, ok := val.(string); ok {
				c.Search.Output = s
			}
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok {
				c.Server.Host = s
			}
		case "liveReindex":
			if b, ok := val.(bool); ok {
				c.Server.LiveReindex = b
			}
		}
	}
	return c
}
