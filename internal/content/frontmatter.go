package content

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Frontmatter delimiters.
var (
	yamlDelimiter = []byte("---")
	tomlDelimiter = []byte("+++")
)

// Date formats supported for parsing date fields in frontmatter.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-07:00",
	time.RFC3339,
}

// FrontMatter is the metadata block at the top of a post.
type FrontMatter struct {
	Title       string   `yaml:"title"       toml:"title"`
	Slug        string   `yaml:"slug"        toml:"slug"`
	Description string   `yaml:"description" toml:"description"`
	Summary     string   `yaml:"summary"     toml:"summary"`
	Date        Date     `yaml:"date"        toml:"date"`
	Lastmod     Date     `yaml:"lastmod"     toml:"lastmod"`
	Draft       bool     `yaml:"draft"       toml:"draft"`
	Tags        []string `yaml:"tags"        toml:"tags"`
	Categories  []string `yaml:"categories"  toml:"categories"`
}

// Date is a front matter timestamp that accepts native YAML/TOML dates as
// well as the string layouts in dateFormats.
type Date struct {
	time.Time
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	t, err := parseDate(v)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (d *Date) UnmarshalTOML(v any) error {
	t, err := parseDate(v)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseFrontmatter detects and parses frontmatter from raw content bytes.
// It supports YAML (--- delimiters) and TOML (+++ delimiters).
//
// If no frontmatter delimiters are found, it returns a zero FrontMatter, the
// full content as body, and no error.
func ParseFrontmatter(raw []byte) (fm FrontMatter, body []byte, err error) {
	trimmed := bytes.TrimLeft(raw, " \t\n\r")

	var delimiter []byte
	switch {
	case bytes.HasPrefix(trimmed, yamlDelimiter):
		delimiter = yamlDelimiter
	case bytes.HasPrefix(trimmed, tomlDelimiter):
		delimiter = tomlDelimiter
	default:
		return fm, raw, nil
	}

	rest := trimmed[len(delimiter):]
	nlIdx := bytes.IndexByte(rest, '\n')
	if nlIdx == -1 {
		// Only the opening delimiter, no closing one.
		return fm, raw, nil
	}
	rest = rest[nlIdx+1:]

	block, after, ok := bytes.Cut(rest, delimiter)
	if !ok {
		return fm, raw, fmt.Errorf("closing frontmatter delimiter %q not found", string(delimiter))
	}

	if nlIdx = bytes.IndexByte(after, '\n'); nlIdx != -1 {
		body = after[nlIdx+1:]
	}

	if len(bytes.TrimSpace(block)) == 0 {
		return fm, body, nil
	}

	if bytes.Equal(delimiter, yamlDelimiter) {
		if err := yaml.Unmarshal(block, &fm); err != nil {
			return FrontMatter{}, nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
		}
	} else {
		if err := toml.Unmarshal(block, &fm); err != nil {
			return FrontMatter{}, nil, fmt.Errorf("failed to parse TOML frontmatter: %w", err)
		}
	}

	return fm, body, nil
}

// parseDate attempts to parse a date value that may be a string or a
// time.Time (some YAML/TOML parsers auto-detect dates). Empty values give
// the zero time.
func parseDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return val, nil
	case string:
		if val == "" {
			return time.Time{}, nil
		}
		for _, format := range dateFormats {
			if t, err := time.Parse(format, val); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unable to parse date string %q", val)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}
