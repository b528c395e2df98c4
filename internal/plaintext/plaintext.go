// Package plaintext flattens Markdown into normalized plain text suitable
// for search indexing and excerpting.
//
// The Markdown is parsed with goldmark (GFM plus inline math) and the AST
// is walked so that formatting markers and embedded HTML disappear while
// the readable content stays: code is kept verbatim and images are
// replaced with their alt text.
package plaintext

import (
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Document is the result of a single Markdown parse.
type Document struct {
	Text    string
	Outline []Heading
}

// Converter turns Markdown into plain text. A Converter is safe for
// concurrent use.
type Converter struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewConverter creates a Converter with GFM and math parsing enabled.
func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			Math,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Converter{md: md, logger: logger}
}

var defaultConverter = NewConverter(nil)

// FromMarkdown converts markdown to plain text with the default Converter.
func FromMarkdown(markdown string) string {
	return defaultConverter.Convert(markdown)
}

// Convert returns the plain text of markdown. It never fails: if the
// parser cannot handle the input, tags are stripped from the raw source
// instead.
func (c *Converter) Convert(markdown string) string {
	return c.Extract([]byte(markdown)).Text
}

// Extract returns the plain text and heading outline of source.
func (c *Converter) Extract(source []byte) (doc Document) {
	if len(source) == 0 {
		return Document{}
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("markdown parse failed, using raw text", "err", fmt.Sprint(r))
			doc = Document{Text: fallback(string(source))}
		}
	}()

	root := c.md.Parser().Parse(text.NewReader(source))
	return Document{
		Text:    norm.NFC.String(clean(extract(root, source))),
		Outline: outline(root, source, c.logger),
	}
}

