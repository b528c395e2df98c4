package plaintext

import (
	"log/slog"

	"github.com/yuin/goldmark/ast"
	"go.abhg.dev/goldmark/toc"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	ID    string `json:"id"`
}

// outline lists the headings of root in document order. Placeholder
// entries that toc inserts for skipped levels are omitted.
func outline(root ast.Node, source []byte, logger *slog.Logger) []Heading {
	tree, err := toc.Inspect(root, source)
	if err != nil {
		logger.Debug("heading outline unavailable", "err", err)
		return nil
	}

	var headings []Heading
	var walk func(items toc.Items, level int)
	walk = func(items toc.Items, level int) {
		for _, item := range items {
			if len(item.Title) > 0 {
				headings = append(headings, Heading{
					Level: level,
					Title: string(item.Title),
					ID:    string(item.ID),
				})
			}
			walk(item.Items, level+1)
		}
	}
	walk(tree.Items, 1)
	return headings
}
