package plaintext

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// imagePlaceholder stands in for images that carry no alt text.
const imagePlaceholder = "图片"

// extract flattens the tree rooted at n into raw, unnormalized text.
func extract(n ast.Node, source []byte) string {
	var b strings.Builder
	writeNode(&b, n, source)
	return b.String()
}

func writeNode(b *strings.Builder, n ast.Node, source []byte) {
	switch node := n.(type) {
	case *ast.Text:
		b.WriteString(stripTags(textValue(node, source)))
		if node.SoftLineBreak() || node.HardLineBreak() {
			b.WriteByte('\n')
		}
		return

	case *ast.String:
		b.WriteString(stripTags(string(node.Value)))
		return

	case *ast.CodeSpan:
		var code strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				code.Write(t.Segment.Value(source))
			}
		}
		b.WriteString(stripTags(code.String()))
		return

	case *ast.FencedCodeBlock:
		writeLines(b, node.Lines(), source)
		b.WriteByte(' ')
		return

	case *ast.CodeBlock:
		writeLines(b, node.Lines(), source)
		b.WriteByte(' ')
		return

	case *ast.Image:
		alt := altText(node, source)
		if alt == "" {
			alt = imagePlaceholder
		}
		b.WriteString("[" + alt + "] ")
		return

	case *ast.HTMLBlock:
		var raw strings.Builder
		writeLines(&raw, node.Lines(), source)
		if node.HasClosure() {
			raw.Write(node.ClosureLine.Value(source))
		}
		b.WriteString(stripRawHTML(raw.String()))
		return

	case *ast.RawHTML:
		var raw strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			raw.Write(seg.Value(source))
		}
		b.WriteString(stripRawHTML(raw.String()))
		return

	case *ast.ThematicBreak:
		b.WriteByte(' ')
		return

	case *ast.AutoLink:
		b.Write(node.Label(source))
		return

	case *MathNode:
		return
	}

	if !n.HasChildren() {
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeNode(b, c, source)
	}
	if isBlockLevel(n) {
		b.WriteByte(' ')
	}
}

// isBlockLevel reports whether n separates its text from the following
// node with a space.
func isBlockLevel(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading, *ast.ListItem,
		*ast.Blockquote, *east.TableRow, *east.TableHeader, *east.TableCell:
		return true
	default:
		return false
	}
}

// textValue decodes a text segment the way an HTML renderer would:
// backslash escapes and character references are resolved unless the
// segment is raw.
func textValue(t *ast.Text, source []byte) string {
	v := t.Segment.Value(source)
	if t.IsRaw() {
		return string(v)
	}
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	v = util.ResolveEntityNames(v)
	return string(v)
}

// altText concatenates the text under an image node.
func altText(img *ast.Image, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(img, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.WriteString(textValue(t, source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func writeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
}
