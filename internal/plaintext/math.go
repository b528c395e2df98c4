package plaintext

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the node kind of inline and display math.
var KindMath = ast.NewNodeKind("Math")

// MathNode holds a $...$ or $$...$$ span. Its content is TeX source and is
// left out of the plain text.
type MathNode struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *MathNode) Kind() ast.NodeKind { return KindMath }

// Dump implements ast.Node.
func (n *MathNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": fmt.Sprint(n.Display),
		"Value":   string(n.Value),
	}, nil)
}

type mathParser struct{}

func (mathParser) Trigger() []byte { return []byte{'$'} }

// Parse recognizes math on a single line. An opening $ must not be
// followed by a space and a closing $ must not be preceded by one, so
// prices like "$5 and $10" stay text.
func (mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	body := line[delim:]
	if len(body) == 0 || isSpace(body[0]) {
		return nil
	}

	end := -1
	for i := 0; i < len(body) && end < 0; i++ {
		switch c := body[i]; {
		case c == '\\':
			i++
		case c != '$' || i == 0 || isSpace(body[i-1]):
		case delim == 2:
			if i+1 < len(body) && body[i+1] == '$' {
				end = i
			}
		default:
			end = i
		}
	}
	if end < 0 {
		return nil
	}

	node := &MathNode{Display: delim == 2, Value: append([]byte(nil), body[:end]...)}
	block.Advance(2*delim + end)
	return node
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type mathExtension struct{}

// Math is a goldmark extension that parses $ and $$ delimited math into
// MathNode values.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(mathParser{}, 500)),
	)
}
