package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse builds a document from Markdown source.
func Parse(src []byte, opts ...Option) (*Document, error) {
	md := goldmark.New()
	tree := md.Parser().Parse(text.NewReader(src))

	b := &builder{src: src}
	root := &Node{kind: KindDocument}
	b.walk(tree, root)

	leaves := compact(root)
	if len(leaves) == 0 {
		return nil, ErrEmptyDocument
	}

	return newDocument(root, leaves, opts...), nil
}

// ParseString builds a document from a Markdown string.
func ParseString(src string, opts ...Option) (*Document, error) {
	return Parse([]byte(src), opts...)
}

type builder struct {
	src []byte
}

// walk converts the children of n into children of parent.
func (b *builder) walk(n ast.Node, parent *Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			s := string(v.Segment.Value(b.src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				s += " "
			}
			b.appendText(parent, s)
		case *ast.String:
			b.appendText(parent, string(v.Value))
		case *ast.AutoLink:
			link := &Node{kind: KindLink}
			parent.appendChild(link)
			b.appendText(link, string(v.URL(b.src)))
		case *ast.FencedCodeBlock:
			b.appendCode(parent, v.Lines())
		case *ast.CodeBlock:
			b.appendCode(parent, v.Lines())
		case *ast.HTMLBlock, *ast.RawHTML, *ast.ThematicBreak:
			// Markup with no readable text.
		default:
			kind, level, ok := classify(c)
			if !ok {
				b.walk(c, parent)
				continue
			}
			node := &Node{kind: kind, level: level}
			parent.appendChild(node)
			b.walk(c, node)
		}
	}
}

// appendText extends the trailing leaf of parent or starts a new one.
func (b *builder) appendText(parent *Node, s string) {
	if n := len(parent.children); n > 0 {
		if last := parent.children[n-1]; last.IsLeaf() {
			last.text += s
			return
		}
	}
	parent.appendChild(&Node{kind: KindText, text: s})
}

func (b *builder) appendCode(parent *Node, lines *text.Segments) {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(b.src))
	}
	code := &Node{kind: KindCodeBlock}
	parent.appendChild(code)
	code.appendChild(&Node{kind: KindText, text: strings.TrimRight(buf.String(), "\n")})
}

// classify maps goldmark node types onto document kinds.
func classify(n ast.Node) (Kind, int, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		return KindHeading, v.Level, true
	case *ast.Paragraph, *ast.TextBlock:
		return KindParagraph, 0, true
	case *ast.List:
		return KindList, 0, true
	case *ast.ListItem:
		return KindListItem, 0, true
	case *ast.Blockquote:
		return KindBlockQuote, 0, true
	case *ast.Link, *ast.Image:
		return KindLink, 0, true
	case *ast.Emphasis:
		if v.Level >= 2 {
			return KindStrong, 0, true
		}
		return KindEmphasis, 0, true
	case *ast.CodeSpan:
		return KindCode, 0, true
	}
	return 0, 0, false
}

// compact removes blank leaves and empty elements, then numbers the
// remaining leaves in reading order.
func compact(root *Node) []*Node {
	var leaves []*Node
	var prune func(n *Node) bool
	prune = func(n *Node) bool {
		if n.IsLeaf() {
			if strings.TrimSpace(n.text) == "" {
				return false
			}
			n.runes = []rune(n.text)
			n.ordinal = len(leaves)
			leaves = append(leaves, n)
			return true
		}
		kept := n.children[:0]
		for _, c := range n.children {
			if prune(c) {
				kept = append(kept, c)
			}
		}
		n.children = kept
		return len(kept) > 0
	}
	prune(root)
	return leaves
}
