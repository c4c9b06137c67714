package document

import "fmt"

// Kind identifies the element a Node represents.
type Kind uint8

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindBlockQuote
	KindCodeBlock
	KindLink
	KindEmphasis
	KindStrong
	KindCode
	KindText
)

var kindNames = [...]string{
	KindDocument:   "document",
	KindHeading:    "heading",
	KindParagraph:  "paragraph",
	KindList:       "list",
	KindListItem:   "list-item",
	KindBlockQuote: "blockquote",
	KindCodeBlock:  "code-block",
	KindLink:       "link",
	KindEmphasis:   "emphasis",
	KindStrong:     "strong",
	KindCode:       "code",
	KindText:       "text",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsBlock returns true for block-level kinds.
func (k Kind) IsBlock() bool {
	switch k {
	case KindDocument, KindHeading, KindParagraph, KindList, KindListItem, KindBlockQuote, KindCodeBlock:
		return true
	}
	return false
}

// Node is an element of the document tree.
// Nodes are immutable once the document is built.
type Node struct {
	kind     Kind
	level    int
	text     string
	runes    []rune
	ordinal  int
	parent   *Node
	children []*Node
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Level returns the heading level for headings and 0 otherwise.
func (n *Node) Level() int { return n.level }

// Text returns the text of a leaf. Non-leaf nodes return "".
func (n *Node) Text() string { return n.text }

// Len returns the length of a leaf's text in runes.
func (n *Node) Len() int { return len(n.runes) }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes.
func (n *Node) Children() []*Node { return n.children }

// IsLeaf returns true for text leaves.
func (n *Node) IsLeaf() bool { return n.kind == KindText }

// Ordinal returns the leaf's reading-order index, or -1 for non-leaves.
func (n *Node) Ordinal() int {
	if !n.IsLeaf() {
		return -1
	}
	return n.ordinal
}

// Ancestors returns the node's ancestors from the outermost (excluding the
// document root) down to its parent.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil && p.kind != KindDocument; p = p.parent {
		out = append(out, p)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Block returns the nearest block-level ancestor, or the node itself if it
// is a block.
func (n *Node) Block() *Node {
	for c := n; c != nil; c = c.parent {
		if c.kind.IsBlock() {
			return c
		}
	}
	return nil
}

// FirstLeaf returns the first leaf at or below n.
func (n *Node) FirstLeaf() *Node {
	if n.IsLeaf() {
		return n
	}
	for _, c := range n.children {
		if l := c.FirstLeaf(); l != nil {
			return l
		}
	}
	return nil
}

// LastLeaf returns the last leaf at or below n.
func (n *Node) LastLeaf() *Node {
	if n.IsLeaf() {
		return n
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if l := n.children[i].LastLeaf(); l != nil {
			return l
		}
	}
	return nil
}

// String returns a short description of the node.
func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("text(%q)", n.text)
	}
	if n.kind == KindHeading {
		return fmt.Sprintf("heading(%d)", n.level)
	}
	return n.kind.String()
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}
