package document

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/selnarrate/internal/engine/cursor"
	"github.com/dshills/selnarrate/internal/event"
	"github.com/dshills/selnarrate/internal/logging"
)

// SelectionChanged is the payload of event.TopicSelectionChanged.
type SelectionChanged struct {
	Range    cursor.DirectedRange
	Text     string
	Reversed bool
}

// Document is an ordered tree of nodes with a live selection.
type Document struct {
	root   *Node
	leaves []*Node

	bus    event.Bus
	logger *logging.Logger

	mu           sync.RWMutex
	selection    cursor.DirectedRange
	hasSelection bool
	selectCount  int
}

func newDocument(root *Node, leaves []*Node, opts ...Option) *Document {
	d := &Document{
		root:   root,
		leaves: leaves,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// LeafCount returns the number of text leaves.
func (d *Document) LeafCount() int {
	return len(d.leaves)
}

// Leaf returns the leaf with the given ordinal, or nil if out of range.
func (d *Document) Leaf(i int) *Node {
	if i < 0 || i >= len(d.leaves) {
		return nil
	}
	return d.leaves[i]
}

// Leaves returns all leaves in reading order.
func (d *Document) Leaves() []*Node {
	return d.leaves
}

// Pos returns the position at offset within leaf, clamped to the document.
func (d *Document) Pos(leaf, offset int) Position {
	if leaf < 0 {
		leaf, offset = 0, 0
	}
	if leaf >= len(d.leaves) {
		leaf = len(d.leaves) - 1
		offset = d.leaves[leaf].Len()
	}
	if offset < 0 {
		offset = 0
	}
	if n := d.leaves[leaf].Len(); offset > n {
		offset = n
	}
	return Position{Leaf: leaf, Offset: offset, doc: d}
}

// Start returns the first position of the document.
func (d *Document) Start() Position {
	return d.Pos(0, 0)
}

// End returns the last position of the document.
func (d *Document) End() Position {
	last := len(d.leaves) - 1
	return d.Pos(last, d.leaves[last].Len())
}

// Range returns a range from start to end that renders onto d.
func (d *Document) Range(start, end Position) cursor.DirectedRange {
	return cursor.NewDirectedRange(start, end, d)
}

// NodeRange returns a forward range covering every leaf under n.
func (d *Document) NodeRange(n *Node) cursor.DirectedRange {
	first, last := n.FirstLeaf(), n.LastLeaf()
	if first == nil {
		return cursor.NewCollapsedRange(d.Start(), d)
	}
	return d.Range(d.Pos(first.ordinal, 0), d.Pos(last.ordinal, last.Len()))
}

// LeafAt returns the leaf containing p.
func (d *Document) LeafAt(p Position) *Node {
	return d.Leaf(p.Leaf)
}

// TextBetween returns the text between two positions in either order.
// Leaves in different blocks are separated by a space and runs of
// whitespace are collapsed.
func (d *Document) TextBetween(a, b Position) string {
	if a.Compare(b) > 0 {
		a, b = b, a
	}

	var sb strings.Builder
	var prevBlock *Node
	for i := a.Leaf; i <= b.Leaf && i < len(d.leaves); i++ {
		leaf := d.leaves[i]
		from, to := 0, leaf.Len()
		if i == a.Leaf {
			from = a.Offset
		}
		if i == b.Leaf {
			to = b.Offset
		}
		if from >= to {
			continue
		}
		if block := leaf.Block(); prevBlock != nil && block != prevBlock {
			sb.WriteByte(' ')
		}
		prevBlock = leaf.Block()
		sb.WriteString(string(leaf.runes[from:to]))
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Text returns the text covered by r.
func (d *Document) Text(r cursor.DirectedRange) string {
	a, okA := r.Start.(Position)
	b, okB := r.End.(Position)
	if !okA || !okB {
		return ""
	}
	return d.TextBetween(a, b)
}

// String returns the full document text.
func (d *Document) String() string {
	return d.TextBetween(d.Start(), d.End())
}

// Select implements cursor.Selector. It replaces the live selection with r.
func (d *Document) Select(r cursor.DirectedRange) error {
	for _, p := range []cursor.Position{r.Start, r.End} {
		if err := d.validate(p); err != nil {
			return fmt.Errorf("select %v: %w", r, err)
		}
	}

	d.mu.Lock()
	d.selection = r.WithTarget(d)
	d.hasSelection = true
	d.selectCount++
	d.mu.Unlock()

	text := d.Text(r)
	d.logger.Debug("selection %v %q", r, text)
	d.publish(event.NewEvent(event.TopicSelectionChanged, SelectionChanged{
		Range:    r.Clone(),
		Text:     text,
		Reversed: r.IsReversed(),
	}, "document"))
	return nil
}

// ClearSelection removes the live selection.
func (d *Document) ClearSelection() {
	d.mu.Lock()
	had := d.hasSelection
	d.hasSelection = false
	d.mu.Unlock()

	if had {
		d.publish(event.NewEvent(event.TopicSelectionCleared, struct{}{}, "document"))
	}
}

// Selection returns the live selection and whether one is set.
func (d *Document) Selection() (cursor.DirectedRange, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.hasSelection {
		return cursor.DirectedRange{}, false
	}
	return d.selection.Clone(), true
}

// SelectionText returns the text of the live selection, or "".
func (d *Document) SelectionText() string {
	r, ok := d.Selection()
	if !ok {
		return ""
	}
	return d.Text(r)
}

// SelectCount returns how many times Select has been applied.
func (d *Document) SelectCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selectCount
}

func (d *Document) validate(p cursor.Position) error {
	pos, ok := p.(Position)
	if !ok || pos.doc != d {
		return ErrForeignPosition
	}
	if pos.Leaf < 0 || pos.Leaf >= len(d.leaves) || pos.Offset < 0 || pos.Offset > d.leaves[pos.Leaf].Len() {
		return ErrPositionOutOfRange
	}
	return nil
}

func (d *Document) publish(e event.Enveloper) {
	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(context.Background(), e); err != nil {
		d.logger.Warn("selection handler failed: %v", err)
	}
}
