// Package walker moves through a document one unit at a time.
//
// A unit is a word, a text leaf (Object) or a leaf-bearing block such as a
// paragraph or heading (Block). Next returns the first unit starting at or
// after the end of the current range as a forward range; Prev returns the
// last unit ending at or before its start as a reversed range, so the
// direction of a step range records the direction of travel.
package walker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/selnarrate/internal/engine/cursor"
	"github.com/dshills/selnarrate/internal/engine/document"
)

// ErrNoMore is returned when a step would leave the document.
var ErrNoMore = errors.New("no more units in this direction")

// Granularity is the size of one navigation step.
type Granularity uint8

const (
	Word Granularity = iota
	Object
	Block
)

// String returns the granularity name.
func (g Granularity) String() string {
	switch g {
	case Word:
		return "word"
	case Object:
		return "object"
	case Block:
		return "block"
	default:
		return fmt.Sprintf("granularity(%d)", g)
	}
}

// ParseGranularity parses a granularity name. "line" is accepted as an
// alias for object.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(s) {
	case "word", "w":
		return Word, nil
	case "object", "obj", "line":
		return Object, nil
	case "block", "b":
		return Block, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

type span struct {
	start, end document.Position
}

// Walker computes unit spans for a document. Spans are computed once per
// granularity and cached; a Walker is safe for concurrent use.
type Walker struct {
	doc *document.Document

	mu    sync.Mutex
	spans map[Granularity][]span
}

// New creates a walker over doc.
func New(doc *document.Document) *Walker {
	return &Walker{doc: doc, spans: make(map[Granularity][]span)}
}

// Document returns the walked document.
func (w *Walker) Document() *document.Document {
	return w.doc
}

// First returns the first unit of the document.
func (w *Walker) First(g Granularity) (cursor.DirectedRange, error) {
	units := w.units(g)
	if len(units) == 0 {
		return cursor.DirectedRange{}, ErrNoMore
	}
	return w.forward(units[0]), nil
}

// Last returns the last unit of the document as a reversed range.
func (w *Walker) Last(g Granularity) (cursor.DirectedRange, error) {
	units := w.units(g)
	if len(units) == 0 {
		return cursor.DirectedRange{}, ErrNoMore
	}
	return w.backward(units[len(units)-1]), nil
}

// Next returns the first unit starting at or after from's end.
func (w *Walker) Next(from cursor.DirectedRange, g Granularity) (cursor.DirectedRange, error) {
	end, ok := from.AbsEnd().(document.Position)
	if !ok {
		return cursor.DirectedRange{}, document.ErrForeignPosition
	}

	units := w.units(g)
	i := sort.Search(len(units), func(i int) bool {
		return units[i].start.Compare(end) >= 0
	})
	if i == len(units) {
		return cursor.DirectedRange{}, ErrNoMore
	}
	return w.forward(units[i]), nil
}

// Prev returns the last unit ending at or before from's start, reversed.
func (w *Walker) Prev(from cursor.DirectedRange, g Granularity) (cursor.DirectedRange, error) {
	start, ok := from.AbsStart().(document.Position)
	if !ok {
		return cursor.DirectedRange{}, document.ErrForeignPosition
	}

	units := w.units(g)
	i := sort.Search(len(units), func(i int) bool {
		return units[i].end.Compare(start) > 0
	})
	if i == 0 {
		return cursor.DirectedRange{}, ErrNoMore
	}
	return w.backward(units[i-1]), nil
}

// At returns the unit containing p, or the next unit after it.
func (w *Walker) At(p document.Position, g Granularity) (cursor.DirectedRange, error) {
	units := w.units(g)
	i := sort.Search(len(units), func(i int) bool {
		return units[i].end.Compare(p) > 0
	})
	if i == len(units) {
		return cursor.DirectedRange{}, ErrNoMore
	}
	return w.forward(units[i]), nil
}

// Count returns the number of units at granularity g.
func (w *Walker) Count(g Granularity) int {
	return len(w.units(g))
}

func (w *Walker) forward(s span) cursor.DirectedRange {
	return w.doc.Range(s.start, s.end)
}

func (w *Walker) backward(s span) cursor.DirectedRange {
	return w.doc.Range(s.end, s.start)
}

func (w *Walker) units(g Granularity) []span {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.spans[g]; ok {
		return s
	}

	var s []span
	switch g {
	case Word:
		s = w.words()
	case Object:
		s = w.objects()
	case Block:
		s = w.blocks()
	}
	w.spans[g] = s
	return s
}

func (w *Walker) words() []span {
	var out []span
	for _, leaf := range w.doc.Leaves() {
		runes := []rune(leaf.Text())
		start := -1
		for i := 0; i <= len(runes); i++ {
			inWord := i < len(runes) && !unicode.IsSpace(runes[i])
			switch {
			case inWord && start < 0:
				start = i
			case !inWord && start >= 0:
				out = append(out, span{
					start: w.doc.Pos(leaf.Ordinal(), start),
					end:   w.doc.Pos(leaf.Ordinal(), i),
				})
				start = -1
			}
		}
	}
	return out
}

func (w *Walker) objects() []span {
	leaves := w.doc.Leaves()
	out := make([]span, 0, len(leaves))
	for _, leaf := range leaves {
		out = append(out, span{
			start: w.doc.Pos(leaf.Ordinal(), 0),
			end:   w.doc.Pos(leaf.Ordinal(), leaf.Len()),
		})
	}
	return out
}

func (w *Walker) blocks() []span {
	var out []span
	var current *document.Node
	for _, leaf := range w.doc.Leaves() {
		block := leaf.Block()
		if block == current {
			continue
		}
		current = block
		r := w.doc.NodeRange(block)
		out = append(out, span{start: r.Start.(document.Position), end: r.End.(document.Position)})
	}
	return out
}
