package document

import (
	"fmt"

	"github.com/dshills/selnarrate/internal/engine/cursor"
)

// Position is a location in a Document: a leaf ordinal and a rune offset
// into that leaf. Offset == leaf length is the position just after the
// leaf's last rune.
// Position is an immutable value type.
type Position struct {
	Leaf   int
	Offset int

	doc *Document
}

// Compare implements cursor.Position. Positions are ordered by leaf, then
// by offset. Comparing against another position type panics.
func (p Position) Compare(other cursor.Position) int {
	o := other.(Position)
	switch {
	case p.Leaf < o.Leaf:
		return -1
	case p.Leaf > o.Leaf:
		return 1
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

// Clone implements cursor.Position.
func (p Position) Clone() cursor.Position {
	return p
}

// Document returns the document the position belongs to.
func (p Position) Document() *Document {
	return p.doc
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Leaf, p.Offset)
}
