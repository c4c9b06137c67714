package cursor

import (
	"fmt"
)

// Selector renders a range as the live selection of a document.
type Selector interface {
	Select(r DirectedRange) error
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(r DirectedRange) error

// Select implements Selector.
func (f SelectorFunc) Select(r DirectedRange) error {
	return f(r)
}

// DirectedRange is an ordered pair of positions.
// Start is where the traversal began; End is where it currently stops.
// The zero value is not usable; build ranges with NewDirectedRange.
type DirectedRange struct {
	Start Position
	End   Position

	target Selector
}

// NewDirectedRange creates a range from start to end that renders onto target.
// target may be nil for ranges that are never selected.
func NewDirectedRange(start, end Position, target Selector) DirectedRange {
	return DirectedRange{Start: start.Clone(), End: end.Clone(), target: target}
}

// NewCollapsedRange creates an empty range at pos.
func NewCollapsedRange(pos Position, target Selector) DirectedRange {
	return NewDirectedRange(pos, pos, target)
}

// Target returns the selector this range renders onto.
func (r DirectedRange) Target() Selector {
	return r.target
}

// WithTarget returns a copy of the range rendering onto target.
func (r DirectedRange) WithTarget(target Selector) DirectedRange {
	c := r.Clone()
	c.target = target
	return c
}

// Clone returns a deep copy of the range.
func (r DirectedRange) Clone() DirectedRange {
	return DirectedRange{Start: r.Start.Clone(), End: r.End.Clone(), target: r.target}
}

// IsReversed returns true if End precedes Start.
func (r DirectedRange) IsReversed() bool {
	return Before(r.End, r.Start)
}

// IsCollapsed returns true if the range has no extent.
func (r DirectedRange) IsCollapsed() bool {
	return r.Start.Compare(r.End) == 0
}

// AbsStart returns the lower bound of the range.
func (r DirectedRange) AbsStart() Position {
	return Min(r.Start, r.End)
}

// AbsEnd returns the upper bound of the range.
func (r DirectedRange) AbsEnd() Position {
	return Max(r.Start, r.End)
}

// Reverse returns a copy with Start and End swapped.
func (r DirectedRange) Reverse() DirectedRange {
	return DirectedRange{Start: r.End.Clone(), End: r.Start.Clone(), target: r.target}
}

// Normalize returns a forward copy (Start <= End).
func (r DirectedRange) Normalize() DirectedRange {
	if r.IsReversed() {
		return r.Reverse()
	}
	return r.Clone()
}

// Equals returns true if both ranges have the same Start and End.
func (r DirectedRange) Equals(other DirectedRange) bool {
	return r.Start.Compare(other.Start) == 0 && r.End.Compare(other.End) == 0
}

// AbsEquals returns true if both ranges cover the same extent,
// regardless of direction.
func (r DirectedRange) AbsEquals(other DirectedRange) bool {
	return r.AbsStart().Compare(other.AbsStart()) == 0 &&
		r.AbsEnd().Compare(other.AbsEnd()) == 0
}

// DirectedBefore reports whether other lies on the far side of r's origin
// in r's direction of travel. A forward range requires other's extent to
// start at or after r.Start; a reversed range requires other's extent to
// end at or before r.Start. A false result means other has crossed back
// over the point where r began.
func (r DirectedRange) DirectedBefore(other DirectedRange) bool {
	if r.IsReversed() {
		return !After(other.AbsEnd(), r.Start)
	}
	return !Before(other.AbsStart(), r.Start)
}

// Select renders the range as the live selection of its target.
// Ranges without a target are a no-op.
func (r DirectedRange) Select() error {
	if r.target == nil {
		return nil
	}
	return r.target.Select(r.Clone())
}

// String returns a string representation of the range.
func (r DirectedRange) String() string {
	if r.IsCollapsed() {
		return fmt.Sprintf("Range(%v)", r.Start)
	}
	dir := "→"
	if r.IsReversed() {
		dir = "←"
	}
	return fmt.Sprintf("Range(%v%s%v)", r.Start, dir, r.End)
}
