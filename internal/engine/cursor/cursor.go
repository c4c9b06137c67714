package cursor

import "fmt"

// Position is an opaque location in a document.
// Positions from the same document are totally ordered by Compare.
type Position interface {
	// Compare returns -1 if the receiver precedes other, 0 if they are the
	// same location, 1 if it follows other.
	Compare(other Position) int

	// Clone returns a copy that shares no mutable state with the receiver.
	Clone() Position
}

// Before returns true if a precedes b.
func Before(a, b Position) bool {
	return a.Compare(b) < 0
}

// After returns true if a follows b.
func After(a, b Position) bool {
	return a.Compare(b) > 0
}

// Min returns the earlier of two positions.
func Min(a, b Position) Position {
	if After(a, b) {
		return b
	}
	return a
}

// Max returns the later of two positions.
func Max(a, b Position) Position {
	if Before(a, b) {
		return b
	}
	return a
}

// Offset is a position in a flat document, measured in units from its start.
// Offset is an immutable value type.
type Offset int

// Compare implements Position. Comparing against a non-Offset position
// panics; ranges never mix documents.
func (o Offset) Compare(other Position) int {
	x := other.(Offset)
	if o < x {
		return -1
	}
	if o > x {
		return 1
	}
	return 0
}

// Clone implements Position.
func (o Offset) Clone() Position {
	return o
}

// String returns a string representation of the offset.
func (o Offset) String() string {
	return fmt.Sprintf("Offset(%d)", int(o))
}
