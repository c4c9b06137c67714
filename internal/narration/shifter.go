package narration

import (
	"github.com/dshills/selnarrate/internal/engine/cursor"
)

// Shifter describes the traversal from one range to another.
// Unit 0 of the result is the primary change.
type Shifter interface {
	Describe(from, to cursor.DirectedRange) ([]Description, error)
}

// ShifterFunc adapts a function to the Shifter interface.
type ShifterFunc func(from, to cursor.DirectedRange) ([]Description, error)

// Describe implements Shifter.
func (f ShifterFunc) Describe(from, to cursor.DirectedRange) ([]Description, error) {
	return f(from, to)
}
