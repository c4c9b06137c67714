// Package cursor provides positions and directed ranges over an ordered
// document.
//
// The cursor package handles:
//
//   - Opaque, totally ordered positions via the Position interface
//   - Integer offsets (Offset) for flat documents and tests
//   - Directed ranges with a start/end model via DirectedRange
//   - Applying a range as the live selection through a Selector
//
// Range Model:
//
// A DirectedRange keeps the order in which it was traversed:
//   - Start: where the traversal began
//   - End: where the traversal currently stops
//
// Direction is never stored. A range is reversed when End precedes Start
// in document order, and IsReversed recomputes that from the endpoints on
// every call.
//
// Basic usage:
//
//	r := cursor.NewDirectedRange(cursor.Offset(10), cursor.Offset(20), doc)
//	r.IsReversed()             // false
//	r.Reverse().IsReversed()   // true
//	r.Normalize()              // forward copy
//	_ = r.Select()             // doc.Select(r)
//
// Thread Safety:
//
// Offset is an immutable value type. DirectedRange values are copied on
// every mutation path and are safe to share once built; the Selector they
// render onto defines its own locking.
package cursor
