// Package narration builds speakable descriptions of navigation and
// selection changes.
//
// A description is an ordered slice of Description units. Unit 0 is the
// primary change; later units carry context such as the block the user
// has entered. Units carry an annotation (for example "selected") and an
// ordered list of earcons, the short audio cues a speech backend plays
// alongside the text.
//
// Three pieces live here:
//
//   - Description, Earcon and the message keys that name annotations
//   - Catalog, which localizes message keys with golang.org/x/text
//   - Shifter, the interface that turns a pair of ranges into units, and
//     NavShifter, its implementation over a document tree
package narration
