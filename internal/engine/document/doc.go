// Package document provides the ordered, tree-structured document that
// selections are made over.
//
// A Document is parsed from Markdown with goldmark. Block elements
// (headings, paragraphs, lists, quotes, code blocks) and inline elements
// (links, emphasis, code spans) become Nodes; runs of text become leaf
// nodes. Leaves are numbered in reading order, and a Position is a leaf
// ordinal plus a rune offset into that leaf's text, so positions are
// compared by leaf first and offset second.
//
// The Document also owns the live selection. It implements
// cursor.Selector, so cursor.DirectedRange.Select renders a range onto it.
// When an event bus is attached, every change is published on
// event.TopicSelectionChanged or event.TopicSelectionCleared.
//
// Basic usage:
//
//	doc, err := document.ParseString("# Title\n\nHello *world*.")
//	r := doc.Range(doc.Pos(1, 0), doc.Pos(1, 5)) // "Hello"
//	_ = r.Select()
//	doc.SelectionText() // "Hello"
//
// Thread Safety:
//
// The tree is immutable after parsing. The live selection is guarded by a
// mutex, so Select and the selection accessors may be called from event
// handlers on other goroutines.
package document
