package narration

import (
	"strings"

	"github.com/dshills/selnarrate/internal/engine/cursor"
	"github.com/dshills/selnarrate/internal/engine/document"
)

// NavShifter describes steps over a document. Unit 0 carries the text of
// the destination range, preceded by the elements entered on the way
// there (for example "list list item").
type NavShifter struct {
	doc     *document.Document
	catalog *Catalog
}

// NewNavShifter creates a shifter for doc. A nil catalog uses English.
func NewNavShifter(doc *document.Document, catalog *Catalog) *NavShifter {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &NavShifter{doc: doc, catalog: catalog}
}

// Describe implements Shifter.
func (s *NavShifter) Describe(from, to cursor.DirectedRange) ([]Description, error) {
	toStart, ok := to.AbsStart().(document.Position)
	if !ok {
		return nil, document.ErrForeignPosition
	}
	fromStart, ok := from.AbsStart().(document.Position)
	if !ok {
		return nil, document.ErrForeignPosition
	}

	d := Description{Text: s.doc.Text(to)}
	d.Context = s.context(s.doc.LeafAt(fromStart), s.doc.LeafAt(toStart))
	return []Description{d}, nil
}

// context names the ancestors of to that are not ancestors of from,
// outermost first.
func (s *NavShifter) context(from, to *document.Node) string {
	if to == nil {
		return ""
	}

	left := map[*document.Node]bool{}
	if from != nil {
		for _, a := range from.Ancestors() {
			left[a] = true
		}
	}

	var names []string
	for _, a := range to.Ancestors() {
		if left[a] {
			continue
		}
		if name := s.name(a); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " ")
}

func (s *NavShifter) name(n *document.Node) string {
	switch n.Kind() {
	case document.KindHeading:
		return s.catalog.Get(MsgHeading, n.Level())
	case document.KindList:
		return s.catalog.Get(MsgList)
	case document.KindListItem:
		return s.catalog.Get(MsgListItem)
	case document.KindBlockQuote:
		return s.catalog.Get(MsgQuote)
	case document.KindCodeBlock:
		return s.catalog.Get(MsgCodeBlock)
	case document.KindLink:
		return s.catalog.Get(MsgLink)
	case document.KindEmphasis:
		return s.catalog.Get(MsgEmphasis)
	case document.KindStrong:
		return s.catalog.Get(MsgStrong)
	case document.KindCode:
		return s.catalog.Get(MsgCode)
	}
	return ""
}
