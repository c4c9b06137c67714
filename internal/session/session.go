// Package session drives navigation and selection over one document.
//
// A Session keeps the range under the cursor. Move steps it without
// selecting and discards any page selection, as does Jump to either end of
// the document. Select steps it while extending a selection.PageSelection,
// creating one from the current unit on the first selection step, and
// returns the narration of the change.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/selnarrate/internal/engine/cursor"
	"github.com/dshills/selnarrate/internal/engine/document"
	"github.com/dshills/selnarrate/internal/engine/walker"
	"github.com/dshills/selnarrate/internal/event"
	"github.com/dshills/selnarrate/internal/logging"
	"github.com/dshills/selnarrate/internal/narration"
	"github.com/dshills/selnarrate/internal/selection"
)

// Direction is the direction of a step.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Backward {
		return "prev"
	}
	return "next"
}

// ParseDirection parses "next"/"forward" or "prev"/"backward".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "next", "forward", "n":
		return Forward, nil
	case "prev", "previous", "backward", "p":
		return Backward, nil
	}
	return Forward, fmt.Errorf("unknown direction %q", s)
}

// Spoken is the payload of event.TopicNarrationSpoken.
type Spoken struct {
	SessionID    string
	Descriptions []narration.Description
}

// Session is a navigation session over one document.
// A Session is not safe for concurrent use.
type Session struct {
	id      string
	doc     *document.Document
	walker  *walker.Walker
	shifter narration.Shifter
	catalog *narration.Catalog
	bus     event.Bus
	logger  *logging.Logger

	current cursor.DirectedRange
	pageSel *selection.PageSelection
}

// Option configures a Session.
type Option func(*Session)

// WithCatalog sets the narration catalog.
func WithCatalog(c *narration.Catalog) Option {
	return func(s *Session) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithBus publishes narration on bus.
func WithBus(bus event.Bus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShifter replaces the default document shifter.
func WithShifter(sh narration.Shifter) Option {
	return func(s *Session) {
		s.shifter = sh
	}
}

// New creates a session with the cursor collapsed at the start of doc.
func New(doc *document.Document, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		doc:     doc,
		walker:  walker.New(doc),
		catalog: narration.DefaultCatalog(),
		logger:  logging.Nop(),
		current: cursor.NewCollapsedRange(doc.Start(), doc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shifter == nil {
		s.shifter = narration.NewNavShifter(doc, s.catalog)
	}
	s.logger = s.logger.WithComponent("session").WithField("session", s.id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Document returns the session's document.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Current returns the range under the cursor.
func (s *Session) Current() cursor.DirectedRange {
	return s.current.Clone()
}

// Selecting reports whether a page selection is active.
func (s *Session) Selecting() bool {
	return s.pageSel != nil
}

// Selection returns the text of the live selection.
func (s *Session) Selection() string {
	return s.doc.SelectionText()
}

// Count returns the number of units of granularity g in the document.
func (s *Session) Count(g walker.Granularity) int {
	return s.walker.Count(g)
}

// Catalog returns the catalog used for narration.
func (s *Session) Catalog() *narration.Catalog {
	return s.catalog
}

// Move steps the cursor without selecting. Any page selection is
// discarded and the live selection cleared.
func (s *Session) Move(ctx context.Context, dir Direction, g walker.Granularity) ([]narration.Description, error) {
	next, err := s.step(dir, g)
	if errors.Is(err, walker.ErrNoMore) {
		return s.boundary(ctx, dir)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("move %s %s -> %v", dir, g, next)
	return s.moveTo(ctx, next)
}

// Jump moves the cursor to the first unit of the document (Backward) or
// the last one (Forward) without selecting. Like Move it discards any
// page selection.
func (s *Session) Jump(ctx context.Context, dir Direction, g walker.Granularity) ([]narration.Description, error) {
	var next cursor.DirectedRange
	var err error
	if dir == Backward {
		next, err = s.walker.First(g)
	} else {
		next, err = s.walker.Last(g)
	}
	if errors.Is(err, walker.ErrNoMore) {
		return s.boundary(ctx, dir)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("jump %s %s -> %v", dir, g, next)
	return s.moveTo(ctx, next)
}

func (s *Session) moveTo(ctx context.Context, next cursor.DirectedRange) ([]narration.Description, error) {
	if s.pageSel != nil {
		s.pageSel = nil
		s.doc.ClearSelection()
	}

	prev := s.current
	s.current = next
	desc, err := s.shifter.Describe(prev, next)
	if err != nil {
		return nil, fmt.Errorf("describe move: %w", err)
	}
	return s.speak(ctx, desc)
}

// Select steps the cursor and extends the page selection over the step.
// The first selection step selects the unit under the cursor (or the
// next unit when the cursor is between units) without moving past it.
func (s *Session) Select(ctx context.Context, dir Direction, g walker.Granularity) ([]narration.Description, error) {
	if s.pageSel == nil {
		return s.startSelection(ctx, dir, g)
	}

	next, err := s.step(dir, g)
	if errors.Is(err, walker.ErrNoMore) {
		return s.boundary(ctx, dir)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.pageSel.Extend(next); err != nil {
		return nil, fmt.Errorf("extend selection: %w", err)
	}

	prev := s.current
	s.current = next
	desc, err := s.pageSel.Description(s.shifter, prev, next)
	if err != nil {
		return nil, fmt.Errorf("describe selection: %w", err)
	}
	s.logger.Debug("select %s %s -> anchor %v", dir, g, s.pageSel.Anchor())
	return s.speak(ctx, desc)
}

func (s *Session) startSelection(ctx context.Context, dir Direction, g walker.Granularity) ([]narration.Description, error) {
	prev := s.current
	start := s.current
	if start.IsCollapsed() {
		next, err := s.unitAt(dir, g)
		if errors.Is(err, walker.ErrNoMore) {
			return s.boundary(ctx, dir)
		}
		if err != nil {
			return nil, err
		}
		start = next
	}
	if (dir == Backward) != start.IsReversed() {
		start = start.Reverse()
	}

	ps, err := selection.New(start, selection.WithCatalog(s.catalog), selection.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("start selection: %w", err)
	}
	s.pageSel = ps
	s.current = start

	desc, err := ps.Description(s.shifter, prev, start)
	if err != nil {
		return nil, fmt.Errorf("describe selection: %w", err)
	}
	return s.speak(ctx, desc)
}

// unitAt returns the unit under a collapsed cursor when going forward, or
// the unit before it when going backward.
func (s *Session) unitAt(dir Direction, g walker.Granularity) (cursor.DirectedRange, error) {
	p, ok := s.current.Start.(document.Position)
	if dir == Backward || !ok {
		return s.step(dir, g)
	}
	return s.walker.At(p, g)
}

func (s *Session) step(dir Direction, g walker.Granularity) (cursor.DirectedRange, error) {
	if dir == Backward {
		return s.walker.Prev(s.current, g)
	}
	return s.walker.Next(s.current, g)
}

func (s *Session) boundary(ctx context.Context, dir Direction) ([]narration.Description, error) {
	key := narration.MsgEndOfDoc
	if dir == Backward {
		key = narration.MsgStartOfDoc
	}
	s.logger.Debug("boundary %s", dir)
	return s.speak(ctx, []narration.Description{{Text: s.catalog.Get(key)}})
}

func (s *Session) speak(ctx context.Context, desc []narration.Description) ([]narration.Description, error) {
	if s.bus == nil {
		return desc, nil
	}
	e := event.NewEvent(event.TopicNarrationSpoken, Spoken{SessionID: s.id, Descriptions: desc}, "session").
		WithCorrelation(s.id)
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Warn("narration handler failed: %v", err)
	}
	return desc, nil
}
