// Package selection tracks a directed page selection as a user extends or
// retracts it one navigation step at a time, and narrates each step.
//
// A PageSelection owns an anchor range. Extend folds each new step range
// into the anchor:
//
//   - a step that crosses back over the anchor's origin restarts the
//     selection from that step
//   - a step travelling in the anchor's direction grows it to the step's end
//   - a step travelling against it shrinks it to the step's start
//
// Description compares the anchor's direction with the direction of the
// latest step to decide whether the step selected or unselected content,
// and adds a wrap narration when the selection has collapsed back onto the
// step and restarted in the opposite direction.
//
// A PageSelection is not safe for concurrent use; callers serialize
// Extend calls.
package selection

import (
	"github.com/dshills/selnarrate/internal/engine/cursor"
	"github.com/dshills/selnarrate/internal/logging"
	"github.com/dshills/selnarrate/internal/narration"
)

// PageSelection is the accumulated selection of one navigation session.
type PageSelection struct {
	anchor      cursor.DirectedRange
	hasExtended bool

	catalog *narration.Catalog
	logger  *logging.Logger
}

// Option configures a PageSelection.
type Option func(*PageSelection)

// WithCatalog sets the catalog used to localize annotations.
func WithCatalog(c *narration.Catalog) Option {
	return func(p *PageSelection) {
		if c != nil {
			p.catalog = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *PageSelection) {
		if l != nil {
			p.logger = l.WithComponent("selection")
		}
	}
}

// New creates a page selection anchored at a copy of initial and applies
// it as the live selection.
func New(initial cursor.DirectedRange, opts ...Option) (*PageSelection, error) {
	p := &PageSelection{
		anchor:  initial.Clone(),
		catalog: narration.DefaultCatalog(),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.anchor.Select(); err != nil {
		return nil, err
	}
	p.logger.Debug("anchored at %v", p.anchor)
	return p, nil
}

// Anchor returns a copy of the accumulated selection.
func (p *PageSelection) Anchor() cursor.DirectedRange {
	return p.anchor.Clone()
}

// HasExtended reports whether Extend has completed at least once.
func (p *PageSelection) HasExtended() bool {
	return p.hasExtended
}

// Extend folds candidate into the anchor and applies the result as the
// live selection. It returns false when the anchor now covers exactly
// candidate, and true when it covers more.
//
// If applying the selection fails the anchor keeps the folded value and
// the error is returned.
func (p *PageSelection) Extend(candidate cursor.DirectedRange) (bool, error) {
	switch {
	case !p.anchor.DirectedBefore(candidate):
		// Crossed selections are not allowed; start over from the step.
		p.anchor = candidate.Clone()
	case p.anchor.IsReversed() == candidate.IsReversed():
		p.anchor.End = candidate.End.Clone()
	default:
		p.anchor.End = candidate.Start.Clone()
	}

	if err := p.anchor.Select(); err != nil {
		return false, err
	}
	p.hasExtended = true

	extended := !p.anchor.AbsEquals(candidate)
	p.logger.Debug("extend %v -> anchor %v (extended=%t)", candidate, p.anchor, extended)
	return extended, nil
}

// Description narrates the step from previousStep to currentStep.
// Unit 0 is annotated "selected" when the step grew the selection and
// "unselected" when it retracted it. When the anchor has collapsed onto
// currentStep after extending, the retraction of previousStep is
// prepended with a wrap earcon.
func (p *PageSelection) Description(shifter narration.Shifter, previousStep, currentStep cursor.DirectedRange) ([]narration.Description, error) {
	if p.anchor.IsReversed() != currentStep.IsReversed() {
		desc, err := shifter.Describe(currentStep, previousStep)
		if err != nil {
			return nil, err
		}
		p.annotate(desc, narration.MsgUnselected, narration.EarconSelectionReverse)
		return desc, nil
	}

	desc, err := shifter.Describe(previousStep, currentStep)
	if err != nil {
		return nil, err
	}
	p.annotate(desc, narration.MsgSelected, narration.EarconSelection)

	if p.hasExtended && p.anchor.AbsEquals(currentStep.Normalize()) {
		prevDesc, err := shifter.Describe(currentStep, previousStep)
		if err != nil {
			return nil, err
		}
		p.annotate(prevDesc, narration.MsgUnselected, narration.EarconSelectionReverse, narration.EarconWrap)
		p.logger.Debug("wrapped at %v", p.anchor)
		desc = append(prevDesc, desc...)
	}
	return desc, nil
}

// annotate sets the annotation of unit 0 and appends earcons in order.
func (p *PageSelection) annotate(desc []narration.Description, key string, earcons ...narration.Earcon) {
	if len(desc) == 0 {
		return
	}
	desc[0].Annotation = p.catalog.Get(key)
	for _, e := range earcons {
		desc[0].PushEarcon(e)
	}
}
