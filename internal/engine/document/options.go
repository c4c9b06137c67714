package document

import (
	"github.com/dshills/selnarrate/internal/event"
	"github.com/dshills/selnarrate/internal/logging"
)

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithBus publishes selection changes on bus.
func WithBus(bus event.Bus) Option {
	return func(d *Document) {
		d.bus = bus
	}
}

// WithLogger sets the document's logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l.WithComponent("document")
		}
	}
}
