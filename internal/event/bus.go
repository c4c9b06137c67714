package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers other handlers depend on.
	PriorityCritical Priority = 0

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// HandlerFunc handles a delivered event.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Subscription identifies a registered handler.
type Subscription struct {
	ID      string
	Pattern Topic

	priority Priority
	handler  HandlerFunc
	seq      uint64
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithPriority sets the handler priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *Subscription) {
		s.priority = p
	}
}

// Stats reports bus activity.
type Stats struct {
	EventsPublished   uint64
	HandlersExecuted  uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// Bus is the event bus interface.
type Bus interface {
	Publish(ctx context.Context, event Enveloper) error
	Subscribe(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error)
	Unsubscribe(sub *Subscription) error
	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
	seq  uint64

	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates a new synchronous event bus.
func NewBus() Bus {
	return &bus{subs: make(map[string]*Subscription)}
}

// Subscribe registers fn for every topic matching pattern.
// This method is safe to call concurrently.
func (b *bus) Subscribe(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if !pattern.Valid() {
		return nil, ErrInvalidTopic
	}

	sub := &Subscription{
		ID:       uuid.NewString(),
		Pattern:  pattern,
		priority: PriorityNormal,
		handler:  fn,
	}
	for _, opt := range opts {
		opt(sub)
	}

	b.mu.Lock()
	b.seq++
	sub.seq = b.seq
	b.subs[sub.ID] = sub
	b.mu.Unlock()

	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.ID]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(b.subs, sub.ID)
	return nil
}

// Publish delivers the event to every matching handler in priority order.
// Handler errors do not stop delivery; they are joined and returned.
func (b *bus) Publish(ctx context.Context, event Enveloper) error {
	if event == nil {
		return ErrInvalidEvent
	}
	env := event.Envelope()
	if !env.Topic.Valid() || env.Topic.IsPattern() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, env.Topic)
	}

	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range b.match(env.Topic) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := b.deliver(ctx, sub, env); err != nil {
			b.handlerErrors.Add(1)
			errs = append(errs, &HandlerError{SubscriptionID: sub.ID, Topic: env.Topic, Err: err})
		}
	}
	return errors.Join(errs...)
}

// match returns the subscriptions matching topic, sorted by priority then
// registration order.
func (b *bus) match(t Topic) []*Subscription {
	b.mu.RLock()
	matched := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if t.Matches(sub.Pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].priority != matched[j].priority {
			return matched[i].priority < matched[j].priority
		}
		return matched[i].seq < matched[j].seq
	})
	return matched
}

func (b *bus) deliver(ctx context.Context, sub *Subscription, env Envelope) (err error) {
	b.handlersExecuted.Add(1)
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return sub.handler(ctx, env)
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}
