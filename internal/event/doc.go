// Package event provides the in-process event bus used to observe
// selection and narration changes.
//
// Events use hierarchical topics with dot notation:
//
//	selection.changed   - the live document selection was replaced
//	selection.cleared   - the live document selection was removed
//	narration.spoken    - a session produced a description
//	config.reloaded     - the configuration file changed on disk
//
// Subscriptions accept wildcard patterns:
//
//	selection.*   - matches selection.changed (single segment)
//	**            - matches every topic (zero or more segments)
//
// Delivery is synchronous: Publish runs every matching handler in the
// publisher's goroutine, lowest Priority first, and returns the joined
// handler errors. A panicking handler is recovered and reported as an
// error wrapping ErrHandlerPanic.
//
// Basic usage:
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("selection.*", func(ctx context.Context, env event.Envelope) error {
//		log.Printf("%s from %s", env.Topic, env.Metadata.Source)
//		return nil
//	})
//	defer bus.Unsubscribe(sub)
//
//	_ = bus.Publish(ctx, event.NewEvent(event.TopicSelectionChanged, payload, "document"))
package event
