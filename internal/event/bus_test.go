package event

import (
	"context"
	"errors"
	"testing"
)

type selectionPayload struct {
	Text string
}

func TestBusPublishDeliversMatching(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var got []Envelope
	_, err := bus.Subscribe("selection.*", func(_ context.Context, env Envelope) error {
		got = append(got, env)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, NewEvent(TopicSelectionChanged, selectionPayload{Text: "hello"}, "test")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := bus.Publish(ctx, NewEvent(TopicNarrationSpoken, "ignored", "test")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].Topic != TopicSelectionChanged {
		t.Errorf("expected topic %s, got %s", TopicSelectionChanged, got[0].Topic)
	}
	p, ok := PayloadAs[selectionPayload](got[0])
	if !ok || p.Text != "hello" {
		t.Errorf("unexpected payload %#v", got[0].Payload)
	}
	if got[0].Metadata.ID == "" || got[0].Metadata.Source != "test" {
		t.Errorf("metadata not populated: %+v", got[0].Metadata)
	}
}

func TestBusPriorityOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	record := func(name string) HandlerFunc {
		return func(context.Context, Envelope) error {
			order = append(order, name)
			return nil
		}
	}

	_, _ = bus.Subscribe("**", record("low"), WithPriority(PriorityLow))
	_, _ = bus.Subscribe("**", record("normal-1"))
	_, _ = bus.Subscribe("**", record("critical"), WithPriority(PriorityCritical))
	_, _ = bus.Subscribe("**", record("normal-2"))

	if err := bus.Publish(context.Background(), NewEvent(TopicSelectionCleared, struct{}{}, "test")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	want := []string{"critical", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestBusHandlerErrorsAreJoined(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")

	calls := 0
	_, _ = bus.Subscribe("selection.changed", func(context.Context, Envelope) error {
		calls++
		return boom
	})
	_, _ = bus.Subscribe("selection.changed", func(context.Context, Envelope) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), NewEvent(TopicSelectionChanged, 1, "test"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined handler error, got %v", err)
	}
	var herr *HandlerError
	if !errors.As(err, &herr) || herr.Topic != TopicSelectionChanged {
		t.Errorf("expected HandlerError for %s, got %v", TopicSelectionChanged, err)
	}
	if calls != 2 {
		t.Errorf("a failing handler should not stop delivery, got %d calls", calls)
	}
	if bus.Stats().HandlerErrors != 1 {
		t.Errorf("expected 1 handler error, got %d", bus.Stats().HandlerErrors)
	}
}

func TestBusRecoversPanics(t *testing.T) {
	bus := NewBus()
	_, _ = bus.Subscribe("**", func(context.Context, Envelope) error {
		panic("handler exploded")
	})

	err := bus.Publish(context.Background(), NewEvent(TopicConfigReloaded, 0, "test"))
	if !errors.Is(err, ErrHandlerPanic) {
		t.Fatalf("expected ErrHandlerPanic, got %v", err)
	}
	if bus.Stats().HandlerPanics != 1 {
		t.Errorf("expected 1 panic, got %d", bus.Stats().HandlerPanics)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub, _ := bus.Subscribe("**", func(context.Context, Envelope) error {
		calls++
		return nil
	})

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}
	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe should fail, got %v", err)
	}

	_ = bus.Publish(context.Background(), NewEvent(TopicSelectionChanged, 0, "test"))
	if calls != 0 {
		t.Errorf("unsubscribed handler should not run, got %d calls", calls)
	}
	if bus.Stats().ActiveSubscribers != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.Stats().ActiveSubscribers)
	}
}

func TestBusRejectsInvalidInput(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe("selection.*", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
	if _, err := bus.Subscribe("", func(context.Context, Envelope) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("expected ErrInvalidTopic, got %v", err)
	}
	if err := bus.Publish(context.Background(), NewEvent[int]("selection.*", 0, "test")); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("publishing a pattern should fail, got %v", err)
	}
	if err := bus.Publish(context.Background(), nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("publishing nil should fail, got %v", err)
	}
}

func TestBusCancelledContext(t *testing.T) {
	bus := NewBus()
	calls := 0
	_, _ = bus.Subscribe("**", func(context.Context, Envelope) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(ctx, NewEvent(TopicSelectionChanged, 0, "test"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("handlers should not run after cancellation, got %d", calls)
	}
}

func TestEventWithCorrelation(t *testing.T) {
	e := NewEvent(TopicNarrationSpoken, "text", "session").WithCorrelation("abc")
	if e.Envelope().Metadata.CorrelationID != "abc" {
		t.Errorf("expected correlation ID abc, got %q", e.Envelope().Metadata.CorrelationID)
	}
}
