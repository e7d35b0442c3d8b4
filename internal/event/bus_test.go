package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gearguard/gearguard/pkg/plugin"
	"go.uber.org/zap"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var got []string
	bus.Subscribe("alert.created", func(ctx context.Context, e plugin.Event) {
		got = append(got, e.Topic)
	})
	bus.Subscribe("other.topic", func(ctx context.Context, e plugin.Event) {
		t.Error("handler for unrelated topic invoked")
	})

	if err := bus.Publish(context.Background(), plugin.Event{Topic: "alert.created"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("handler invoked %d times, want 1", len(got))
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var topics []string
	bus.SubscribeAll(func(ctx context.Context, e plugin.Event) {
		topics = append(topics, e.Topic)
	})

	bus.Publish(context.Background(), plugin.Event{Topic: "a"})
	bus.Publish(context.Background(), plugin.Event{Topic: "b"})

	if len(topics) != 2 {
		t.Errorf("wildcard handler invoked %d times, want 2", len(topics))
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop())

	calls := 0
	unsub := bus.Subscribe("topic", func(ctx context.Context, e plugin.Event) {
		calls++
	})

	bus.Publish(context.Background(), plugin.Event{Topic: "topic"})
	unsub()
	bus.Publish(context.Background(), plugin.Event{Topic: "topic"})

	if calls != 1 {
		t.Errorf("handler invoked %d times after unsubscribe, want 1", calls)
	}
}

func TestPublishSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus(zap.NewNop())

	called := false
	bus.Subscribe("topic", func(ctx context.Context, e plugin.Event) {
		panic("handler bug")
	})
	bus.Subscribe("topic", func(ctx context.Context, e plugin.Event) {
		called = true
	})

	if err := bus.Publish(context.Background(), plugin.Event{Topic: "topic"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !called {
		t.Error("second handler not invoked after first panicked")
	}
}

func TestPublishAsync(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("topic", func(ctx context.Context, e plugin.Event) {
		wg.Done()
	})

	bus.PublishAsync(context.Background(), plugin.Event{Topic: "topic"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async handler not invoked within 1s")
	}
}
