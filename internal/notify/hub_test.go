package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(nil)

	first, cancelFirst := hub.Subscribe()
	second, cancelSecond := hub.Subscribe()
	defer cancelSecond()

	if got := hub.SubscriberCount(); got != 2 {
		t.Fatalf("expected 2 subscribers, got %d", got)
	}

	event := domain.OrderPlacedEvent{OrderID: "o1", Reference: "CMD-TEST"}
	if err := hub.OrderPlaced(context.Background(), event); err != nil {
		t.Fatalf("OrderPlaced: %v", err)
	}

	for _, ch := range []<-chan domain.OrderPlacedEvent{first, second} {
		select {
		case got := <-ch:
			if got.OrderID != "o1" {
				t.Errorf("unexpected event: %+v", got)
			}
		default:
			t.Error("subscriber did not receive the event")
		}
	}

	cancelFirst()
	cancelFirst() // idempotent
	if got := hub.SubscriberCount(); got != 1 {
		t.Fatalf("expected 1 subscriber after cancel, got %d", got)
	}

	// The cancelled channel is closed.
	if _, ok := <-first; ok {
		t.Error("expected closed channel after cancel")
	}
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	hub := NewHub(nil)
	ch, cancel := hub.Subscribe()
	defer cancel()

	// Overfill the buffer; OrderPlaced must never block.
	for i := 0; i < subscriberBuffer+10; i++ {
		if err := hub.OrderPlaced(context.Background(), domain.OrderPlacedEvent{OrderID: "x"}); err != nil {
			t.Fatalf("OrderPlaced: %v", err)
		}
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Fatalf("expected exactly %d buffered events, got %d", subscriberBuffer, received)
	}
}

type countingNotifier struct {
	calls int
	err   error
}

func (n *countingNotifier) OrderPlaced(context.Context, domain.OrderPlacedEvent) error {
	n.calls++
	return n.err
}

func TestFanout_SkipsFailingTargets(t *testing.T) {
	ok := &countingNotifier{}
	broken := &countingNotifier{err: errors.New("broker down")}
	after := &countingNotifier{}

	failures := 0
	fanout := NewFanout(nil, func() { failures++ }, ok, broken, after)

	if err := fanout.OrderPlaced(context.Background(), domain.OrderPlacedEvent{OrderID: "o1"}); err != nil {
		t.Fatalf("fanout must never fail, got %v", err)
	}

	if ok.calls != 1 || broken.calls != 1 || after.calls != 1 {
		t.Errorf("every target must be attempted: %d %d %d", ok.calls, broken.calls, after.calls)
	}
	if failures != 1 {
		t.Errorf("expected 1 recorded failure, got %d", failures)
	}
}
