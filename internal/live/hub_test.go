package live

import (
	"testing"
	"time"
)

func drain(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Changes():
	case <-time.After(time.Second):
		t.Fatalf("expected a pending signal")
	}
}

func TestSubscribeDeliversInitialSignal(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Cancel()
	drain(t, sub)
}

func TestNotifyReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer a.Cancel()
	defer b.Cancel()
	drain(t, a)
	drain(t, b)

	h.Notify()
	drain(t, a)
	drain(t, b)
}

func TestNotifyCoalesces(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	defer sub.Cancel()

	// Initial signal still pending; these must not block.
	h.Notify()
	h.Notify()
	h.Notify()

	drain(t, sub)
	select {
	case _, ok := <-sub.Changes():
		if ok {
			t.Fatalf("coalesced signals should leave at most one pending")
		}
	default:
	}
}

func TestCancelClosesChannelAndLeavesOthersAlone(t *testing.T) {
	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	drain(t, a)
	drain(t, b)

	a.Cancel()
	if _, ok := <-a.Changes(); ok {
		t.Fatalf("cancelled subscription channel should be closed")
	}
	a.Cancel() // second cancel is a no-op

	h.Notify()
	drain(t, b)
	b.Cancel()
}

func TestCloseCancelsEverything(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe()
	drain(t, sub)
	h.Close()
	if _, ok := <-sub.Changes(); ok {
		t.Fatalf("hub close should close subscriber channels")
	}

	// Subscribing after close yields an already-closed subscription.
	late := h.Subscribe()
	if _, ok := <-late.Changes(); ok {
		t.Fatalf("late subscription should start closed")
	}
	h.Notify() // no-op
}
