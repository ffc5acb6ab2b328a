package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubBroadcast(t *testing.T) {
	t.Parallel()
	hub := NewHub(zap.NewNop())

	first, cancelFirst := hub.Subscribe("KIOSK-1")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("CHEM-1")
	defer cancelSecond()

	hub.Broadcast(Event{Kind: EventNewOrder, OrderID: "ORD-1", At: time.Now()})

	assert.Equal(t, "ORD-1", (<-first).OrderID)
	assert.Equal(t, "ORD-1", (<-second).OrderID)
}

func TestHubSendTo(t *testing.T) {
	t.Parallel()
	hub := NewHub(zap.NewNop())

	target, cancelTarget := hub.Subscribe("KIOSK-1")
	defer cancelTarget()
	other, cancelOther := hub.Subscribe("KIOSK-2")
	defer cancelOther()

	hub.SendTo("KIOSK-1", Event{Kind: EventOrderUpdate, OrderID: "ORD-1", Status: "accepted"})

	event := <-target
	assert.Equal(t, EventOrderUpdate, event.Kind)
	assert.Equal(t, "accepted", event.Status)

	select {
	case unexpected := <-other:
		t.Fatalf("event should not reach another subscriber: %+v", unexpected)
	default:
	}
}

func TestHubDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()
	hub := NewHub(zap.NewNop())

	events, cancel := hub.Subscribe("KIOSK-1")
	defer cancel()

	// Overflow the buffer without draining; Broadcast must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+5; i++ {
			hub.Broadcast(Event{Kind: EventNewOrder, OrderID: "ORD-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a full subscriber")
	}

	assert.Len(t, events, subscriberBuffer)
}

func TestHubCancel(t *testing.T) {
	t.Parallel()
	hub := NewHub(zap.NewNop())

	events, cancel := hub.Subscribe("KIOSK-1")
	cancel()
	// A second cancel must not panic on the closed channel.
	cancel()

	_, open := <-events
	require.False(t, open)

	// Events after cancel go nowhere.
	hub.Broadcast(Event{Kind: EventNewOrder, OrderID: "ORD-1"})
}
