// File: internal/chat/hub_test.go
package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub(8, zap.NewNop())
	roomID := uuid.New()

	ch, cancel := hub.Subscribe(roomID)
	defer cancel()

	for i := 0; i < 5; i++ {
		hub.Publish(MessageView{RoomID: roomID, Content: fmt.Sprintf("msg-%d", i)})
	}

	for i := 0; i < 5; i++ {
		select {
		case msg := <-ch:
			assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Content)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := NewHub(8, zap.NewNop())
	roomA := uuid.New()
	roomB := uuid.New()

	chA, cancelA := hub.Subscribe(roomA)
	defer cancelA()
	chB, cancelB := hub.Subscribe(roomB)
	defer cancelB()

	hub.Publish(MessageView{RoomID: roomA, Content: "for A"})

	select {
	case msg := <-chA:
		assert.Equal(t, "for A", msg.Content)
	case <-time.After(time.Second):
		t.Fatal("room A subscriber should receive the message")
	}

	select {
	case msg := <-chB:
		t.Fatalf("room B subscriber unexpectedly received %q", msg.Content)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_CancelClosesChannelAndStopsDelivery(t *testing.T) {
	hub := NewHub(8, zap.NewNop())
	roomID := uuid.New()

	ch, cancel := hub.Subscribe(roomID)
	assert.Equal(t, 1, hub.SubscriberCount(roomID))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount(roomID))

	_, open := <-ch
	assert.False(t, open, "cancel must close the channel")

	// Publishing to a room with no subscribers is a no-op.
	hub.Publish(MessageView{RoomID: roomID, Content: "into the void"})
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	roomID := uuid.New()

	_, cancel := hub.Subscribe(roomID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		// The buffer holds one message; the rest are dropped, never blocking.
		for i := 0; i < 10; i++ {
			hub.Publish(MessageView{RoomID: roomID, Content: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_MultipleSubscribersAllReceive(t *testing.T) {
	hub := NewHub(8, zap.NewNop())
	roomID := uuid.New()

	ch1, cancel1 := hub.Subscribe(roomID)
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(roomID)
	defer cancel2()

	hub.Publish(MessageView{RoomID: roomID, Content: "broadcast"})

	for _, ch := range []<-chan MessageView{ch1, ch2} {
		select {
		case msg := <-ch:
			assert.Equal(t, "broadcast", msg.Content)
		case <-time.After(time.Second):
			t.Fatal("subscriber missed the broadcast")
		}
	}
}
