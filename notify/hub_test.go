package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch1, unsub1 := hub.Subscribe()
	ch2, unsub2 := hub.Subscribe()
	defer unsub1()
	defer unsub2()

	event := MatchEvent{MatchId: "m-1", LostReportId: "lost-1", FoundReportId: "found-1", FusedScore: 0.8}
	hub.Publish(event)

	assert.Equal(t, event, <-ch1)
	assert.Equal(t, event, <-ch2)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	unsub()

	// Channel is closed after unsubscribe.
	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic.
	hub.Publish(MatchEvent{MatchId: "m-1"})
}

func TestHub_NonBlockingPublish(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, unsub := hub.Subscribe()
	defer unsub()

	// Overflow the subscriber buffer; publishes must not block.
	for i := 0; i < defaultBufferSize*2; i++ {
		hub.Publish(MatchEvent{MatchId: "m-1"})
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe()

	hub.Close()

	_, ok := <-ch
	require.False(t, ok)

	// Subscribing after close yields a closed channel.
	ch2, _ := hub.Subscribe()
	_, ok = <-ch2
	assert.False(t, ok)
}
