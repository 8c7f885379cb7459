package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub(4)

	mine, cleanupMine := hub.Subscribe("user-1")
	defer cleanupMine()
	other, cleanupOther := hub.Subscribe("user-2")
	defer cleanupOther()

	delivered := hub.Publish("user-1", Event{UserID: "user-1", Event: "notification", Data: "hello"})
	assert.Equal(t, 1, delivered)

	select {
	case ev := <-mine:
		assert.Equal(t, "hello", ev.Data)
	default:
		t.Fatal("expected event for user-1")
	}

	select {
	case <-other:
		t.Fatal("user-2 must not receive user-1 events")
	default:
	}
}

func TestHub_FullBufferIsSkipped(t *testing.T) {
	hub := NewHub(1)
	_, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	assert.Equal(t, 1, hub.Publish("user-1", Event{Event: "a"}))
	assert.Equal(t, 0, hub.Publish("user-1", Event{Event: "b"}))
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub(1)
	ch, cleanup := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("user-1"))
	_, open := <-ch
	assert.False(t, open)
}

func TestHub_CloseEndsStreams(t *testing.T) {
	hub := NewHub(1)
	ch, cleanup := hub.Subscribe("user-1")

	hub.Close()
	cleanup()

	_, open := <-ch
	assert.False(t, open)

	late, _ := hub.Subscribe("user-1")
	_, open = <-late
	assert.False(t, open)
	assert.Equal(t, 0, hub.Publish("user-1", Event{}))
}
