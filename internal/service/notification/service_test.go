package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotify_DeliversToSubscriber(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, Config{WorkerCount: 1, QueueSize: 10})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, cleanup := svc.Subscribe(ctx, "user-1")
	defer cleanup()

	svc.Notify("user-1", notification.Success("Checked In", "Have a good day"))

	select {
	case msg := <-msgs:
		assert.Equal(t, "Checked In", msg.Title)
		assert.Equal(t, "Have a good day", msg.Description)
		assert.False(t, msg.IsError)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.CreatedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestNotify_FailureMessage(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, Config{WorkerCount: 1})
	defer svc.Stop()

	msgs, cleanup := svc.Subscribe(context.Background(), "user-1")
	defer cleanup()

	svc.Notify("user-1", notification.Failure(errors.New("boom")))

	select {
	case msg := <-msgs:
		assert.Equal(t, "Error", msg.Title)
		assert.Equal(t, "boom", msg.Description)
		assert.True(t, msg.IsError)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestNotify_OtherUserNotReached(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, Config{WorkerCount: 1})

	msgs, cleanup := svc.Subscribe(context.Background(), "user-2")
	defer cleanup()

	svc.Notify("user-1", notification.Success("Task Assigned", ""))
	svc.Stop()

	select {
	case msg := <-msgs:
		t.Fatalf("unexpected message %q", msg.Title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotify_AfterStopIsNoop(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, Config{})
	svc.Stop()

	require.NotPanics(t, func() {
		svc.Notify("user-1", notification.Success("Late", ""))
		svc.Stop()
	})
}

func TestSubscribe_ClosesOnContextCancel(t *testing.T) {
	hub := sse.NewHub(10)
	svc := NewNotificationService(hub, Config{})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	msgs, cleanup := svc.Subscribe(ctx, "user-1")
	defer cleanup()

	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
