package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type queued struct {
	userID string
	msg    notification.Message
}

type service struct {
	hub    *sse.Hub
	config Config
	now    func() time.Time

	queue    chan queued
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(hub *sse.Hub, cfg Config) notification.Service {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		hub:    hub,
		config: cfg,
		now:    time.Now,
		queue:  make(chan queued, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case q := <-s.queue:
			s.deliver(id, q)
		case <-s.stopCh:
			// drain what is already queued
			for {
				select {
				case q := <-s.queue:
					s.deliver(id, q)
				default:
					return
				}
			}
		}
	}
}

func (s *service) deliver(workerID int, q queued) {
	n := s.hub.Publish(q.userID, sse.Event{
		UserID: q.userID,
		Event:  notification.EventName,
		Data:   q.msg,
	})
	slog.Debug("notification delivered",
		"worker", workerID,
		"user_id", q.userID,
		"title", q.msg.Title,
		"streams", n,
	)
}

// Notify implements notification.Notifier. It never blocks; when the queue
// is full the message is dropped.
func (s *service) Notify(userID string, msg notification.Message) {
	if userID == "" {
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now().UTC()
	}

	select {
	case <-s.stopCh:
		return
	default:
	}

	select {
	case s.queue <- queued{userID: userID, msg: msg}:
	default:
		slog.Warn("notification queue full, dropping message", "user_id", userID, "title", msg.Title)
	}
}

// Subscribe creates an SSE subscription for a user
func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.Message, func()) {
	ch, cleanup := s.hub.Subscribe(userID)

	out := make(chan notification.Message, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				msg, ok := event.Data.(notification.Message)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop drains the queue and waits for the workers.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
