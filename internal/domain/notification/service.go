package notification

import "context"

// Notifier is a fire-and-forget sink. Callers never learn whether delivery
// happened.
type Notifier interface {
	Notify(userID string, msg Message)
}

// Service adds subscription and lifecycle on top of Notifier.
type Service interface {
	Notifier
	Subscribe(ctx context.Context, userID string) (<-chan Message, func())
	Stop()
}
