package providers

import (
	"context"

	"github.com/tabilog/tabilog/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ChangeEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ChangeEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelChanges is the channel carrying every entity change
const EventChannelChanges = "changes"

// ChangeChannel returns the channel name for a specific entity kind
func ChangeChannel(kind entities.ChangeKind) string {
	return "changes:" + string(kind)
}
