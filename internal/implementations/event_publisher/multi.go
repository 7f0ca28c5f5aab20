package eventpublisher

import (
	"context"
	"medremind/internal/core/domain/reminder"
)

// Multi hands every event to each publisher in order.
type Multi []reminder.EventPublisher

func (m Multi) Publish(ctx context.Context, event reminder.Event) {
	for _, publisher := range m {
		publisher.Publish(ctx, event)
	}
}
