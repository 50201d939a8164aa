package service

import (
	"context"

	"github.com/foodorder/food-order-api/internal/logging"
)

// EventPublisher feeds the user_events topic. Email delivery hangs off
// these events downstream, so publishing is always fire-and-forget.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

// publishEvent logs a delivery failure and moves on; no caller of a
// service method ever fails because an event could not be published.
func publishEvent(ctx context.Context, pub EventPublisher, key string, event map[string]any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "key", key, "type", event["type"], "error", err)
	}
}
