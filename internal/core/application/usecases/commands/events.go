package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// publishEvent fans an event out after the transaction committed. Publish
// failures are logged and counted but never returned: the state change is
// already durable and must not be rolled back over a broker hiccup.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, event ports.Event, addresses ...ports.Address) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, event, addresses...); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		attrs := []any{"event", event.Name, "error", err}
		if event.OrderID.Validate() == nil {
			attrs = append(attrs, "orderId", event.OrderID.String())
		}
		if event.AgentID != nil {
			attrs = append(attrs, "agentId", event.AgentID.String())
		}
		slog.ErrorContext(ctx, "event publish failed", attrs...)
	}
}
