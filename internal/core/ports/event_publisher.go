package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Event names published on order lifecycle transitions and agent reports.
const (
	EventOrderAssigned        = "order.assigned"
	EventOrderPickedUp        = "order.picked_up"
	EventOrderDelivered       = "order.delivered"
	EventOrderCancelled       = "order.cancelled"
	EventOrderUpdated         = "order.updated"
	EventAgentLocationUpdated = "agent.location_updated"
)

// Party identifies the kind of recipient an event is addressed to.
type Party string

const (
	PartyCustomer   Party = "customer"
	PartyRestaurant Party = "restaurant"
	PartyAgent      Party = "agent"
)

// Address routes an event to one interested party.
type Address struct {
	Party Party
	ID    kernel.UUID
}

// Event is the notification payload fanned out after a committed change.
// Lifecycle events carry the order fields; agent reports carry AgentID and
// Location only.
type Event struct {
	Name       string                   `json:"event"`
	OrderID    kernel.UUID              `json:"orderId,omitzero"`
	Status     order.Status             `json:"status,omitempty"`
	AgentID    *kernel.UUID             `json:"agentId,omitempty"`
	Location   *kernel.Location         `json:"location,omitempty"`
	Note       string                   `json:"note,omitempty"`
	Earnings   *order.EarningsBreakdown `json:"earnings,omitempty"`
	OccurredAt time.Time                `json:"occurredAt"`
}

// EventPublisher fans an event out to each address. Publishing is best effort:
// implementations report errors for logging and metrics, but callers must not
// fail the committed operation on a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, event Event, addresses ...Address) error
}

// NopEventPublisher discards events. Used in tests and when the broker is not
// configured.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, Event, ...Address) error { return nil }
