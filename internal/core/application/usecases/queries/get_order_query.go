package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches the full detail of one order on behalf of an agent.
// Orders assigned to a different agent are reported as not found, never as
// forbidden: the response must not leak that the order exists.
type GetOrderQuery struct {
	orderID kernel.UUID
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates an order detail query scoped to the given agent.
func NewGetOrderQuery(orderID, agentID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(
		orderID.Validate(),
		agentID.Validate(),
	); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// AgentID returns the requesting agent.
func (q GetOrderQuery) AgentID() kernel.UUID { return q.agentID }

// GetOrderQueryResponse is the full order detail visible to the owning agent.
type GetOrderQueryResponse struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	RestaurantID    kernel.UUID
	PickupLocation  kernel.Location
	DropoffLocation kernel.Location
	Status          order.Status
	DeliveryStatus  order.DeliveryStatus
	OrderTotal      float64
	DeliveryFee     float64
	GrandTotal      float64
	Earnings        order.EarningsBreakdown
	Timeline        []order.TimelineEntry
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
}
