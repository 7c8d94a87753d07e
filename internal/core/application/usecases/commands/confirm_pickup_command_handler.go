package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ErrNotOrderOwner is returned when an agent operates on an order assigned to
// someone else.
var ErrNotOrderOwner = errors.New("order is assigned to another agent")

// ConfirmPickupCommandHandler moves an assigned order to picked_up and stamps
// the actual pickup time used later for the time bonus.
type ConfirmPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewConfirmPickupCommandHandler creates a handler for pickup confirmations.
func NewConfirmPickupCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle locks the order row, verifies ownership, applies the transition and
// persists it. Returns the updated order.
func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, command ConfirmPickupCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if !aggregate.OwnedBy(command.AgentID()) {
		return nil, ErrNotOrderOwner
	}

	now := time.Now().UTC()
	if err = aggregate.ConfirmPickup(now); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	agentID := command.AgentID()
	publishEvent(ctx, h.publisher,
		ports.Event{
			Name:       ports.EventOrderPickedUp,
			OrderID:    aggregate.ID(),
			Status:     aggregate.Status(),
			AgentID:    &agentID,
			OccurredAt: now,
		},
		ports.Address{Party: ports.PartyCustomer, ID: aggregate.CustomerID()},
		ports.Address{Party: ports.PartyRestaurant, ID: aggregate.RestaurantID()},
	)

	return aggregate, nil
}
