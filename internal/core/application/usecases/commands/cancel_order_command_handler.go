package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// CancelOrderCommandHandler cancels an order and, when an agent had already
// claimed it, bumps that agent's cancellation counter in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellations.
func NewCancelOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle locks the assigned agent's row (when there is one) before the order
// row, applies the cancellation and persists both aggregates.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, courier, err := lockOrderWithAgent(ctx, uow, command.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = aggregate.Cancel(command.Actor(), command.Note(), now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if courier != nil {
		courier.RecordCancellation()
		if err = uow.AgentRepository().Update(ctx, courier); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.OrdersCancelledTotal.Inc()

	addresses := []ports.Address{
		{Party: ports.PartyCustomer, ID: aggregate.CustomerID()},
		{Party: ports.PartyRestaurant, ID: aggregate.RestaurantID()},
	}
	if agentID := aggregate.Agent(); agentID != nil {
		addresses = append(addresses, ports.Address{Party: ports.PartyAgent, ID: *agentID})
	}

	publishEvent(ctx, h.publisher,
		ports.Event{
			Name:       ports.EventOrderCancelled,
			OrderID:    aggregate.ID(),
			Status:     aggregate.Status(),
			AgentID:    aggregate.Agent(),
			Note:       command.Note(),
			OccurredAt: now,
		},
		addresses...,
	)

	return nil
}
