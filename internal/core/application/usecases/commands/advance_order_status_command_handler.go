package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// AdvanceOrderStatusCommandHandler applies hook-driven transitions from the
// ordering subsystem and restaurants.
type AdvanceOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewAdvanceOrderStatusCommandHandler creates a handler for external
// transitions.
func NewAdvanceOrderStatusCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) AdvanceOrderStatusCommandHandler {
	return AdvanceOrderStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle locks the order row, applies the transition and persists it.
func (h AdvanceOrderStatusCommandHandler) Handle(ctx context.Context, command AdvanceOrderStatusCommand) error {
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

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = aggregate.AdvanceTo(command.To(), command.Actor(), command.Note(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	addresses := []ports.Address{
		{Party: ports.PartyCustomer, ID: aggregate.CustomerID()},
		{Party: ports.PartyRestaurant, ID: aggregate.RestaurantID()},
	}
	if agentID := aggregate.Agent(); agentID != nil {
		addresses = append(addresses, ports.Address{Party: ports.PartyAgent, ID: *agentID})
	}

	publishEvent(ctx, h.publisher,
		ports.Event{
			Name:       ports.EventOrderUpdated,
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
