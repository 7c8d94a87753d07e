package commands

import (
	"context"
	"errors"
)

// ErrOrderNotRateable is returned when a rating arrives for an order that is
// not delivered or never had an agent.
var ErrOrderNotRateable = errors.New("only delivered orders can be rated")

// RateDeliveryCommandHandler credits a customer rating to the delivering
// agent's rating accumulator.
type RateDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewRateDeliveryCommandHandler creates a handler for delivery ratings.
func NewRateDeliveryCommandHandler(uowFactory UoWFactory) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle resolves the order's agent and applies the rating.
func (h RateDeliveryCommandHandler) Handle(ctx context.Context, command RateDeliveryCommand) error {
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

	aggregate, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}
	if aggregate.DeliveredAt() == nil || aggregate.Agent() == nil {
		return ErrOrderNotRateable
	}

	agentRepo := uow.AgentRepository()

	courier, err := agentRepo.GetForUpdate(ctx, *aggregate.Agent())
	if err != nil {
		return err
	}
	if err = courier.AddRating(command.Rating()); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, courier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
