package commands

import (
	"context"
	"errors"
	"time"
)

// ErrAgentHasActiveOrder is returned when an agent tries to go off duty while
// still holding a non-terminal order.
var ErrAgentHasActiveOrder = errors.New("agent still has an active order")

// SetAvailabilityCommandHandler toggles an agent's availability. Going
// unavailable is rejected while the agent holds an order that has not reached
// a terminal status, so a delivery in flight can never lose its agent.
type SetAvailabilityCommandHandler struct {
	uowFactory UoWFactory
}

// NewSetAvailabilityCommandHandler creates a handler for availability toggles.
func NewSetAvailabilityCommandHandler(uowFactory UoWFactory) SetAvailabilityCommandHandler {
	return SetAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle locks the agent row, checks the active-order rule and applies the
// toggle.
func (h SetAvailabilityCommandHandler) Handle(ctx context.Context, command SetAvailabilityCommand) error {
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

	agentRepo := uow.AgentRepository()

	aggregate, err := agentRepo.GetForUpdate(ctx, command.AgentID())
	if err != nil {
		return err
	}

	if !command.Available() {
		active, countErr := uow.OrderRepository().CountActiveByAgent(ctx, command.AgentID())
		if countErr != nil {
			return countErr
		}
		if active > 0 {
			return ErrAgentHasActiveOrder
		}
	}

	aggregate.SetAvailability(command.Available(), time.Now().UTC())

	if err = agentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
