package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// AmendTipCommandHandler applies a post-delivery tip change and credits the
// signed difference to the agent's ledger in the same transaction, so lowering
// a tip claws the difference back.
type AmendTipCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewAmendTipCommandHandler creates a handler for tip amendments.
func NewAmendTipCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AmendTipCommandHandler {
	return AmendTipCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle locks the agent row before the order row, applies the amendment and
// persists both aggregates.
func (h AmendTipCommandHandler) Handle(ctx context.Context, command AmendTipCommand) error {
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

	delta, err := aggregate.AmendTip(command.Tip())
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if courier != nil && delta != 0 {
		courier.CreditEarnings(delta)
		if err = uow.AgentRepository().Update(ctx, courier); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	earnings := aggregate.Earnings()
	addresses := []ports.Address{}
	if agentID := aggregate.Agent(); agentID != nil {
		addresses = append(addresses, ports.Address{Party: ports.PartyAgent, ID: *agentID})
	}

	publishEvent(ctx, h.publisher,
		ports.Event{
			Name:       ports.EventOrderUpdated,
			OrderID:    aggregate.ID(),
			Status:     aggregate.Status(),
			AgentID:    aggregate.Agent(),
			Earnings:   &earnings,
			OccurredAt: time.Now().UTC(),
		},
		addresses...,
	)

	return nil
}
