package commands

import (
	"context"
)

// RolloverEarningsCommandHandler zeroes one ledger window across all agents
// with a single bulk update.
type RolloverEarningsCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewRolloverEarningsCommandHandler creates a handler for ledger rollovers.
func NewRolloverEarningsCommandHandler(uowFactory AgentUoWFactory) RolloverEarningsCommandHandler {
	return RolloverEarningsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle resets the window inside a transaction.
func (h RolloverEarningsCommandHandler) Handle(ctx context.Context, command RolloverEarningsCommand) error {
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

	if err := uow.AgentRepository().ResetLedgerBucket(ctx, command.Bucket()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
