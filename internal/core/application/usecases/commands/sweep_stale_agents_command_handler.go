package commands

import (
	"context"
	"log/slog"
	"time"
)

// SweepStaleAgentsCommandHandler marks silent agents unavailable with a single
// bulk update.
type SweepStaleAgentsCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewSweepStaleAgentsCommandHandler creates a handler for stale-agent sweeps.
func NewSweepStaleAgentsCommandHandler(uowFactory AgentUoWFactory) SweepStaleAgentsCommandHandler {
	return SweepStaleAgentsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle computes the cutoff and applies the sweep inside a transaction.
func (h SweepStaleAgentsCommandHandler) Handle(ctx context.Context, command SweepStaleAgentsCommand) error {
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

	cutoff := time.Now().UTC().Add(-command.Threshold())
	swept, err := uow.AgentRepository().MarkUnavailableSince(ctx, cutoff)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if swept > 0 {
		slog.InfoContext(ctx, "stale agents marked unavailable",
			"count", swept, "cutoff", cutoff)
	}

	return nil
}
