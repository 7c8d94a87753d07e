package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// ReportLocationCommandHandler applies a location report to the agent
// aggregate. A stale report commits nothing but still succeeds: the device
// should not retry it.
type ReportLocationCommandHandler struct {
	uowFactory AgentUoWFactory
	publisher  ports.EventPublisher
}

// NewReportLocationCommandHandler creates a handler for location reports.
func NewReportLocationCommandHandler(uowFactory AgentUoWFactory, publisher ports.EventPublisher) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle locks the agent row and applies the report.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, command ReportLocationCommand) error {
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

	applied, err := aggregate.ReportLocation(command.Location(), command.ReportedAt())
	if err != nil {
		return err
	}
	if !applied {
		return uow.Rollback(ctx)
	}

	if err = agentRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	agentID := command.AgentID()
	location := command.Location()
	publishEvent(ctx, h.publisher, ports.Event{
		Name:       ports.EventAgentLocationUpdated,
		AgentID:    &agentID,
		Location:   &location,
		OccurredAt: command.ReportedAt(),
	}, ports.Address{Party: ports.PartyAgent, ID: agentID})

	return nil
}
