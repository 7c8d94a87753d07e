package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceOrderStatusCommandIsNotConstructed = errors.New(
	"AdvanceOrderStatusCommand must be created via NewAdvanceOrderStatusCommand constructor",
)

// AdvanceOrderStatusCommand applies an externally driven lifecycle transition:
// restaurant progress (confirmed, preparing, ready_for_pickup), the agent
// heading out (out_for_delivery) or a refund. Claim, pickup, delivery and
// cancellation have dedicated commands and are rejected here.
type AdvanceOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	to      order.Status
	actor   order.ActorRole
	note    string

	guard guard.ConstructorGuard
}

// NewAdvanceOrderStatusCommand creates a transition command.
func NewAdvanceOrderStatusCommand(
	orderID kernel.UUID,
	to order.Status,
	actor order.ActorRole,
	note string,
) (AdvanceOrderStatusCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		to.Validate(),
		actor.Validate(),
	); err != nil {
		return AdvanceOrderStatusCommand{}, err
	}

	return AdvanceOrderStatusCommand{
		orderID: orderID,
		to:      to,
		actor:   actor,
		note:    note,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order being advanced.
func (c AdvanceOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// To returns the target status.
func (c AdvanceOrderStatusCommand) To() order.Status {
	return c.to
}

// Actor returns who drove the transition.
func (c AdvanceOrderStatusCommand) Actor() order.ActorRole {
	return c.actor
}

// Note returns the optional transition remark.
func (c AdvanceOrderStatusCommand) Note() string {
	return c.note
}
