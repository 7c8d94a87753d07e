package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand records the assigned agent collecting the order from
// the restaurant.
type ConfirmPickupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmPickupCommand creates a pickup confirmation for the given order
// and agent.
func NewConfirmPickupCommand(orderID, agentID kernel.UUID) (ConfirmPickupCommand, error) {
	cmd := ConfirmPickupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		agentID.Validate(),
	); err != nil {
		return ConfirmPickupCommand{}, err
	}

	cmd.orderID = orderID
	cmd.agentID = agentID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

// OrderID returns the order being picked up.
func (c ConfirmPickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the confirming agent.
func (c ConfirmPickupCommand) AgentID() kernel.UUID {
	return c.agentID
}
