package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetAvailabilityCommandIsNotConstructed = errors.New(
	"SetAvailabilityCommand must be created via NewSetAvailabilityCommand constructor",
)

// SetAvailabilityCommand toggles whether an agent accepts new claims.
type SetAvailabilityCommand struct { //nolint:recvcheck //using for validation
	agentID   kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

// NewSetAvailabilityCommand creates an availability toggle.
func NewSetAvailabilityCommand(agentID kernel.UUID, available bool) (SetAvailabilityCommand, error) {
	if err := agentID.Validate(); err != nil {
		return SetAvailabilityCommand{}, err
	}

	return SetAvailabilityCommand{
		agentID:   agentID,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAvailabilityCommandIsNotConstructed)
}

// AgentID returns the agent being toggled.
func (c SetAvailabilityCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Available returns the requested availability.
func (c SetAvailabilityCommand) Available() bool {
	return c.available
}
