package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand registers a delivery agent with the dispatch service.
// Identity and credentials are owned by the account subsystem; dispatch only
// tracks availability, location and earnings under the given identifier.
type RegisterAgentCommand struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRegisterAgentCommand creates a registration command.
func NewRegisterAgentCommand(agentID kernel.UUID) (RegisterAgentCommand, error) {
	if err := agentID.Validate(); err != nil {
		return RegisterAgentCommand{}, err
	}

	return RegisterAgentCommand{
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

// AgentID returns the identifier of the agent being registered.
func (c RegisterAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}
