package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand carries a periodic position report from an agent's
// device. Reports may arrive out of order; stale ones are discarded.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	agentID    kernel.UUID
	location   kernel.Location
	reportedAt time.Time

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a location report. reportedAt is the
// device-side capture time.
func NewReportLocationCommand(agentID kernel.UUID, location kernel.Location, reportedAt time.Time) (ReportLocationCommand, error) {
	if err := errors.Join(
		agentID.Validate(),
		location.Validate(),
	); err != nil {
		return ReportLocationCommand{}, err
	}

	return ReportLocationCommand{
		agentID:    agentID,
		location:   location,
		reportedAt: reportedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// AgentID returns the reporting agent.
func (c ReportLocationCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Location returns the reported coordinate.
func (c ReportLocationCommand) Location() kernel.Location {
	return c.location
}

// ReportedAt returns the device-side capture time.
func (c ReportLocationCommand) ReportedAt() time.Time {
	return c.reportedAt
}
