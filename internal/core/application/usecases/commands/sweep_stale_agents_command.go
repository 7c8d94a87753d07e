package commands

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSweepStaleAgentsCommandIsNotConstructed = errors.New(
	"SweepStaleAgentsCommand must be created via NewSweepStaleAgentsCommand constructor",
)

// SweepStaleAgentsCommand flips agents whose devices went silent for longer
// than the threshold to unavailable, so dead connections stop absorbing
// claimable orders.
type SweepStaleAgentsCommand struct { //nolint:recvcheck //using for validation
	threshold time.Duration

	guard guard.ConstructorGuard
}

// NewSweepStaleAgentsCommand creates a sweep with the given silence threshold.
func NewSweepStaleAgentsCommand(threshold time.Duration) (SweepStaleAgentsCommand, error) {
	if threshold <= 0 {
		return SweepStaleAgentsCommand{}, errs.NewValueIsInvalidErrorWithCause("threshold",
			fmt.Errorf("%s is not positive", threshold))
	}

	return SweepStaleAgentsCommand{
		threshold: threshold,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepStaleAgentsCommand) Validate() error {
	return c.guard.Validate(ErrSweepStaleAgentsCommandIsNotConstructed)
}

// Threshold returns the maximum tolerated silence.
func (c SweepStaleAgentsCommand) Threshold() time.Duration {
	return c.threshold
}
