package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRolloverEarningsCommandIsNotConstructed = errors.New(
	"RolloverEarningsCommand must be created via NewRolloverEarningsCommand constructor",
)

// RolloverEarningsCommand resets one earnings window (day, week or month) for
// every agent. Fired by the scheduler at the corresponding period boundary;
// lifetime earnings are never reset.
type RolloverEarningsCommand struct { //nolint:recvcheck //using for validation
	bucket ports.LedgerBucket

	guard guard.ConstructorGuard
}

// NewRolloverEarningsCommand creates a rollover for the given window.
func NewRolloverEarningsCommand(bucket ports.LedgerBucket) (RolloverEarningsCommand, error) {
	switch bucket {
	case ports.LedgerBucketDay, ports.LedgerBucketWeek, ports.LedgerBucketMonth:
	default:
		return RolloverEarningsCommand{}, errs.NewValueIsInvalidErrorWithCause("bucket",
			fmt.Errorf("%q is not a ledger bucket", string(bucket)))
	}

	return RolloverEarningsCommand{
		bucket: bucket,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RolloverEarningsCommand) Validate() error {
	return c.guard.Validate(ErrRolloverEarningsCommandIsNotConstructed)
}

// Bucket returns the window being reset.
func (c RolloverEarningsCommand) Bucket() ports.LedgerBucket {
	return c.bucket
}
