// Package ports defines the persistence and messaging interfaces between the
// application core and infrastructure adapters, enabling dependency inversion
// and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order aggregate and takes a row lock on it,
	// holding the lock until the surrounding transaction ends. Must be called
	// inside an active unit of work.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Claim persists an assigned aggregate with a single conditional update
	// that succeeds only while the stored row is still ready for pickup and
	// unassigned. Returns false when another agent won the race or the order
	// left the claimable state; the row is untouched in that case.
	Claim(ctx context.Context, aggregate *order.Order) (bool, error)

	// CountActiveByAgent returns the number of non-terminal orders currently
	// assigned to the agent.
	CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int64, error)
}
