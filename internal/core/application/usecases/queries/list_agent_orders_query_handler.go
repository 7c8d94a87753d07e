package queries

import (
	"context"
	"encoding/json"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListAgentOrdersQueryHandler reads an agent's order history.
type ListAgentOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListAgentOrdersQueryHandler creates a handler for order history queries.
func NewListAgentOrdersQueryHandler(db *gorm.DB) ListAgentOrdersQueryHandler {
	return ListAgentOrdersQueryHandler{db: db}
}

// Handle executes the query, newest orders first.
func (h ListAgentOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListAgentOrdersQuery,
) ([]ListAgentOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			status,
			pickup_lng,
			pickup_lat,
			dropoff_lng,
			dropoff_lat,
			earnings,
			created_at
		FROM orders
		WHERE agent_id = ?
	`
	args := []any{query.AgentID().Bytes()}

	if query.Status() != order.StatusUnknown {
		sql += " AND status = ?"
		args = append(args, query.Status())
	}
	sql += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ListAgentOrdersQueryResponse, 0)

	for rows.Next() {
		var item ListAgentOrdersQueryResponse
		var id uuid.UUID
		var status string
		var pickupLng, pickupLat, dropoffLng, dropoffLat float64
		var earningsRaw []byte

		err = rows.Scan(
			&id,
			&status,
			&pickupLng,
			&pickupLat,
			&dropoffLng,
			&dropoffLat,
			&earningsRaw,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.PickupLocation, err = kernel.NewLocation(pickupLng, pickupLat); err != nil {
			return nil, err
		}
		if item.DropoffLocation, err = kernel.NewLocation(dropoffLng, dropoffLat); err != nil {
			return nil, err
		}

		item.Status = order.Status(status)
		item.DeliveryStatus = item.Status.DeliverySubStatus()

		if len(earningsRaw) > 0 {
			var earnings order.EarningsBreakdown
			if err = json.Unmarshal(earningsRaw, &earnings); err != nil {
				return nil, err
			}
			item.EarningsTotal = earnings.Total
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
