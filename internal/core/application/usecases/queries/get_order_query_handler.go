package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order row and maps it to the detail response.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. A missing order and an order owned by another
// agent both return errs.ErrObjectNotFound.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			agent_id,
			pickup_lng,
			pickup_lat,
			dropoff_lng,
			dropoff_lat,
			status,
			order_total,
			delivery_fee,
			grand_total,
			earnings,
			timeline,
			picked_up_at,
			delivered_at,
			created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id, customerID, restaurantID uuid.UUID
		agentID                      uuid.NullUUID
		pickupLng, pickupLat         float64
		dropoffLng, dropoffLat       float64
		status                       string
		resp                         GetOrderQueryResponse
		earningsRaw, timelineRaw     []byte
		pickedUpAt, deliveredAt      sql.NullTime
	)

	err := row.Scan(
		&id,
		&customerID,
		&restaurantID,
		&agentID,
		&pickupLng,
		&pickupLat,
		&dropoffLng,
		&dropoffLat,
		&status,
		&resp.OrderTotal,
		&resp.DeliveryFee,
		&resp.GrandTotal,
		&earningsRaw,
		&timelineRaw,
		&pickedUpAt,
		&deliveredAt,
		&resp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundErrorWithCause("orderID", query.OrderID(), err)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if !agentID.Valid || agentID.UUID != query.AgentID().Bytes() {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.PickupLocation, err = kernel.NewLocation(pickupLng, pickupLat); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.DropoffLocation, err = kernel.NewLocation(dropoffLng, dropoffLat); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Status = order.Status(status)
	if err = resp.Status.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.DeliveryStatus = resp.Status.DeliverySubStatus()

	if len(earningsRaw) > 0 {
		if err = json.Unmarshal(earningsRaw, &resp.Earnings); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}
	if len(timelineRaw) > 0 {
		if err = json.Unmarshal(timelineRaw, &resp.Timeline); err != nil {
			return GetOrderQueryResponse{}, err
		}
	}

	if pickedUpAt.Valid {
		t := pickedUpAt.Time
		resp.PickedUpAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		resp.DeliveredAt = &t
	}

	return resp, nil
}
