// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling the conversion between domain entities and database rows.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The timeline and the earnings breakdown are stored as jsonb documents; the
// transition history is only ever read back whole, never queried by entry.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	AgentID      *uuid.UUID `gorm:"type:uuid;index"`

	ClaimLng *float64 `gorm:"type:double precision"`
	ClaimLat *float64 `gorm:"type:double precision"`

	Pickup  CoordinateDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff CoordinateDTO `gorm:"embedded;embeddedPrefix:dropoff_"`

	Status string `gorm:"type:varchar(32);not null;index"`

	OrderTotal  float64 `gorm:"type:numeric;not null"`
	DeliveryFee float64 `gorm:"type:numeric;not null"`
	GrandTotal  float64 `gorm:"type:numeric;not null"`

	Earnings order.EarningsBreakdown `gorm:"serializer:json;type:jsonb"`
	Timeline []order.TimelineEntry   `gorm:"serializer:json;type:jsonb"`

	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// CoordinateDTO represents an embedded lng/lat pair within the orders table.
type CoordinateDTO struct {
	Lng float64 `gorm:"type:double precision;not null"`
	Lat float64 `gorm:"type:double precision;not null"`
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var agentID *uuid.UUID
	if aggregate.Agent() != nil {
		raw := aggregate.Agent().Bytes()
		agentID = &raw
	}

	var claimLng, claimLat *float64
	if loc := aggregate.ClaimLocation(); loc != nil {
		lng, lat := loc.Longitude(), loc.Latitude()
		claimLng, claimLat = &lng, &lat
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerID:   aggregate.CustomerID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		AgentID:      agentID,
		ClaimLng:     claimLng,
		ClaimLat:     claimLat,
		Pickup: CoordinateDTO{
			Lng: aggregate.PickupLocation().Longitude(),
			Lat: aggregate.PickupLocation().Latitude(),
		},
		Dropoff: CoordinateDTO{
			Lng: aggregate.DropoffLocation().Longitude(),
			Lat: aggregate.DropoffLocation().Latitude(),
		},
		Status:      string(aggregate.Status()),
		OrderTotal:  aggregate.OrderTotal(),
		DeliveryFee: aggregate.DeliveryFee(),
		GrandTotal:  aggregate.GrandTotal(),
		Earnings:    aggregate.Earnings(),
		Timeline:    aggregate.Timeline(),
		PickedUpAt:  aggregate.PickedUpAt(),
		DeliveredAt: aggregate.DeliveredAt(),
		CreatedAt:   aggregate.CreatedAt(),
	}
}

// toDomain converts a database row to an order domain aggregate using
// RestoreOrder, which re-validates the status/agent consistency invariant.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &aID
	}

	var claimLocation *kernel.Location
	if dto.ClaimLng != nil && dto.ClaimLat != nil {
		loc, locErr := kernel.NewLocation(*dto.ClaimLng, *dto.ClaimLat)
		if locErr != nil {
			return nil, locErr
		}
		claimLocation = &loc
	}

	pickup, err := kernel.NewLocation(dto.Pickup.Lng, dto.Pickup.Lat)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewLocation(dto.Dropoff.Lng, dto.Dropoff.Lat)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:              id,
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		AgentID:         agentID,
		ClaimLocation:   claimLocation,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Status:          order.Status(dto.Status),
		OrderTotal:      dto.OrderTotal,
		DeliveryFee:     dto.DeliveryFee,
		GrandTotal:      dto.GrandTotal,
		Earnings:        dto.Earnings,
		Timeline:        dto.Timeline,
		PickedUpAt:      dto.PickedUpAt,
		DeliveredAt:     dto.DeliveredAt,
		CreatedAt:       dto.CreatedAt,
	})
}
