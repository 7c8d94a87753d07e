package queries

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FindAvailableOrdersQueryHandler runs the availability search. The database
// does a cheap bounding-box prefilter on the pickup coordinate; exact haversine
// distances, the radius cut and the ordering happen in Go on the prefiltered
// rows.
type FindAvailableOrdersQueryHandler struct {
	db         *gorm.DB
	calculator services.EarningsCalculator
}

// NewFindAvailableOrdersQueryHandler creates a handler for availability
// searches.
func NewFindAvailableOrdersQueryHandler(db *gorm.DB, calculator services.EarningsCalculator) FindAvailableOrdersQueryHandler {
	return FindAvailableOrdersQueryHandler{
		db:         db,
		calculator: calculator,
	}
}

// Handle executes the search. Results are sorted by distance ascending with
// creation time as the tiebreak, so two agents at the same spot see the same
// list.
func (h FindAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query FindAvailableOrdersQuery,
) ([]FindAvailableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	origin, err := h.resolveOrigin(ctx, query)
	if err != nil {
		return nil, err
	}

	box := boundingBox(origin, query.RadiusMeters())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			pickup_lng,
			pickup_lat,
			dropoff_lng,
			dropoff_lat,
			order_total,
			delivery_fee,
			grand_total,
			created_at
		FROM orders
		WHERE status = ?
		  AND agent_id IS NULL
		  AND pickup_lat BETWEEN ? AND ?
		  AND pickup_lng BETWEEN ? AND ?
	`, order.StatusReadyForPickup, box.minLat, box.maxLat, box.minLng, box.maxLng).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]FindAvailableOrdersQueryResponse, 0)

	for rows.Next() {
		var item FindAvailableOrdersQueryResponse
		var id uuid.UUID
		var pickupLng, pickupLat, dropoffLng, dropoffLat float64

		err = rows.Scan(
			&id,
			&pickupLng,
			&pickupLat,
			&dropoffLng,
			&dropoffLat,
			&item.OrderTotal,
			&item.DeliveryFee,
			&item.GrandTotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = orderID

		pickup, locErr := kernel.NewLocation(pickupLng, pickupLat)
		if locErr != nil {
			return nil, locErr
		}
		dropoff, locErr := kernel.NewLocation(dropoffLng, dropoffLat)
		if locErr != nil {
			return nil, locErr
		}
		item.PickupLocation = pickup
		item.DropoffLocation = dropoff

		item.DistanceMeters = origin.DistanceMeters(pickup)

		item.EstimatedEarnings, err = h.calculator.Estimate(&origin, pickup, dropoff)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	ranked := rankByProximity(candidates, query.RadiusMeters())
	if len(ranked) > query.Limit() {
		ranked = ranked[:query.Limit()]
	}

	return ranked, nil
}

// resolveOrigin returns the explicit search center when the query carries one,
// otherwise the agent's last reported location.
func (h FindAvailableOrdersQueryHandler) resolveOrigin(
	ctx context.Context,
	query FindAvailableOrdersQuery,
) (kernel.Location, error) {
	if origin := query.Origin(); origin != nil {
		return *origin, nil
	}

	var lng, lat *float64
	err := h.db.WithContext(ctx).Raw(`
		SELECT lng, lat FROM agents WHERE id = ?
	`, query.AgentID().Bytes()).Row().Scan(&lng, &lat)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return kernel.Location{}, errs.NewObjectNotFoundErrorWithCause("agentID", query.AgentID(), err)
	}
	if err != nil {
		return kernel.Location{}, err
	}

	if lng == nil || lat == nil {
		return kernel.Location{}, errs.NewValueIsRequiredError(
			"coordinate (agent has no reported location)")
	}

	return kernel.NewLocation(*lng, *lat)
}

// rankByProximity drops candidates outside the exact radius and orders the
// rest by distance ascending, creation time ascending on ties.
func rankByProximity(candidates []FindAvailableOrdersQueryResponse, radiusMeters float64) []FindAvailableOrdersQueryResponse {
	ranked := make([]FindAvailableOrdersQueryResponse, 0, len(candidates))
	for _, c := range candidates {
		if c.DistanceMeters <= radiusMeters {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DistanceMeters != ranked[j].DistanceMeters {
			return ranked[i].DistanceMeters < ranked[j].DistanceMeters
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})

	return ranked
}

type latLngBox struct {
	minLng, maxLng float64
	minLat, maxLat float64
}

// boundingBox computes a degree box that fully contains the radius circle.
// The box over-selects near the poles (longitude degrees shrink with cosine
// of latitude); the exact haversine cut removes the excess afterwards.
func boundingBox(origin kernel.Location, radiusMeters float64) latLngBox {
	latDelta := radiusMeters / kernel.MetersPerDegreeLatitude

	cosLat := math.Cos(origin.Latitude() * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta := radiusMeters / (kernel.MetersPerDegreeLatitude * cosLat)

	return latLngBox{
		minLng: math.Max(-180, origin.Longitude()-lngDelta),
		maxLng: math.Min(180, origin.Longitude()+lngDelta),
		minLat: math.Max(-90, origin.Latitude()-latDelta),
		maxLat: math.Min(90, origin.Latitude()+latDelta),
	}
}
