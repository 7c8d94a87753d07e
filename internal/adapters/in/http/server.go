// Package http exposes the dispatch API over echo. Agent-facing endpoints
// identify the caller through the X-Agent-ID header set by the gateway after
// authentication; order lifecycle hooks are called by the ordering and
// restaurant subsystems.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AgentIDHeader carries the authenticated agent's identifier.
const AgentIDHeader = "X-Agent-ID"

// Handlers bundles the use case handlers the server dispatches to.
type Handlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	RegisterAgent   commands.RegisterAgentCommandHandler
	ClaimOrder      commands.ClaimOrderCommandHandler
	ConfirmPickup   commands.ConfirmPickupCommandHandler
	ConfirmDelivery commands.ConfirmDeliveryCommandHandler
	AdvanceStatus   commands.AdvanceOrderStatusCommandHandler
	CancelOrder     commands.CancelOrderCommandHandler
	AmendTip        commands.AmendTipCommandHandler
	RateDelivery    commands.RateDeliveryCommandHandler
	ReportLocation  commands.ReportLocationCommandHandler
	SetAvailability commands.SetAvailabilityCommandHandler

	FindAvailableOrders queries.FindAvailableOrdersQueryHandler
	GetOrder            queries.GetOrderQueryHandler
	ListAgentOrders     queries.ListAgentOrdersQueryHandler
	GetAgentStats       queries.GetAgentStatsQueryHandler
}

// Server routes HTTP requests to the application use cases.
type Server struct {
	handlers Handlers
}

// NewServer creates the HTTP server facade.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.Recover())

	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")

	// Agent app endpoints.
	v1.POST("/agents", s.registerAgent)
	v1.PUT("/agents/me/availability", s.setAvailability)
	v1.POST("/agents/me/location", s.reportLocation)
	v1.GET("/agents/me/stats", s.getAgentStats)
	v1.GET("/agents/me/orders", s.listAgentOrders)

	v1.GET("/orders/available", s.findAvailableOrders)
	v1.GET("/orders/:id", s.getOrder)
	v1.POST("/orders/:id/claim", s.claimOrder)
	v1.POST("/orders/:id/pickup", s.confirmPickup)
	v1.POST("/orders/:id/deliver", s.confirmDelivery)

	// Lifecycle hooks for the ordering and restaurant subsystems.
	v1.POST("/orders", s.createOrder)
	v1.POST("/orders/:id/status", s.advanceStatus)
	v1.POST("/orders/:id/cancel", s.cancelOrder)
	v1.PUT("/orders/:id/tip", s.amendTip)
	v1.POST("/orders/:id/rating", s.rateDelivery)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps application errors onto HTTP statuses. Validation failures
// are 400, missing objects 404, rejected business rules 409. Ownership
// failures on transition endpoints are 403; read endpoints instead report
// foreign orders as 404 so their existence never leaks.
func writeError(ctx echo.Context, err error) error {
	var status int

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrNotOrderOwner):
		status = http.StatusForbidden
	case errors.Is(err, commands.ErrOrderAlreadyClaimed),
		errors.Is(err, commands.ErrAgentUnavailable),
		errors.Is(err, commands.ErrAgentHasActiveOrder),
		errors.Is(err, commands.ErrOrderNotRateable),
		errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrTipBeforeDelivery):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		return ctx.JSON(status, errorResponse{Code: status, Message: "internal error"})
	}

	return ctx.JSON(status, errorResponse{Code: status, Message: err.Error()})
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// agentID reads the authenticated agent identifier from the request header.
func agentID(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(AgentIDHeader)
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError(AgentIDHeader + " header")
	}
	return kernel.UUIDFromString(raw)
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

func (s *Server) registerAgent(ctx echo.Context) error {
	id, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}

	cmd, err := commands.NewRegisterAgentCommand(id)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.RegisterAgent.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (s *Server) setAvailability(ctx echo.Context) error {
	id, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}

	var req setAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewSetAvailabilityCommand(id, req.Available)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.SetAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type reportLocationRequest struct {
	Lng        float64    `json:"lng"`
	Lat        float64    `json:"lat"`
	ReportedAt *time.Time `json:"reportedAt"`
}

func (s *Server) reportLocation(ctx echo.Context) error {
	id, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}

	var req reportLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	location, err := kernel.NewLocation(req.Lng, req.Lat)
	if err != nil {
		return writeError(ctx, err)
	}

	reportedAt := time.Now().UTC()
	if req.ReportedAt != nil {
		reportedAt = req.ReportedAt.UTC()
	}

	cmd, err := commands.NewReportLocationCommand(id, location, reportedAt)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.ReportLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type agentStatsResponse struct {
	AgentID             kernel.UUID `json:"agentId"`
	Available           bool        `json:"available"`
	EarningsLifetime    float64     `json:"earningsLifetime"`
	EarningsDay         float64     `json:"earningsDay"`
	EarningsWeek        float64     `json:"earningsWeek"`
	EarningsMonth       float64     `json:"earningsMonth"`
	TotalDeliveries     int         `json:"totalDeliveries"`
	CompletedDeliveries int         `json:"completedDeliveries"`
	CancelledDeliveries int         `json:"cancelledDeliveries"`
	AverageRating       float64     `json:"averageRating"`
	RatingCount         int         `json:"ratingCount"`
}

func (s *Server) getAgentStats(ctx echo.Context) error {
	id, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}

	query, err := queries.NewGetAgentStatsQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}

	stats, err := s.handlers.GetAgentStats.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, agentStatsResponse{
		AgentID:             stats.AgentID,
		Available:           stats.Available,
		EarningsLifetime:    stats.EarningsLifetime,
		EarningsDay:         stats.EarningsDay,
		EarningsWeek:        stats.EarningsWeek,
		EarningsMonth:       stats.EarningsMonth,
		TotalDeliveries:     stats.TotalDeliveries,
		CompletedDeliveries: stats.CompletedDeliveries,
		CancelledDeliveries: stats.CancelledDeliveries,
		AverageRating:       stats.AverageRating,
		RatingCount:         stats.RatingCount,
	})
}

type locationResponse struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type agentOrderSummaryResponse struct {
	ID             kernel.UUID          `json:"id"`
	Status         order.Status         `json:"status"`
	DeliveryStatus order.DeliveryStatus `json:"deliveryStatus"`
	Pickup         locationResponse     `json:"pickup"`
	Dropoff        locationResponse     `json:"dropoff"`
	EarningsTotal  float64              `json:"earningsTotal"`
	CreatedAt      time.Time            `json:"createdAt"`
}

func (s *Server) listAgentOrders(ctx echo.Context) error {
	id, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}

	status := order.Status(ctx.QueryParam("status"))
	if status != order.StatusUnknown {
		if err := status.Validate(); err != nil {
			return writeError(ctx, err)
		}
	}

	limit, err := intQueryParam(ctx, "limit")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewListAgentOrdersQuery(id, status, limit)
	if err != nil {
		return writeError(ctx, err)
	}

	items, err := s.handlers.ListAgentOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]agentOrderSummaryResponse, len(items))
	for i, item := range items {
		response[i] = agentOrderSummaryResponse{
			ID:             item.ID,
			Status:         item.Status,
			DeliveryStatus: item.DeliveryStatus,
			Pickup:         toLocationResponse(item.PickupLocation),
			Dropoff:        toLocationResponse(item.DropoffLocation),
			EarningsTotal:  item.EarningsTotal,
			CreatedAt:      item.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type availableOrderResponse struct {
	ID                kernel.UUID      `json:"id"`
	Pickup            locationResponse `json:"pickup"`
	Dropoff           locationResponse `json:"dropoff"`
	DistanceMeters    float64          `json:"distanceMeters"`
	OrderTotal        float64          `json:"orderTotal"`
	DeliveryFee       float64          `json:"deliveryFee"`
	GrandTotal        float64          `json:"grandTotal"`
	EstimatedEarnings float64          `json:"estimatedEarnings"`
	CreatedAt         time.Time        `json:"createdAt"`
}

func (s *Server) findAvailableOrders(ctx echo.Context) error {
	radius, err := floatQueryParam(ctx, "radius")
	if err != nil {
		return writeError(ctx, err)
	}
	limit, err := intQueryParam(ctx, "limit")
	if err != nil {
		return writeError(ctx, err)
	}

	var query queries.FindAvailableOrdersQuery
	hasLng, hasLat := ctx.QueryParam("lng") != "", ctx.QueryParam("lat") != ""
	switch {
	case hasLng && hasLat:
		lng, err := floatQueryParam(ctx, "lng")
		if err != nil {
			return writeError(ctx, err)
		}
		lat, err := floatQueryParam(ctx, "lat")
		if err != nil {
			return writeError(ctx, err)
		}
		origin, err := kernel.NewLocation(lng, lat)
		if err != nil {
			return writeError(ctx, err)
		}
		query, err = queries.NewFindAvailableOrdersQuery(origin, radius, limit)
		if err != nil {
			return writeError(ctx, err)
		}
	case hasLng || hasLat:
		return writeError(ctx, errs.NewValueIsRequiredError("both lng and lat query parameters"))
	default:
		// No coordinate given: center the search on the agent's last
		// reported location.
		aID, err := agentID(ctx)
		if err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
		}
		query, err = queries.NewFindAvailableOrdersQueryForAgent(aID, radius, limit)
		if err != nil {
			return writeError(ctx, err)
		}
	}

	items, err := s.handlers.FindAvailableOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]availableOrderResponse, len(items))
	for i, item := range items {
		response[i] = availableOrderResponse{
			ID:                item.ID,
			Pickup:            toLocationResponse(item.PickupLocation),
			Dropoff:           toLocationResponse(item.DropoffLocation),
			DistanceMeters:    item.DistanceMeters,
			OrderTotal:        item.OrderTotal,
			DeliveryFee:       item.DeliveryFee,
			GrandTotal:        item.GrandTotal,
			EstimatedEarnings: item.EstimatedEarnings,
			CreatedAt:         item.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type orderDetailResponse struct {
	ID             kernel.UUID             `json:"id"`
	CustomerID     kernel.UUID             `json:"customerId"`
	RestaurantID   kernel.UUID             `json:"restaurantId"`
	Pickup         locationResponse        `json:"pickup"`
	Dropoff        locationResponse        `json:"dropoff"`
	Status         order.Status            `json:"status"`
	DeliveryStatus order.DeliveryStatus    `json:"deliveryStatus"`
	OrderTotal     float64                 `json:"orderTotal"`
	DeliveryFee    float64                 `json:"deliveryFee"`
	GrandTotal     float64                 `json:"grandTotal"`
	Earnings       order.EarningsBreakdown `json:"earnings"`
	Timeline       []order.TimelineEntry   `json:"timeline"`
	PickedUpAt     *time.Time              `json:"pickedUpAt,omitempty"`
	DeliveredAt    *time.Time              `json:"deliveredAt,omitempty"`
	CreatedAt      time.Time               `json:"createdAt"`
}

func (s *Server) getOrder(ctx echo.Context) error {
	aID, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	query, err := queries.NewGetOrderQuery(oID, aID)
	if err != nil {
		return writeError(ctx, err)
	}

	detail, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderDetailResponse{
		ID:             detail.ID,
		CustomerID:     detail.CustomerID,
		RestaurantID:   detail.RestaurantID,
		Pickup:         toLocationResponse(detail.PickupLocation),
		Dropoff:        toLocationResponse(detail.DropoffLocation),
		Status:         detail.Status,
		DeliveryStatus: detail.DeliveryStatus,
		OrderTotal:     detail.OrderTotal,
		DeliveryFee:    detail.DeliveryFee,
		GrandTotal:     detail.GrandTotal,
		Earnings:       detail.Earnings,
		Timeline:       detail.Timeline,
		PickedUpAt:     detail.PickedUpAt,
		DeliveredAt:    detail.DeliveredAt,
		CreatedAt:      detail.CreatedAt,
	})
}

func (s *Server) claimOrder(ctx echo.Context) error {
	aID, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	cmd, err := commands.NewClaimOrderCommand(oID, aID)
	if err != nil {
		return writeError(ctx, err)
	}

	claimed, err := s.handlers.ClaimOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(claimed))
}

func (s *Server) confirmPickup(ctx echo.Context) error {
	aID, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	cmd, err := commands.NewConfirmPickupCommand(oID, aID)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.handlers.ConfirmPickup.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

type confirmDeliveryRequest struct {
	Tip  float64 `json:"tip"`
	Note string  `json:"note"`
}

func (s *Server) confirmDelivery(ctx echo.Context) error {
	aID, err := agentID(ctx)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(AgentIDHeader, err))
	}
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req confirmDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewConfirmDeliveryCommand(oID, aID, req.Tip, req.Note)
	if err != nil {
		return writeError(ctx, err)
	}

	delivered, err := s.handlers.ConfirmDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(delivered))
}

type createOrderRequest struct {
	CustomerID   kernel.UUID      `json:"customerId"`
	RestaurantID kernel.UUID      `json:"restaurantId"`
	Pickup       locationResponse `json:"pickup"`
	Dropoff      locationResponse `json:"dropoff"`
	OrderTotal   float64          `json:"orderTotal"`
	DeliveryFee  float64          `json:"deliveryFee"`
}

type createOrderResponse struct {
	OrderID kernel.UUID `json:"orderId"`
}

func (s *Server) createOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	pickup, err := kernel.NewLocation(req.Pickup.Lng, req.Pickup.Lat)
	if err != nil {
		return writeError(ctx, err)
	}
	dropoff, err := kernel.NewLocation(req.Dropoff.Lng, req.Dropoff.Lat)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, req.CustomerID, req.RestaurantID,
		pickup, dropoff,
		req.OrderTotal, req.DeliveryFee,
	)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{OrderID: orderID})
}

type advanceStatusRequest struct {
	Status order.Status    `json:"status"`
	Actor  order.ActorRole `json:"actor"`
	Note   string          `json:"note"`
}

func (s *Server) advanceStatus(ctx echo.Context) error {
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req advanceStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(oID, req.Status, req.Actor, req.Note)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.AdvanceStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelOrderRequest struct {
	Actor order.ActorRole `json:"actor"`
	Note  string          `json:"note"`
}

func (s *Server) cancelOrder(ctx echo.Context) error {
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req cancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewCancelOrderCommand(oID, req.Actor, req.Note)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type amendTipRequest struct {
	Amount float64 `json:"amount"`
}

func (s *Server) amendTip(ctx echo.Context) error {
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req amendTipRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewAmendTipCommand(oID, req.Amount)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.AmendTip.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type rateDeliveryRequest struct {
	Rating int `json:"rating"`
}

func (s *Server) rateDelivery(ctx echo.Context) error {
	oID, err := pathUUID(ctx, "id")
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req rateDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewRateDeliveryCommand(oID, req.Rating)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.handlers.RateDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func toLocationResponse(location kernel.Location) locationResponse {
	return locationResponse{Lng: location.Longitude(), Lat: location.Latitude()}
}

// toOrderResponse serializes an order aggregate the same way getOrder renders
// its read model, so a claim, pickup or deliver response matches a follow-up
// read.
func toOrderResponse(o *order.Order) orderDetailResponse {
	return orderDetailResponse{
		ID:             o.ID(),
		CustomerID:     o.CustomerID(),
		RestaurantID:   o.RestaurantID(),
		Pickup:         toLocationResponse(o.PickupLocation()),
		Dropoff:        toLocationResponse(o.DropoffLocation()),
		Status:         o.Status(),
		DeliveryStatus: o.DeliveryStatus(),
		OrderTotal:     o.OrderTotal(),
		DeliveryFee:    o.DeliveryFee(),
		GrandTotal:     o.GrandTotal(),
		Earnings:       o.Earnings(),
		Timeline:       o.Timeline(),
		PickedUpAt:     o.PickedUpAt(),
		DeliveredAt:    o.DeliveredAt(),
		CreatedAt:      o.CreatedAt(),
	}
}

func floatQueryParam(ctx echo.Context, name string) (float64, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func intQueryParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}
