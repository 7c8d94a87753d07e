package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services and use case handlers.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	calculator services.EarningsCalculator
	publisher  ports.EventPublisher
}

// NewCompositionRoot builds the object graph. The publisher may be the no-op
// implementation when no broker is configured.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
) (CompositionRoot, error) {
	calculator, err := services.NewEarningsCalculator(config.EarningsFallbackLegMeters)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		calculator: calculator,
		publisher:  publisher,
	}, nil
}

func (c *CompositionRoot) newUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) newOrderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) newAgentUoWFactory() commands.AgentUoWFactory {
	return FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.newOrderUoWFactory())
}

func (c *CompositionRoot) CreateRegisterAgentCommandHandler() commands.RegisterAgentCommandHandler {
	return commands.NewRegisterAgentCommandHandler(c.newAgentUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.newUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.newOrderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.newUoWFactory(), c.calculator, c.publisher)
}

func (c *CompositionRoot) CreateAdvanceOrderStatusCommandHandler() commands.AdvanceOrderStatusCommandHandler {
	return commands.NewAdvanceOrderStatusCommandHandler(c.newOrderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.newUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAmendTipCommandHandler() commands.AmendTipCommandHandler {
	return commands.NewAmendTipCommandHandler(c.newUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.newUoWFactory())
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(c.newAgentUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateSetAvailabilityCommandHandler() commands.SetAvailabilityCommandHandler {
	return commands.NewSetAvailabilityCommandHandler(c.newUoWFactory())
}

func (c *CompositionRoot) CreateRolloverEarningsCommandHandler() commands.RolloverEarningsCommandHandler {
	return commands.NewRolloverEarningsCommandHandler(c.newAgentUoWFactory())
}

func (c *CompositionRoot) CreateSweepStaleAgentsCommandHandler() commands.SweepStaleAgentsCommandHandler {
	return commands.NewSweepStaleAgentsCommandHandler(c.newAgentUoWFactory())
}

func (c *CompositionRoot) CreateFindAvailableOrdersQueryHandler() queries.FindAvailableOrdersQueryHandler {
	return queries.NewFindAvailableOrdersQueryHandler(c.gormDB, c.calculator)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAgentOrdersQueryHandler() queries.ListAgentOrdersQueryHandler {
	return queries.NewListAgentOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentStatsQueryHandler() queries.GetAgentStatsQueryHandler {
	return queries.NewGetAgentStatsQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the HTTP facade over all use case handlers.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		RegisterAgent:   c.CreateRegisterAgentCommandHandler(),
		ClaimOrder:      c.CreateClaimOrderCommandHandler(),
		ConfirmPickup:   c.CreateConfirmPickupCommandHandler(),
		ConfirmDelivery: c.CreateConfirmDeliveryCommandHandler(),
		AdvanceStatus:   c.CreateAdvanceOrderStatusCommandHandler(),
		CancelOrder:     c.CreateCancelOrderCommandHandler(),
		AmendTip:        c.CreateAmendTipCommandHandler(),
		RateDelivery:    c.CreateRateDeliveryCommandHandler(),
		ReportLocation:  c.CreateReportLocationCommandHandler(),
		SetAvailability: c.CreateSetAvailabilityCommandHandler(),

		FindAvailableOrders: c.CreateFindAvailableOrdersQueryHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		ListAgentOrders:     c.CreateListAgentOrdersQueryHandler(),
		GetAgentStats:       c.CreateGetAgentStatsQueryHandler(),
	})
}

// CreateJobManager assembles the scheduled jobs.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRolloverEarningsCommandHandler(),
		c.CreateSweepStaleAgentsCommandHandler(),
		c.config.StaleAgentThreshold,
		logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
