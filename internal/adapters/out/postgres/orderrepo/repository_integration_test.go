package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using a PostgreSQL container, including the conditional
// update that arbitrates the claim race.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.newPendingOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_UnconstructedOrder_Fails() {
	ctx := context.Background()

	err := suite.repository.Add(ctx, &order.Order{})
	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)

	suite.assertOrderCount(0)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsAggregate() {
	ctx := context.Background()
	original := suite.newReadyOrder()
	suite.addOrder(ctx, original)

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.CustomerID(), retrieved.CustomerID())
	suite.Equal(original.RestaurantID(), retrieved.RestaurantID())
	suite.Equal(order.StatusReadyForPickup, retrieved.Status())
	suite.Nil(retrieved.Agent())
	suite.Nil(retrieved.ClaimLocation())
	suite.InDelta(original.PickupLocation().Longitude(), retrieved.PickupLocation().Longitude(), 1e-9)
	suite.InDelta(original.DropoffLocation().Latitude(), retrieved.DropoffLocation().Latitude(), 1e-9)
	suite.InDelta(original.GrandTotal(), retrieved.GrandTotal(), 1e-9)
	suite.Len(retrieved.Timeline(), 4)
	suite.WithinDuration(original.CreatedAt(), retrieved.CreatedAt(), time.Second)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransition() {
	ctx := context.Background()
	testOrder := suite.newPendingOrder()
	suite.addOrder(ctx, testOrder)

	now := time.Now().UTC()
	suite.Require().NoError(testOrder.AdvanceTo(order.StatusConfirmed, order.RoleRestaurant, "accepted", now))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, retrieved.Status())

	timeline := retrieved.Timeline()
	suite.Require().Len(timeline, 2)
	suite.Equal("accepted", timeline[1].Note)
	suite.Equal(order.RoleRestaurant, timeline[1].Actor)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()
	testOrder := suite.newPendingOrder()

	err := suite.repository.Update(ctx, testOrder)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_WinnerPersistsAssignment() {
	ctx := context.Background()
	readyOrder := suite.newReadyOrder()
	suite.addOrder(ctx, readyOrder)

	agentID := kernel.NewUUID()
	agentLoc, err := kernel.NewLocation(77.59, 12.91)
	suite.Require().NoError(err)

	claimant, err := suite.repository.Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(claimant.Assign(agentID, &agentLoc, time.Now().UTC()))

	suite.tracker.On("TrackAggregate", claimant.ID(), claimant).Once()
	won, err := suite.repository.Claim(ctx, claimant)
	suite.Require().NoError(err)
	suite.True(won)

	retrieved, err := suite.repository.Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusAssigned, retrieved.Status())
	suite.True(retrieved.OwnedBy(agentID))
	suite.Require().NotNil(retrieved.ClaimLocation())
	suite.InDelta(77.59, retrieved.ClaimLocation().Longitude(), 1e-9)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_LoserLeavesRowUntouched() {
	ctx := context.Background()
	readyOrder := suite.newReadyOrder()
	suite.addOrder(ctx, readyOrder)

	// Both claimants load the order while it is still unassigned.
	first, err := suite.repository.Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)

	firstAgent := kernel.NewUUID()
	secondAgent := kernel.NewUUID()
	now := time.Now().UTC()
	suite.Require().NoError(first.Assign(firstAgent, nil, now))
	suite.Require().NoError(second.Assign(secondAgent, nil, now))

	suite.tracker.On("TrackAggregate", first.ID(), first).Once()

	won, err := suite.repository.Claim(ctx, first)
	suite.Require().NoError(err)
	suite.True(won)

	won, err = suite.repository.Claim(ctx, second)
	suite.Require().NoError(err)
	suite.False(won)

	retrieved, err := suite.repository.Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrieved.OwnedBy(firstAgent))

	suite.tracker.AssertExpectations(suite.T())
}

// TestClaim_Contention races several claimants for the same order and expects
// exactly one winner.
func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_Contention() {
	ctx := context.Background()
	readyOrder := suite.newReadyOrder()
	suite.addOrder(ctx, readyOrder)

	const claimants = 8
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Maybe()

	copies := make([]*order.Order, claimants)
	agentIDs := make([]kernel.UUID, claimants)
	now := time.Now().UTC()
	for i := range claimants {
		aggregate, err := suite.repository.Get(ctx, readyOrder.ID())
		suite.Require().NoError(err)

		agentIDs[i] = kernel.NewUUID()
		suite.Require().NoError(aggregate.Assign(agentIDs[i], nil, now))
		copies[i] = aggregate
	}

	var wg sync.WaitGroup
	results := make([]bool, claimants)
	errors := make([]error, claimants)

	for i := range claimants {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errors[i] = suite.repository.Claim(ctx, copies[i])
		}()
	}
	wg.Wait()

	winners := 0
	winner := -1
	for i := range claimants {
		suite.Require().NoError(errors[i])
		if results[i] {
			winners++
			winner = i
		}
	}
	suite.Equal(1, winners)

	retrieved, err := suite.repository.Get(ctx, readyOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusAssigned, retrieved.Status())
	suite.True(retrieved.OwnedBy(agentIDs[winner]))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestCountActiveByAgent() {
	ctx := context.Background()
	agentID := kernel.NewUUID()
	now := time.Now().UTC()

	// One active order held by the agent.
	active := suite.newReadyOrder()
	suite.Require().NoError(active.Assign(agentID, nil, now))
	suite.addOrder(ctx, active)

	// One delivered order held by the agent, terminal so it must not count.
	delivered := suite.newReadyOrder()
	suite.Require().NoError(delivered.Assign(agentID, nil, now))
	suite.Require().NoError(delivered.ConfirmPickup(now))
	suite.Require().NoError(delivered.ConfirmDelivery(order.EarningsBreakdown{
		BaseFee: 3.00, DistanceBonus: 2.33, Total: 5.33,
	}, "", now))
	suite.addOrder(ctx, delivered)

	// An active order held by somebody else.
	other := suite.newReadyOrder()
	suite.Require().NoError(other.Assign(kernel.NewUUID(), nil, now))
	suite.addOrder(ctx, other)

	count, err := suite.repository.CountActiveByAgent(ctx, agentID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)

	suite.tracker.AssertExpectations(suite.T())
}

// newPendingOrder creates a freshly placed order with realistic coordinates.
func (suite *OrderRepositoryIntegrationTestSuite) newPendingOrder() *order.Order {
	pickup, err := kernel.NewLocation(77.58, 12.90)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewLocation(77.61, 12.93)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		pickup, dropoff,
		24.50, 3.99,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return testOrder
}

// newReadyOrder walks a pending order to ready_for_pickup.
func (suite *OrderRepositoryIntegrationTestSuite) newReadyOrder() *order.Order {
	testOrder := suite.newPendingOrder()
	now := time.Now().UTC()

	suite.Require().NoError(testOrder.AdvanceTo(order.StatusConfirmed, order.RoleRestaurant, "", now))
	suite.Require().NoError(testOrder.AdvanceTo(order.StatusPreparing, order.RoleRestaurant, "", now))
	suite.Require().NoError(testOrder.AdvanceTo(order.StatusReadyForPickup, order.RoleRestaurant, "", now))
	return testOrder
}

// addOrder persists an order with the matching tracker expectation.
func (suite *OrderRepositoryIntegrationTestSuite) addOrder(ctx context.Context, testOrder *order.Order) {
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
