package outboxrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"market/internal/adapters/out/postgres/outboxrepo"
	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/notification"
	"market/internal/core/domain/model/order"
	"market/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (mockAggregateTracker) TrackAggregate(kernel.UUID, any) {}

var queuedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type NotificationOutboxIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	outbox    *outboxrepo.GormNotificationOutbox
}

func (suite *NotificationOutboxIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&outboxrepo.NotificationDTO{}))
}

func (suite *NotificationOutboxIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE notifications").Error)
	suite.outbox = outboxrepo.NewGormNotificationOutbox(suite.db, mockAggregateTracker{})
}

func (suite *NotificationOutboxIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *NotificationOutboxIntegrationTestSuite) TestListPending_OldestFirstWithLimit() {
	ctx := suite.T().Context()

	orderID := kernel.NewUUID()
	third := suite.newNotification(orderID, "seller-1", queuedAt.Add(2*time.Minute))
	first := suite.newNotification(orderID, "manager-1", queuedAt)
	second := suite.newNotification(orderID, "manager-2", queuedAt.Add(time.Minute))
	suite.Require().NoError(suite.outbox.Enqueue(ctx, third, first, second))

	pending, err := suite.outbox.ListPending(ctx, 2)

	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	suite.Equal(first.ID(), pending[0].ID())
	suite.Equal(second.ID(), pending[1].ID())
	suite.Equal(order.Confirmed, pending[0].OrderStatus())
	suite.Equal("Order confirmed", pending[0].Title())
	suite.Equal(notification.Pending, pending[0].Status())
}

func (suite *NotificationOutboxIntegrationTestSuite) TestUpdate_SentNotificationLeavesTheQueue() {
	ctx := suite.T().Context()

	orderID := kernel.NewUUID()
	sent := suite.newNotification(orderID, "manager-1", queuedAt)
	retried := suite.newNotification(orderID, "manager-2", queuedAt.Add(time.Minute))
	suite.Require().NoError(suite.outbox.Enqueue(ctx, sent, retried))

	sent.MarkSent(queuedAt.Add(time.Hour))
	retried.MarkFailed(errors.New("connection refused"))
	suite.Require().NoError(suite.outbox.Update(ctx, sent))
	suite.Require().NoError(suite.outbox.Update(ctx, retried))

	pending, err := suite.outbox.ListPending(ctx, 10)

	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(retried.ID(), pending[0].ID())
	suite.Equal(1, pending[0].Attempts())
	suite.Equal("connection refused", pending[0].FailureReason())
}

func (suite *NotificationOutboxIntegrationTestSuite) TestUpdate_GivenUpNotificationLeavesTheQueue() {
	ctx := suite.T().Context()

	n := suite.newNotification(kernel.NewUUID(), "manager-1", queuedAt)
	suite.Require().NoError(suite.outbox.Enqueue(ctx, n))

	for range notification.MaxAttempts {
		n.MarkFailed(errors.New("timeout"))
	}
	suite.Require().NoError(suite.outbox.Update(ctx, n))

	pending, err := suite.outbox.ListPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(pending)

	var stored outboxrepo.NotificationDTO
	suite.Require().NoError(suite.db.First(&stored, "id = ?", n.ID().Bytes()).Error)
	suite.Equal("failed", stored.Status)
	suite.Equal(notification.MaxAttempts, stored.Attempts)
}

func (suite *NotificationOutboxIntegrationTestSuite) TestUpdate_UnknownNotification_ReturnsNotFound() {
	n := suite.newNotification(kernel.NewUUID(), "manager-1", queuedAt)

	err := suite.outbox.Update(suite.T().Context(), n)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *NotificationOutboxIntegrationTestSuite) TestListPending_RejectsNonPositiveLimit() {
	_, err := suite.outbox.ListPending(suite.T().Context(), 0)

	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *NotificationOutboxIntegrationTestSuite) newNotification(
	orderID kernel.UUID,
	recipient kernel.UserID,
	at time.Time,
) *notification.Notification {
	n, err := notification.NewNotification(
		kernel.NewUUID(), orderID, recipient, order.Confirmed, "Order confirmed", "Lenina 1", at)
	suite.Require().NoError(err)
	return n
}

func TestNotificationOutboxIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationOutboxIntegrationTestSuite))
}
