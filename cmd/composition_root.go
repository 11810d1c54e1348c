package cmd

import (
	"log/slog"

	httpin "market/internal/adapters/in/http"
	"market/internal/adapters/out/notify"
	"market/internal/adapters/out/postgres"
	"market/internal/adapters/out/postgres/catalogrepo"
	"market/internal/adapters/out/postgres/directoryrepo"
	"market/internal/core/application/usecases/commands"
	"market/internal/core/application/usecases/queries"
	"market/internal/core/domain/services"
	"market/internal/core/ports"
	"market/internal/jobs"
	"market/internal/pkg/clock"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      clock.Clock
	logger     *slog.Logger

	catalog   ports.ProductCatalog
	directory ports.UserDirectory
	sender    ports.NotificationSender
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	var sender ports.NotificationSender
	if cfg.Notification.WebhookURL != "" {
		webhook, err := notify.NewWebhookSender(notify.WebhookConfig{
			URL:     cfg.Notification.WebhookURL,
			Timeout: cfg.Notification.WebhookTimeout,
			Retries: cfg.Notification.WebhookRetries,
		}, nil)
		if err != nil {
			return nil, errors.Wrap(err, "create webhook sender")
		}
		sender = webhook
	} else {
		sender = notify.NewLogSender(logger)
	}

	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      clock.NewSystem(),
		logger:     logger,
		catalog:    catalogrepo.NewGormProductCatalog(gormDB),
		directory:  directoryrepo.NewGormUserDirectory(gormDB),
		sender:     sender,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

// orderReader reads outside of any transaction.
func (c *CompositionRoot) orderReader() queries.OrderReader {
	return c.uowFactory.Create().OrderRepository()
}

func (c *CompositionRoot) CreateStatusNotifier() *commands.OutboxNotifier {
	return commands.NewOutboxNotifier(c.outboxUoWFactory(), c.directory, c.catalog, c.clock, c.logger)
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.CreateStatusNotifier())
}

func (c *CompositionRoot) CreateEditOrderCommandHandler() commands.EditOrderCommandHandler {
	return commands.NewEditOrderCommandHandler(c.orderUoWFactory(), c.CreateStatusNotifier(), c.clock)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(
		c.orderUoWFactory(), services.NewPaymentLedger(c.catalog, c.clock), c.CreateStatusNotifier())
}

func (c *CompositionRoot) CreatePriceDeliveryBatchCommandHandler() commands.PriceDeliveryBatchCommandHandler {
	return commands.NewPriceDeliveryBatchCommandHandler(
		c.orderUoWFactory(), services.NewDeliveryBatcher(c.catalog), c.CreateStatusNotifier())
}

func (c *CompositionRoot) CreateDispatchBatchCommandHandler() commands.DispatchBatchCommandHandler {
	return commands.NewDispatchBatchCommandHandler(c.orderUoWFactory(), c.CreateStatusNotifier())
}

func (c *CompositionRoot) CreateDispatchNotificationsCommandHandler() commands.DispatchNotificationsCommandHandler {
	return commands.NewDispatchNotificationsCommandHandler(
		c.outboxUoWFactory(), c.sender, c.clock, c.cfg.Notification.Workers, c.logger)
}

func (c *CompositionRoot) CreateReconcilePricingCommandHandler() commands.ReconcilePricingCommandHandler {
	return commands.NewReconcilePricingCommandHandler(c.orderUoWFactory(), c.CreateStatusNotifier(), c.logger)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryBatchesQueryHandler() queries.GetDeliveryBatchesQueryHandler {
	return queries.NewGetDeliveryBatchesQueryHandler(c.orderReader(), services.NewDeliveryBatcher(c.catalog))
}

func (c *CompositionRoot) CreateGetPaymentSummaryQueryHandler() queries.GetPaymentSummaryQueryHandler {
	return queries.NewGetPaymentSummaryQueryHandler(c.orderReader(), services.NewPaymentLedger(c.catalog, c.clock))
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		PlaceOrder:         c.CreatePlaceOrderCommandHandler(),
		ChangeOrderStatus:  c.CreateChangeOrderStatusCommandHandler(),
		EditOrder:          c.CreateEditOrderCommandHandler(),
		RecordPayment:      c.CreateRecordPaymentCommandHandler(),
		PriceDeliveryBatch: c.CreatePriceDeliveryBatchCommandHandler(),
		DispatchBatch:      c.CreateDispatchBatchCommandHandler(),
		GetOrders:          c.CreateGetOrdersQueryHandler(),
		GetDeliveryBatches: c.CreateGetDeliveryBatchesQueryHandler(),
		GetPaymentSummary:  c.CreateGetPaymentSummaryQueryHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchNotificationsCommandHandler(),
		c.CreateReconcilePricingCommandHandler(),
		jobs.Schedules{
			NotificationDispatch: c.cfg.Jobs.NotificationDispatch,
			PricingReconcile:     c.cfg.Jobs.PricingReconcile,
		},
		c.cfg.Notification.BatchSize,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
