package jobs

import (
	"context"
	"log/slog"

	"market/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PricingReconciler is satisfied by commands.ReconcilePricingCommandHandler.
type PricingReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcilePricingCommand) (commands.ReconcileReport, error)
}

// PricingReconcileJob finishes delivery batches whose pricing stopped after the price
// was staged on some orders.
type PricingReconcileJob struct {
	handler  PricingReconciler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPricingReconcileJob(handler PricingReconciler, schedule string, logger *slog.Logger) *PricingReconcileJob {
	return &PricingReconcileJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "pricing_reconcile_job"),
	}
}

func (j *PricingReconcileJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Pricing reconcile job started", "schedule", j.schedule)
	return nil
}

func (j *PricingReconcileJob) RunOnce(ctx context.Context) {
	report, err := j.handler.Handle(ctx, commands.NewReconcilePricingCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Pricing reconciliation failed", "error", err)
		return
	}
	if report.Advanced > 0 || report.Failed > 0 || len(report.Skipped) > 0 {
		j.logger.InfoContext(ctx, "Pricing reconciled",
			"advanced", report.Advanced, "skipped", len(report.Skipped), "failed", report.Failed)
	}
}

func (j *PricingReconcileJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Pricing reconcile job stopped")
}
