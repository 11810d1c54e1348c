package jobs

import (
	"context"
	"log/slog"

	"market/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationDispatcher is satisfied by commands.DispatchNotificationsCommandHandler.
type NotificationDispatcher interface {
	Handle(ctx context.Context, cmd commands.DispatchNotificationsCommand) (commands.DispatchReport, error)
}

// NotificationDispatchJob drains the notification outbox on a schedule.
type NotificationDispatchJob struct {
	handler   NotificationDispatcher
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewNotificationDispatchJob takes a six-field cron spec, e.g. "*/5 * * * * *".
func NewNotificationDispatchJob(
	handler NotificationDispatcher,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *NotificationDispatchJob {
	return &NotificationDispatchJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "notification_dispatch_job"),
	}
}

func (j *NotificationDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Notification dispatch job started", "schedule", j.schedule)
	return nil
}

// RunOnce sends one batch. Failures are logged; the next run retries.
func (j *NotificationDispatchJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewDispatchNotificationsCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid notification batch size", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification dispatch failed", "error", err)
		return
	}
	if report.GaveUp > 0 {
		j.logger.WarnContext(ctx, "Notifications given up", "count", report.GaveUp)
	}
}

// Stop waits for a running dispatch to finish.
func (j *NotificationDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Notification dispatch job stopped")
}
