package jobs

import (
	"fmt"
	"log/slog"
)

// Schedules are six-field cron specs.
type Schedules struct {
	NotificationDispatch string
	PricingReconcile     string
}

// JobManager starts and stops every background job together.
type JobManager struct {
	notificationDispatchJob *NotificationDispatchJob
	pricingReconcileJob     *PricingReconcileJob
}

func NewJobManager(
	dispatcher NotificationDispatcher,
	reconciler PricingReconciler,
	schedules Schedules,
	notificationBatchSize int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		notificationDispatchJob: NewNotificationDispatchJob(
			dispatcher, schedules.NotificationDispatch, notificationBatchSize, logger),
		pricingReconcileJob: NewPricingReconcileJob(reconciler, schedules.PricingReconcile, logger),
	}
}

// StartAll starts every job. If one fails the ones already started are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification dispatch job: %w", err)
	}

	if err := jm.pricingReconcileJob.Start(); err != nil {
		jm.notificationDispatchJob.Stop()
		return fmt.Errorf("failed to start pricing reconcile job: %w", err)
	}

	return nil
}

func (jm *JobManager) StopAll() {
	jm.pricingReconcileJob.Stop()
	jm.notificationDispatchJob.Stop()
}
