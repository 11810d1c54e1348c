// Package jobs runs the market's background work on github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. NotificationDispatchJob drains the notification outbox, by default every 5 seconds.
//  2. PricingReconcileJob advances delivery batches left staged by an interrupted
//     pricing, by default every minute.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(dispatcher, reconciler, jobs.Schedules{
//		NotificationDispatch: "*/5 * * * * *",
//		PricingReconcile:     "0 * * * * *",
//	}, 100, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// A run that is still going when the next tick fires is skipped. Job errors are logged
// and never stop the schedule.
package jobs
