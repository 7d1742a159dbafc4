// Package retention deletes history entries beyond the retention count.
//
// # Pruning
//
// Pruner.Prune ranks the history entries of the container by their
// timestamp property, newest first, keeps the first keep entries and
// removes the rest:
//
//	pruner := retention.NewPruner(&retention.Config{Metrics: collector})
//	deleted, err := pruner.Prune(ctx, session, 5)
//
// The recorder calls Prune after every write, so the container briefly
// holds one entry more than the retention count. Removal is not
// transactional: a failure leaves the entries removed so far removed and
// reports their number in a *history.RetentionError.
//
// # Scheduling
//
// Scheduler runs Prune on a cron schedule with a fresh session per run:
//
//	scheduler := retention.NewScheduler(pruner, retention.SchedulerConfig{
//	    Schedule: "0 3 * * *",
//	    Open:     openSession,
//	    Keep:     func() int { return config.GetConfig().History.NrOfHistoriesToSave },
//	})
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
package retention
