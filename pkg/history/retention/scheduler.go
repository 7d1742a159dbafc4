package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"netcentric/achistory/pkg/repository"
	"netcentric/achistory/pkg/telemetry/metrics"
)

// ErrRunInProgress is returned by RunOnce while another run is active.
var ErrRunInProgress = errors.New("pruning run already in progress")

// SessionFactory opens a repository session for one scheduled run. The
// scheduler closes the session when the run is done.
type SessionFactory func(ctx context.Context) (repository.Session, error)

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// Schedule is a standard five-field cron expression.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the scheduler.
	Schedule string

	// Open provides the session for each run.
	Open SessionFactory

	// Keep returns the retention count. It is called on every run so that
	// a reloaded configuration takes effect without a restart.
	Keep func() int

	// Metrics receives one observation per run. Optional.
	Metrics *metrics.Collector
}

// Scheduler runs the pruner on a cron schedule. Entries are pruned after
// every write anyway; the scheduler catches up when the retention count was
// lowered and no installation has run since.
type Scheduler struct {
	pruner  *Pruner
	config  SchedulerConfig
	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex
	runMu   sync.Mutex
	logger  *slog.Logger
	running bool
	lastErr error
}

// NewScheduler creates a new retention scheduler.
func NewScheduler(pruner *Pruner, config SchedulerConfig) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		config: config,
		cron:   cron.New(),
		logger: slog.Default().With("component", "history.scheduler"),
	}
}

// Start begins scheduled pruning. If the schedule is empty, the scheduler
// does nothing. The scheduler stops when ctx is cancelled.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}
	if s.config.Open == nil || s.config.Keep == nil {
		return errors.New("scheduler needs a session factory and a retention count")
	}

	if err := s.schedule(ctx, s.config.Schedule); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.config.Schedule,
		"keep", s.config.Keep(),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Reschedule replaces the cron expression of a running scheduler. An empty
// schedule removes the job but keeps the scheduler alive for a later
// Reschedule.
func (s *Scheduler) Reschedule(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == s.config.Schedule {
		return nil
	}
	if !s.running {
		return errors.New("scheduler is not running")
	}

	if schedule == "" {
		s.cron.Remove(s.entryID)
		s.entryID = 0
		s.config.Schedule = ""
		s.logger.Info("prune schedule removed")
		return nil
	}

	previous := s.entryID
	if err := s.schedule(ctx, schedule); err != nil {
		return err
	}
	if previous != 0 {
		s.cron.Remove(previous)
	}
	s.config.Schedule = schedule

	s.logger.Info("prune schedule changed", "schedule", schedule)
	return nil
}

func (s *Scheduler) schedule(ctx context.Context, schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}
	s.entryID = id
	return nil
}

// RunOnce executes one pruning cycle with a fresh session. Runs do not
// overlap: a call made while another run is active returns
// ErrRunInProgress without touching the repository or LastError.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.runMu.TryLock() {
		s.logger.WarnContext(ctx, "skipping pruning run, previous run still active")
		return ErrRunInProgress
	}
	defer s.runMu.Unlock()

	start := time.Now()
	err := s.run(ctx)

	s.config.Metrics.RecordScheduledRun(err, time.Since(start))

	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	return err
}

func (s *Scheduler) run(ctx context.Context) error {
	keep := s.config.Keep()
	s.logger.InfoContext(ctx, "starting scheduled history pruning", "keep", keep)

	session, err := s.config.Open(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to open repository session", "error", err)
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "failed to close repository session", "error", cerr)
		}
	}()

	deleted, err := s.pruner.Prune(ctx, session, keep)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled pruning failed",
			"deleted_count", deleted,
			"error", err,
		)
		return err
	}

	if deleted > 0 {
		s.logger.InfoContext(ctx, "scheduled pruning completed", "deleted_count", deleted)
	} else {
		s.logger.DebugContext(ctx, "scheduled pruning completed, no entries deleted")
	}
	return nil
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	// a running job takes s.mu to store its result
	<-s.cron.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// LastError returns the error of the most recent run, nil after a
// successful run or before the first one.
func (s *Scheduler) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

// NextRun returns the next scheduled pruning time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID == 0 {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}
