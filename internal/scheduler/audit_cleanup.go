// Package scheduler drives recurring maintenance jobs from cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/openshelf/lendhub/internal/config"
	"github.com/openshelf/lendhub/internal/tasks"
)

// TaskEnqueuer enqueues background tasks. Satisfied by *tasks.Client.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// AuditCleanupScheduler periodically enqueues audit retention cleanup so the
// audit table stays bounded without manual intervention.
type AuditCleanupScheduler struct {
	queue TaskEnqueuer
	cfg   config.Audit

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a new scheduler instance.
func NewAuditCleanupScheduler(queue TaskEnqueuer, cfg config.Audit) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		queue: queue,
		cfg:   cfg,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. A missing schedule disables it.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.CleanupSchedule == "" {
		log.Printf("Audit cleanup scheduler: disabled (no schedule configured)")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.CleanupSchedule, func() {
		s.enqueueCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.CleanupSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s' (retention %d days)",
		s.cfg.CleanupSchedule, s.cfg.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Audit cleanup scheduler: stopped")
}

// RunNow enqueues a cleanup immediately, outside the schedule.
func (s *AuditCleanupScheduler) RunNow() {
	s.enqueueCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will be enqueued.
func (s *AuditCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AuditCleanupScheduler) enqueueCleanup() {
	_, err := s.queue.Add(tasks.CleanupAuditEventsTask{
		RetentionDays: s.cfg.RetentionDays,
	}).Save()
	if err != nil {
		log.Printf("Audit cleanup scheduler: failed to enqueue cleanup: %v", err)
		return
	}

	log.Printf("Audit cleanup scheduler: cleanup task enqueued")
}
