package scheduler

import (
	"context"
	"time"

	"crm_followup_backend/internal/followup/repository"
	"crm_followup_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DueSweeper periodically re-enqueues reminders for open tasks that are
// due soon. It backstops reminders lost to Redis restarts or tasks
// created while no scheduler client was configured; the deterministic
// queue task ID keeps the sweep idempotent.
type DueSweeper struct {
	repo     *repository.Repo
	client   *Client
	interval time.Duration
	horizon  time.Duration
	log      *logger.Logger
}

func NewDueSweeper(pool *pgxpool.Pool, client *Client, interval, horizon time.Duration, log *logger.Logger) *DueSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if horizon <= 0 {
		horizon = 24 * time.Hour
	}

	return &DueSweeper{
		repo:     repository.New(pool),
		client:   client,
		interval: interval,
		horizon:  horizon,
		log:      log,
	}
}

// Run sweeps until the context is cancelled.
func (s *DueSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.sweep(ctx); err != nil {
			s.log.Warn("due-task sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *DueSweeper) sweep(ctx context.Context) error {
	tasks, err := s.repo.ListOpenTasks(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(s.horizon)
	enqueued := 0
	for _, task := range tasks {
		if task.DueAt == nil || task.DueAt.After(cutoff) {
			continue
		}
		if err := s.client.ScheduleFollowUpReminder(ctx, task.ID, *task.DueAt); err != nil {
			s.log.Warn("failed to re-enqueue reminder", "task", task.ID, "error", err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		s.log.Info("due-task sweep complete", "checked", len(tasks), "enqueued", enqueued)
	}
	return nil
}
