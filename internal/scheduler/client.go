// Package scheduler enqueues and processes follow-up reminders through
// an asynq/Redis work queue.
package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"crm_followup_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues reminder tasks. It implements ports.ReminderScheduler.
type Client struct {
	client   *asynq.Client
	queue    string
	leadTime time.Duration
}

func NewClient(cfg config.SchedulerConfig, leadTime time.Duration) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queue,
		leadTime: leadTime,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleFollowUpReminder enqueues a reminder that fires when the task
// becomes due, minus the configured lead time. The due instant is pinned
// in the payload so the worker can drop reminders for rescheduled tasks.
// The queue task ID is derived from (task, due), so re-enqueueing the
// same reminder is a no-op.
func (c *Client) ScheduleFollowUpReminder(ctx context.Context, taskID uuid.UUID, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	due := runAt
	task, err := NewFollowUpReminderTask(FollowUpReminderPayload{
		TaskID: taskID.String(),
		DueAt:  &due,
	})
	if err != nil {
		return err
	}

	fireAt := runAt.Add(-c.leadTime)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(fireAt),
		asynq.Queue(c.queue),
		asynq.TaskID(fmt.Sprintf("followup-reminder:%s:%d", taskID, runAt.Unix())),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		tlsConfig = opt.TLSConfig.Clone()
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
