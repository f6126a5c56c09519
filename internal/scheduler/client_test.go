package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "followups" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestScheduleFollowUpReminderEnqueues(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()}, 30*time.Minute)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	taskID := uuid.New()
	runAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)

	if err := client.ScheduleFollowUpReminder(context.Background(), taskID, runAt); err != nil {
		t.Fatalf("ScheduleFollowUpReminder: %v", err)
	}
	// Same task and due instant re-enqueued by the sweep: must not duplicate.
	if err := client.ScheduleFollowUpReminder(context.Background(), taskID, runAt); err != nil {
		t.Fatalf("ScheduleFollowUpReminder (repeat): %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	scheduled, err := inspector.ListScheduledTasks("followups")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(scheduled) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(scheduled))
	}

	info := scheduled[0]
	if info.Type != TaskFollowUpReminderDue {
		t.Fatalf("unexpected task type %q", info.Type)
	}

	payload, err := ParseFollowUpReminderPayload(asynq.NewTask(info.Type, info.Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.TaskID != taskID.String() {
		t.Fatalf("payload task id = %q, want %q", payload.TaskID, taskID)
	}
	if payload.DueAt == nil || !payload.DueAt.Equal(runAt) {
		t.Fatalf("payload due at = %v, want %v", payload.DueAt, runAt)
	}

	// The reminder fires ahead of the due instant by the lead time.
	wantFire := runAt.Add(-30 * time.Minute)
	if diff := info.NextProcessAt.Sub(wantFire); diff < -time.Second || diff > time.Second {
		t.Fatalf("next process at = %v, want ~%v", info.NextProcessAt, wantFire)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}, 0); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}
