package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminderDue = "followups.reminder.due"

// FollowUpReminderPayload carries a due-task reminder through the queue.
// DueAt pins the schedule the reminder was enqueued for; when the task
// has been rescheduled since, the stale reminder is dropped.
type FollowUpReminderPayload struct {
	TaskID string     `json:"taskId"`
	DueAt  *time.Time `json:"dueAt,omitempty"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminderDue, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}
