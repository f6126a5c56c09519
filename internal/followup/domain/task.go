package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle status of a follow-up task.
type TaskStatus string

const (
	// TaskActive is the initial status; the task appears in triage.
	TaskActive TaskStatus = "active"
	// TaskDone is terminal; no further scheduling occurs.
	TaskDone TaskStatus = "done"
	// TaskSkipped marks a skip in the task history. A skipped task stays
	// in the active pool with its due date advanced to the next day.
	TaskSkipped TaskStatus = "skipped"
)

// Task is a single follow-up action for a lead. TemplateKey references a
// catalog step definition; DueAt nil means "no due date" and always
// triages to the lowest-urgency bucket.
type Task struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	TemplateKey string
	DueAt       *time.Time
	Status      TaskStatus
	Note        *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOpen reports whether the task is still in the active pool. Skipped
// tasks remain open; only done is terminal.
func (t Task) IsOpen() bool {
	return t.Status != TaskDone
}
