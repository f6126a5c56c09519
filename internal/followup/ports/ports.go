// Package ports declares the interfaces the followup module consumes
// from other modules. Implementations live with their owners and are
// wired in the composition root.
package ports

import (
	"context"
	"time"

	"crm_followup_backend/internal/followup/domain"

	"github.com/google/uuid"
)

// LeadReader exposes the lead store to the engine, read-only.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// ReminderScheduler enqueues a due-task reminder for background delivery.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, taskID uuid.UUID, runAt time.Time) error
}

// LinkBuilder constructs an outbound deep link for a phone and message.
type LinkBuilder interface {
	Link(rawPhone, message string) (string, bool)
}
