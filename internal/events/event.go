// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"crm_followup_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Follow-up Domain Events
// =============================================================================

// SequenceStarted is published when the follow-up sequence begins for a lead.
type SequenceStarted struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	TaskID  uuid.UUID `json:"taskId"`
	StepKey string    `json:"stepKey"`
	DueAt   time.Time `json:"dueAt"`
}

func (e SequenceStarted) EventName() string { return "followup.sequence.started" }

// FollowUpCompleted is published when a follow-up task is marked done.
// The followup module advances the lead to the next catalog step on it.
type FollowUpCompleted struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	TaskID  uuid.UUID `json:"taskId"`
	StepKey string    `json:"stepKey"`
}

func (e FollowUpCompleted) EventName() string { return "followup.task.completed" }

// FollowUpSkipped is published when a follow-up task is skipped and
// rescheduled for the next day.
type FollowUpSkipped struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TaskID   uuid.UUID `json:"taskId"`
	StepKey  string    `json:"stepKey"`
	NewDueAt time.Time `json:"newDueAt"`
}

func (e FollowUpSkipped) EventName() string { return "followup.task.skipped" }

// TemplateOverrideConflict is published when more than one active
// override exists for a (step, vertical) pair. Resolution is
// most-recent-wins; the event is the operator-facing signal that the
// store's uniqueness guarantee was violated.
type TemplateOverrideConflict struct {
	BaseEvent
	StepKey  string      `json:"stepKey"`
	Vertical string      `json:"vertical"`
	Winner   uuid.UUID   `json:"winner"`
	Losers   []uuid.UUID `json:"losers"`
}

func (e TemplateOverrideConflict) EventName() string { return "followup.override.conflict" }
