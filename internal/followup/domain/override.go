package domain

import (
	"time"

	"github.com/google/uuid"
)

// OverrideStatus is the lifecycle status of a template override.
type OverrideStatus string

const (
	// OverrideActive overrides are resolver candidates.
	OverrideActive OverrideStatus = "active"
	// OverrideArchived overrides are kept for history but never resolved.
	OverrideArchived OverrideStatus = "archived"
)

// TemplateOverride is a workspace-chosen replacement template for a
// (step, vertical) pair. At most one active override may exist per pair;
// the store enforces this with a partial unique index and the resolver
// tolerates violations with most-recent-wins.
type TemplateOverride struct {
	ID         uuid.UUID
	StepKey    string
	Vertical   Vertical
	TemplateID uuid.UUID
	// Message is the resolved template text, denormalized for fast lookup.
	Message   string
	Status    OverrideStatus
	CreatedAt time.Time
}
