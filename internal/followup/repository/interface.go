package repository

import (
	"context"
	"time"

	"crm_followup_backend/internal/followup/domain"

	"github.com/google/uuid"
)

// InsertTaskParams contains parameters for creating a follow-up task.
type InsertTaskParams struct {
	LeadID      uuid.UUID
	TemplateKey string
	DueAt       *time.Time
	Note        *string
}

// TaskReader provides read operations for follow-up tasks.
type TaskReader interface {
	GetTask(ctx context.Context, id uuid.UUID) (domain.Task, error)
	ListOpenTasks(ctx context.Context) ([]domain.Task, error)
	ListOpenTasksForLead(ctx context.Context, leadID uuid.UUID) ([]domain.Task, error)
	HasOpenTaskForStep(ctx context.Context, leadID uuid.UUID, templateKey string) (bool, error)
}

// TaskWriter provides write operations for follow-up tasks.
type TaskWriter interface {
	InsertTask(ctx context.Context, params InsertTaskParams) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus, dueAt *time.Time) (domain.Task, error)
}

// SetOverrideParams contains parameters for installing a template override.
type SetOverrideParams struct {
	StepKey    string
	Vertical   domain.Vertical
	TemplateID uuid.UUID
	Message    string
}

// OverrideReader provides read operations for template overrides.
type OverrideReader interface {
	ListActiveOverrides(ctx context.Context) ([]domain.TemplateOverride, error)
	// ActiveOverridesFor returns active overrides for the exact
	// (stepKey, vertical) pair, most recent first.
	ActiveOverridesFor(ctx context.Context, stepKey string, vertical domain.Vertical) ([]domain.TemplateOverride, error)
}

// OverrideWriter provides write operations for template overrides.
type OverrideWriter interface {
	SetOverride(ctx context.Context, params SetOverrideParams) (domain.TemplateOverride, error)
	ClearOverride(ctx context.Context, stepKey string, vertical domain.Vertical) error
}

// Repository combines all follow-up repository operations.
type Repository interface {
	TaskReader
	TaskWriter
	OverrideReader
	OverrideWriter
}
