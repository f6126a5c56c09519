package transport

import "github.com/google/uuid"

// TaskResponse represents a follow-up task in API responses.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	TemplateKey string    `json:"templateKey"`
	Phase       string    `json:"phase"`
	DueAt       *string   `json:"dueAt,omitempty"`
	Status      string    `json:"status"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

// TriageResponse is the day view: open tasks partitioned by urgency.
type TriageResponse struct {
	Overdue  []TaskResponse `json:"overdue"`
	Today    []TaskResponse `json:"today"`
	Upcoming []TaskResponse `json:"upcoming"`
}

// StartSequenceResponse is returned when a follow-up sequence begins.
type StartSequenceResponse struct {
	TaskID  uuid.UUID `json:"taskId"`
	StepKey string    `json:"stepKey"`
	DueAt   string    `json:"dueAt"`
}

// MessageResponse carries the composed text and, when the lead's phone
// is usable, the WhatsApp deep link for it.
type MessageResponse struct {
	TaskID       uuid.UUID `json:"taskId"`
	Message      string    `json:"message"`
	WhatsAppLink *string   `json:"whatsappLink,omitempty"`
}

// SetOverrideRequest installs a workspace template override for a step.
// Vertical is optional; empty or "generic" targets the default vertical.
type SetOverrideRequest struct {
	TemplateID uuid.UUID `json:"templateId" validate:"required"`
	Message    string    `json:"message" validate:"required,min=1,max=2000"`
	Vertical   string    `json:"vertical,omitempty" validate:"omitempty,max=50"`
}

// OverrideResponse represents a template override in API responses.
type OverrideResponse struct {
	ID         uuid.UUID `json:"id"`
	StepKey    string    `json:"stepKey"`
	Vertical   string    `json:"vertical"`
	TemplateID uuid.UUID `json:"templateId"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  string    `json:"createdAt"`
}

// OverrideListResponse wraps a list of overrides.
type OverrideListResponse struct {
	Items []OverrideResponse `json:"items"`
	Total int                `json:"total"`
}

// StepResponse represents a catalog step in API responses.
type StepResponse struct {
	Key        string `json:"key"`
	Phase      string `json:"phase"`
	OffsetDays int    `json:"offsetDays"`
}

// StepListResponse wraps the catalog sequence.
type StepListResponse struct {
	Items []StepResponse `json:"items"`
}
