// Package service implements the follow-up engine's operations: sequence
// start, task lifecycle, triage queries, message composition and
// override administration.
package service

import (
	"context"
	"time"

	"crm_followup_backend/internal/events"
	"crm_followup_backend/internal/followup/catalog"
	"crm_followup_backend/internal/followup/compose"
	"crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/internal/followup/ports"
	"crm_followup_backend/internal/followup/repository"
	"crm_followup_backend/internal/followup/transport"
	"crm_followup_backend/internal/followup/triage"
	"crm_followup_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides business logic for follow-up sequences.
type Service struct {
	repo      repository.Repository
	catalog   *catalog.Registry
	composer  *compose.Composer
	leads     ports.LeadReader
	links     ports.LinkBuilder
	reminders ports.ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
}

// New creates the follow-up service. links, reminders and bus may be nil
// when the corresponding infrastructure is not configured.
func New(
	repo repository.Repository,
	reg *catalog.Registry,
	composer *compose.Composer,
	leads ports.LeadReader,
	links ports.LinkBuilder,
	reminders ports.ReminderScheduler,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		catalog:   reg,
		composer:  composer,
		leads:     leads,
		links:     links,
		reminders: reminders,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
}

// =============================================================================
// Sequence start
// =============================================================================

// StartSequence creates the first task of the standard sequence for the
// lead, due immediately. Starting twice is rejected with a conflict so
// a double-click never produces duplicate live tasks.
func (s *Service) StartSequence(ctx context.Context, leadID uuid.UUID) (transport.StartSequenceResponse, error) {
	if _, err := s.leads.GetLead(ctx, leadID); err != nil {
		return transport.StartSequenceResponse{}, err
	}

	first := s.catalog.First()

	exists, err := s.repo.HasOpenTaskForStep(ctx, leadID, first.Key)
	if err != nil {
		return transport.StartSequenceResponse{}, err
	}
	if exists {
		return transport.StartSequenceResponse{}, domain.AlreadyActive(leadID)
	}

	dueAt := s.now()
	task, err := s.repo.InsertTask(ctx, repository.InsertTaskParams{
		LeadID:      leadID,
		TemplateKey: first.Key,
		DueAt:       &dueAt,
	})
	if err != nil {
		return transport.StartSequenceResponse{}, err
	}

	s.log.Info("follow-up sequence started", "lead", leadID, "task", task.ID, "step", first.Key)
	s.publish(ctx, events.SequenceStarted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		TaskID:    task.ID,
		StepKey:   first.Key,
		DueAt:     dueAt,
	})
	s.scheduleReminder(ctx, task.ID, dueAt)

	return transport.StartSequenceResponse{
		TaskID:  task.ID,
		StepKey: first.Key,
		DueAt:   dueAt.Format(time.RFC3339),
	}, nil
}

// =============================================================================
// Task lifecycle
// =============================================================================

// MarkDone moves the task to its terminal state. No further scheduling
// happens here; sequence advancement runs on the FollowUpCompleted event.
func (s *Service) MarkDone(ctx context.Context, taskID uuid.UUID) (transport.TaskResponse, error) {
	task, err := s.repo.UpdateTaskStatus(ctx, taskID, domain.TaskDone, nil)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("follow-up task done", "task", task.ID, "lead", task.LeadID, "step", task.TemplateKey)
	s.publish(ctx, events.FollowUpCompleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    task.LeadID,
		TaskID:    task.ID,
		StepKey:   task.TemplateKey,
	})

	return s.toTaskResponse(task), nil
}

// MarkSkipped pushes the task's due date to tomorrow. The task stays in
// the active pool and reappears in the next day's triage.
func (s *Service) MarkSkipped(ctx context.Context, taskID uuid.UUID) (transport.TaskResponse, error) {
	newDue := s.now().AddDate(0, 0, 1)
	task, err := s.repo.UpdateTaskStatus(ctx, taskID, domain.TaskSkipped, &newDue)
	if err != nil {
		return transport.TaskResponse{}, err
	}

	s.log.Info("follow-up task skipped", "task", task.ID, "lead", task.LeadID, "newDueAt", newDue)
	s.publish(ctx, events.FollowUpSkipped{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    task.LeadID,
		TaskID:    task.ID,
		StepKey:   task.TemplateKey,
		NewDueAt:  newDue,
	})
	s.scheduleReminder(ctx, task.ID, newDue)

	return s.toTaskResponse(task), nil
}

// AdvanceSequence creates the next step's task after a completion. Called
// from the FollowUpCompleted event handler; the last step ends the
// sequence silently.
func (s *Service) AdvanceSequence(ctx context.Context, leadID uuid.UUID, completedStep string) error {
	next, ok := s.catalog.Next(completedStep)
	if !ok {
		s.log.Debug("sequence finished, no further step", "lead", leadID, "step", completedStep)
		return nil
	}

	exists, err := s.repo.HasOpenTaskForStep(ctx, leadID, next.Key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	dueAt := s.now().AddDate(0, 0, next.OffsetDays)
	task, err := s.repo.InsertTask(ctx, repository.InsertTaskParams{
		LeadID:      leadID,
		TemplateKey: next.Key,
		DueAt:       &dueAt,
	})
	if err != nil {
		return err
	}

	s.log.Info("follow-up sequence advanced", "lead", leadID, "task", task.ID, "step", next.Key, "dueAt", dueAt)
	s.scheduleReminder(ctx, task.ID, dueAt)
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// TriageOpenTasks partitions all open tasks into urgency buckets
// relative to the reference date.
func (s *Service) TriageOpenTasks(ctx context.Context, reference time.Time) (transport.TriageResponse, error) {
	tasks, err := s.repo.ListOpenTasks(ctx)
	if err != nil {
		return transport.TriageResponse{}, err
	}

	grouped := triage.Group(tasks, reference)
	return transport.TriageResponse{
		Overdue:  s.toTaskResponses(grouped.Overdue),
		Today:    s.toTaskResponses(grouped.Today),
		Upcoming: s.toTaskResponses(grouped.Upcoming),
	}, nil
}

// ComposeMessage renders the task's message for its lead and builds the
// WhatsApp deep link when the lead's phone is usable.
func (s *Service) ComposeMessage(ctx context.Context, taskID uuid.UUID) (transport.MessageResponse, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return transport.MessageResponse{}, err
	}

	lead, err := s.leads.GetLead(ctx, task.LeadID)
	if err != nil {
		return transport.MessageResponse{}, err
	}

	message := s.composer.Compose(ctx, task.TemplateKey, lead)

	resp := transport.MessageResponse{TaskID: task.ID, Message: message}
	if s.links != nil && lead.Phone != nil {
		if link, ok := s.links.Link(*lead.Phone, message); ok {
			resp.WhatsAppLink = &link
		}
	}
	return resp, nil
}

// Steps returns the catalog sequence for UI display.
func (s *Service) Steps() transport.StepListResponse {
	defs := s.catalog.Steps()
	items := make([]transport.StepResponse, 0, len(defs))
	for _, def := range defs {
		items = append(items, transport.StepResponse{
			Key:        def.Key,
			Phase:      string(def.Phase),
			OffsetDays: def.OffsetDays,
		})
	}
	return transport.StepListResponse{Items: items}
}

// =============================================================================
// Override administration
// =============================================================================

// ListOverrides returns all active overrides.
func (s *Service) ListOverrides(ctx context.Context) (transport.OverrideListResponse, error) {
	overrides, err := s.repo.ListActiveOverrides(ctx)
	if err != nil {
		return transport.OverrideListResponse{}, err
	}

	items := make([]transport.OverrideResponse, 0, len(overrides))
	for _, o := range overrides {
		items = append(items, toOverrideResponse(o))
	}
	return transport.OverrideListResponse{Items: items, Total: len(items)}, nil
}

// SetOverride installs a workspace override for the step. The step must
// exist in the catalog; the previous active override for the pair is
// archived.
func (s *Service) SetOverride(ctx context.Context, stepKey string, req transport.SetOverrideRequest) (transport.OverrideResponse, error) {
	if _, err := s.catalog.Step(stepKey); err != nil {
		return transport.OverrideResponse{}, err
	}

	vertical := domain.NamedVertical(req.Vertical)
	override, err := s.repo.SetOverride(ctx, repository.SetOverrideParams{
		StepKey:    stepKey,
		Vertical:   vertical,
		TemplateID: req.TemplateID,
		Message:    req.Message,
	})
	if err != nil {
		return transport.OverrideResponse{}, err
	}

	s.log.Info("template override set", "step", stepKey, "vertical", vertical.String(), "override", override.ID)
	return toOverrideResponse(override), nil
}

// ClearOverride archives the active override for the (step, vertical) pair.
func (s *Service) ClearOverride(ctx context.Context, stepKey string, rawVertical string) error {
	if _, err := s.catalog.Step(stepKey); err != nil {
		return err
	}

	vertical := domain.NamedVertical(rawVertical)
	if err := s.repo.ClearOverride(ctx, stepKey, vertical); err != nil {
		return err
	}

	s.log.Info("template override cleared", "step", stepKey, "vertical", vertical.String())
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func (s *Service) scheduleReminder(ctx context.Context, taskID uuid.UUID, runAt time.Time) {
	if s.reminders == nil {
		return
	}
	if err := s.reminders.ScheduleFollowUpReminder(ctx, taskID, runAt); err != nil {
		// Reminders are best effort; the task itself is already stored.
		s.log.Warn("failed to schedule follow-up reminder", "task", taskID, "error", err)
	}
}

func (s *Service) toTaskResponse(task domain.Task) transport.TaskResponse {
	resp := transport.TaskResponse{
		ID:          task.ID,
		LeadID:      task.LeadID,
		TemplateKey: task.TemplateKey,
		Status:      string(task.Status),
		Note:        task.Note,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
	}
	if step, err := s.catalog.Step(task.TemplateKey); err == nil {
		resp.Phase = string(step.Phase)
	}
	if task.DueAt != nil {
		due := task.DueAt.Format(time.RFC3339)
		resp.DueAt = &due
	}
	return resp
}

func (s *Service) toTaskResponses(tasks []domain.Task) []transport.TaskResponse {
	out := make([]transport.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, s.toTaskResponse(task))
	}
	return out
}

func toOverrideResponse(o domain.TemplateOverride) transport.OverrideResponse {
	return transport.OverrideResponse{
		ID:         o.ID,
		StepKey:    o.StepKey,
		Vertical:   o.Vertical.String(),
		TemplateID: o.TemplateID,
		Message:    o.Message,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}
