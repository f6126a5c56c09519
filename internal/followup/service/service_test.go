package service

import (
	"context"
	"testing"
	"time"

	"crm_followup_backend/internal/followup/catalog"
	"crm_followup_backend/internal/followup/compose"
	"crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/internal/followup/repository"
	"crm_followup_backend/internal/followup/transport"
	"crm_followup_backend/internal/followup/triage"
	"crm_followup_backend/platform/apperr"
	"crm_followup_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	tasks     map[uuid.UUID]domain.Task
	overrides []domain.TemplateOverride
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: make(map[uuid.UUID]domain.Task)}
}

func (f *fakeRepo) GetTask(_ context.Context, id uuid.UUID) (domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, apperr.NotFound("follow-up task not found")
	}
	return task, nil
}

func (f *fakeRepo) ListOpenTasks(_ context.Context) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		if t.IsOpen() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOpenTasksForLead(_ context.Context, leadID uuid.UUID) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		if t.LeadID == leadID && t.IsOpen() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) HasOpenTaskForStep(_ context.Context, leadID uuid.UUID, key string) (bool, error) {
	for _, t := range f.tasks {
		if t.LeadID == leadID && t.TemplateKey == key && t.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) InsertTask(_ context.Context, params repository.InsertTaskParams) (domain.Task, error) {
	// mirrors the partial unique index on open (lead, step) pairs
	for _, t := range f.tasks {
		if t.LeadID == params.LeadID && t.TemplateKey == params.TemplateKey && t.IsOpen() {
			return domain.Task{}, domain.AlreadyActive(params.LeadID)
		}
	}
	task := domain.Task{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		TemplateKey: params.TemplateKey,
		DueAt:       params.DueAt,
		Status:      domain.TaskActive,
		Note:        params.Note,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeRepo) UpdateTaskStatus(_ context.Context, id uuid.UUID, status domain.TaskStatus, dueAt *time.Time) (domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, apperr.NotFound("follow-up task not found")
	}
	if task.Status == domain.TaskDone {
		return domain.Task{}, domain.TaskCompleted(id)
	}
	task.Status = status
	if dueAt != nil {
		task.DueAt = dueAt
	}
	task.UpdatedAt = time.Now()
	f.tasks[id] = task
	return task, nil
}

func (f *fakeRepo) ListActiveOverrides(_ context.Context) ([]domain.TemplateOverride, error) {
	return f.overrides, nil
}

func (f *fakeRepo) ActiveOverridesFor(_ context.Context, stepKey string, vertical domain.Vertical) ([]domain.TemplateOverride, error) {
	var out []domain.TemplateOverride
	for _, o := range f.overrides {
		if o.StepKey == stepKey && o.Vertical == vertical && o.Status == domain.OverrideActive {
			out = append(out, o)
		}
	}
	// most recent first, matching the SQL ordering
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) SetOverride(_ context.Context, params repository.SetOverrideParams) (domain.TemplateOverride, error) {
	for i := range f.overrides {
		if f.overrides[i].StepKey == params.StepKey && f.overrides[i].Vertical == params.Vertical {
			f.overrides[i].Status = domain.OverrideArchived
		}
	}
	o := domain.TemplateOverride{
		ID:         uuid.New(),
		StepKey:    params.StepKey,
		Vertical:   params.Vertical,
		TemplateID: params.TemplateID,
		Message:    params.Message,
		Status:     domain.OverrideActive,
		CreatedAt:  time.Now(),
	}
	f.overrides = append(f.overrides, o)
	return o, nil
}

func (f *fakeRepo) ClearOverride(_ context.Context, stepKey string, vertical domain.Vertical) error {
	for i := range f.overrides {
		if f.overrides[i].StepKey == stepKey && f.overrides[i].Vertical == vertical {
			f.overrides[i].Status = domain.OverrideArchived
		}
	}
	return nil
}

// fakeLeads is an in-memory LeadReader.
type fakeLeads struct {
	leads map[uuid.UUID]domain.Lead
}

func (f *fakeLeads) GetLead(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	return f.leads[id], nil
}

func newTestService(repo *fakeRepo) (*Service, uuid.UUID) {
	return newTestServiceWithRepo(repo, uuid.New())
}

func newTestServiceWithRepo(repo repository.Repository, leadID uuid.UUID) (*Service, uuid.UUID) {
	log := logger.New("development")
	reg := catalog.Default()
	name := "Maria Schmidt"
	leads := &fakeLeads{leads: map[uuid.UUID]domain.Lead{
		leadID: {ID: leadID, Name: &name, Vertical: domain.Generic},
	}}
	resolver := NewResolver(repo, nil, log)
	composer := compose.New(reg, resolver, log)
	return New(repo, reg, composer, leads, nil, nil, nil, log), leadID
}

func TestStartSequenceIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	first, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.StepKey != "first_contact" {
		t.Fatalf("expected first_contact, got %s", first.StepKey)
	}

	_, err = svc.StartSequence(ctx, leadID)
	if err == nil {
		t.Fatal("second start must fail")
	}
	if !domain.IsAlreadyActive(err) {
		t.Fatalf("expected already-active conflict, got %v", err)
	}

	open, _ := repo.ListOpenTasksForLead(ctx, leadID)
	if len(open) != 1 {
		t.Fatalf("expected exactly one live task, got %d", len(open))
	}
}

func TestStartSequenceAgainAfterDone(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	first, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.MarkDone(ctx, first.TaskID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.StartSequence(ctx, leadID); err != nil {
		t.Fatalf("restart after completion should succeed, got %v", err)
	}
}

func TestMarkSkippedReschedulesWithoutTerminating(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	started, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.MarkSkipped(ctx, started.TaskID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task := repo.tasks[started.TaskID]
	if !task.IsOpen() {
		t.Fatal("skipped task must stay in the active pool")
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	grouped := triage.Group([]domain.Task{task}, tomorrow)
	if len(grouped.Today) != 1 {
		t.Fatalf("skipped task should triage to today relative to tomorrow, got overdue=%d today=%d upcoming=%d",
			len(grouped.Overdue), len(grouped.Today), len(grouped.Upcoming))
	}
}

func TestMarkDoneIsTerminal(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	started, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.MarkDone(ctx, started.TaskID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(domain.TaskDone) {
		t.Fatalf("expected done status, got %s", resp.Status)
	}

	open, _ := repo.ListOpenTasksForLead(ctx, leadID)
	if len(open) != 0 {
		t.Fatalf("done task must leave the active pool, got %d open", len(open))
	}
}

func TestSkipCannotResurrectDoneTask(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	started, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.MarkDone(ctx, started.TaskID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.MarkSkipped(ctx, started.TaskID)
	if !domain.IsTaskCompleted(err) {
		t.Fatalf("skipping a done task must be rejected as a conflict, got %v", err)
	}

	task := repo.tasks[started.TaskID]
	if task.Status != domain.TaskDone {
		t.Fatalf("done task changed status to %s", task.Status)
	}
	if task.IsOpen() {
		t.Fatal("done task re-entered the active pool")
	}

	// Marking done again is equally blocked; done is terminal.
	if _, err := svc.MarkDone(ctx, started.TaskID); !domain.IsTaskCompleted(err) {
		t.Fatalf("expected conflict on repeated done, got %v", err)
	}
}

// staleCheckRepo simulates two concurrent starts: the duplicate check
// sees no open task, so the insert itself has to reject the loser the
// way the partial unique index does.
type staleCheckRepo struct {
	*fakeRepo
}

func (f *staleCheckRepo) HasOpenTaskForStep(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func TestStartSequenceRaceSurfacesConflict(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.StartSequence(ctx, leadID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	racing, _ := newTestServiceWithRepo(&staleCheckRepo{repo}, leadID)
	_, err := racing.StartSequence(ctx, leadID)
	if !domain.IsAlreadyActive(err) {
		t.Fatalf("losing start must surface the already-active conflict, got %v", err)
	}

	open, _ := repo.ListOpenTasksForLead(ctx, leadID)
	if len(open) != 1 {
		t.Fatalf("expected exactly one live task after the race, got %d", len(open))
	}
}

func TestAdvanceSequenceSchedulesNextStep(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	started, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.MarkDone(ctx, started.TaskID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.AdvanceSequence(ctx, leadID, "first_contact"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	open, _ := repo.ListOpenTasksForLead(ctx, leadID)
	if len(open) != 1 || open[0].TemplateKey != "followup1" {
		t.Fatalf("expected one open followup1 task, got %d", len(open))
	}
	if open[0].DueAt == nil {
		t.Fatal("advanced task must carry a due date")
	}

	// advancing again must not duplicate the pending step
	if err := svc.AdvanceSequence(ctx, leadID, "first_contact"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	open, _ = repo.ListOpenTasksForLead(ctx, leadID)
	if len(open) != 1 {
		t.Fatalf("expected no duplicate task, got %d", len(open))
	}

	// the last step has no successor
	if err := svc.AdvanceSequence(ctx, leadID, "reactivation"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolverMostRecentWins(t *testing.T) {
	repo := newFakeRepo()
	log := logger.New("development")
	resolver := NewResolver(repo, nil, log)

	older := domain.TemplateOverride{
		ID:        uuid.New(),
		StepKey:   "first_contact",
		Vertical:  domain.Generic,
		Message:   "alte Version",
		Status:    domain.OverrideActive,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := domain.TemplateOverride{
		ID:        uuid.New(),
		StepKey:   "first_contact",
		Vertical:  domain.Generic,
		Message:   "neue Version",
		Status:    domain.OverrideActive,
		CreatedAt: time.Now(),
	}
	repo.overrides = []domain.TemplateOverride{older, newer}

	got, found, err := resolver.ResolveActiveOverride(context.Background(), "first_contact", domain.Generic)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected an override")
	}
	if got.Message != "neue Version" {
		t.Fatalf("expected most recent override to win, got %q", got.Message)
	}
}

func TestResolverDoesNotFallBackAcrossVerticals(t *testing.T) {
	repo := newFakeRepo()
	resolver := NewResolver(repo, nil, logger.New("development"))

	repo.overrides = []domain.TemplateOverride{{
		ID:        uuid.New(),
		StepKey:   "first_contact",
		Vertical:  domain.Generic,
		Message:   "generischer Text",
		Status:    domain.OverrideActive,
		CreatedAt: time.Now(),
	}}

	_, found, err := resolver.ResolveActiveOverride(context.Background(), "first_contact", domain.NamedVertical("finance"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("resolver must not fall back from a named vertical to generic")
	}
}

func TestSetOverrideRejectsUnknownStep(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.SetOverride(context.Background(), "nope", transport.SetOverrideRequest{
		TemplateID: uuid.New(),
		Message:    "Hallo",
	})
	if !domain.IsUnknownStep(err) {
		t.Fatalf("expected unknown step error, got %v", err)
	}
}

func TestComposeMessagePrefersOverride(t *testing.T) {
	repo := newFakeRepo()
	svc, leadID := newTestService(repo)
	ctx := context.Background()

	started, err := svc.StartSequence(ctx, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.SetOverride(ctx, "first_contact", transport.SetOverrideRequest{
		TemplateID: uuid.New(),
		Message:    "Moin {{name}}, neuer Text!",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, err := svc.ComposeMessage(ctx, started.TaskID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Message != "Moin Maria, neuer Text!" {
		t.Fatalf("expected override text, got %q", msg.Message)
	}
	if msg.WhatsAppLink != nil {
		t.Fatal("no link expected without a link builder")
	}
}
