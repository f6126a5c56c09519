package triage

import (
	"testing"
	"time"

	"crm_followup_backend/internal/followup/domain"

	"github.com/google/uuid"
)

func taskDueAt(due *time.Time) domain.Task {
	return domain.Task{
		ID:          uuid.New(),
		LeadID:      uuid.New(),
		TemplateKey: "first_contact",
		DueAt:       due,
		Status:      domain.TaskActive,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestGroupDateBoundaries(t *testing.T) {
	reference := time.Date(2024, 6, 10, 15, 30, 0, 0, time.Local)

	lateYesterday := taskDueAt(timePtr(time.Date(2024, 6, 9, 23, 0, 0, 0, time.Local)))
	earlyToday := taskDueAt(timePtr(time.Date(2024, 6, 10, 0, 1, 0, 0, time.Local)))
	tomorrowMidnight := taskDueAt(timePtr(time.Date(2024, 6, 11, 0, 0, 0, 0, time.Local)))
	noDueDate := taskDueAt(nil)

	g := Group([]domain.Task{lateYesterday, earlyToday, tomorrowMidnight, noDueDate}, reference)

	if len(g.Overdue) != 1 || g.Overdue[0].ID != lateYesterday.ID {
		t.Fatalf("expected only late-yesterday task in overdue, got %d", len(g.Overdue))
	}
	if len(g.Today) != 1 || g.Today[0].ID != earlyToday.ID {
		t.Fatalf("expected only early-today task in today, got %d", len(g.Today))
	}
	if len(g.Upcoming) != 2 {
		t.Fatalf("expected tomorrow and no-due-date tasks in upcoming, got %d", len(g.Upcoming))
	}
}

func TestGroupPreservesInputOrder(t *testing.T) {
	reference := time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)

	first := taskDueAt(timePtr(time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)))
	second := taskDueAt(timePtr(time.Date(2024, 6, 10, 7, 0, 0, 0, time.Local)))
	third := taskDueAt(timePtr(time.Date(2024, 6, 10, 18, 0, 0, 0, time.Local)))

	g := Group([]domain.Task{first, second, third}, reference)

	if len(g.Today) != 3 {
		t.Fatalf("expected 3 tasks in today, got %d", len(g.Today))
	}
	if g.Today[0].ID != first.ID || g.Today[1].ID != second.ID || g.Today[2].ID != third.ID {
		t.Fatal("today bucket must preserve input order, not re-sort by time")
	}
}

func TestGroupIsIdempotentAndPure(t *testing.T) {
	reference := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	due := time.Date(2024, 6, 8, 10, 0, 0, 0, time.Local)
	tasks := []domain.Task{taskDueAt(timePtr(due))}

	first := Group(tasks, reference)
	second := Group(tasks, reference)

	if len(first.Overdue) != 1 || len(second.Overdue) != 1 {
		t.Fatal("re-running triage must produce the same partition")
	}
	if !tasks[0].DueAt.Equal(due) {
		t.Fatal("triage must not mutate input tasks")
	}
}
