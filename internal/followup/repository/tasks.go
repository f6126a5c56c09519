package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/platform/apperr"
)

const taskNotFoundMessage = "follow-up task not found"

const taskColumns = "id, lead_id, template_key, due_at, status, note, created_at, updated_at"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow-up repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// InsertTask creates a new follow-up task in the active state.
func (r *Repo) InsertTask(ctx context.Context, params InsertTaskParams) (domain.Task, error) {
	query := `
		INSERT INTO followup_tasks (lead_id, template_key, due_at, note)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, params.LeadID, params.TemplateKey, params.DueAt, params.Note)
	task, err := scanTask(row)
	if err != nil {
		// A concurrent start that lost the race hits the partial unique
		// index on open (lead, step) pairs; surface it as the same
		// conflict the pre-check produces.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Task{}, domain.AlreadyActive(params.LeadID)
		}
		return domain.Task{}, fmt.Errorf("insert follow-up task: %w", err)
	}
	return task, nil
}

// GetTask retrieves a follow-up task by its ID.
func (r *Repo) GetTask(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM followup_tasks WHERE id = $1`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, apperr.NotFound(taskNotFoundMessage)
		}
		return domain.Task{}, fmt.Errorf("get follow-up task: %w", err)
	}
	return task, nil
}

// ListOpenTasks retrieves all tasks still in the active pool (skipped
// tasks included; only done is terminal), oldest due first.
// Tasks without a due date sort last.
func (r *Repo) ListOpenTasks(ctx context.Context) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM followup_tasks
		WHERE status <> 'done'
		ORDER BY due_at ASC NULLS LAST, created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open follow-up tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListOpenTasksForLead retrieves a lead's tasks in the active pool.
func (r *Repo) ListOpenTasksForLead(ctx context.Context, leadID uuid.UUID) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM followup_tasks
		WHERE lead_id = $1 AND status <> 'done'
		ORDER BY due_at ASC NULLS LAST, created_at ASC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list open follow-up tasks for lead: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// HasOpenTaskForStep reports whether the lead already has an active task
// for the given step.
func (r *Repo) HasOpenTaskForStep(ctx context.Context, leadID uuid.UUID, templateKey string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM followup_tasks
			WHERE lead_id = $1 AND template_key = $2 AND status <> 'done'
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, leadID, templateKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open follow-up task: %w", err)
	}
	return exists, nil
}

// UpdateTaskStatus sets the status and, when dueAt is non-nil, the due
// timestamp of a task. Done is terminal: a completed task cannot change
// status again, so a skip can never pull it back into the active pool.
func (r *Repo) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus, dueAt *time.Time) (domain.Task, error) {
	query := `
		UPDATE followup_tasks
		SET status = $2,
		    due_at = COALESCE($3, due_at),
		    updated_at = now()
		WHERE id = $1 AND status <> 'done'
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, status, dueAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the task does not exist or the guard filtered a
			// completed task; look again to tell the two apart.
			if _, getErr := r.GetTask(ctx, id); getErr != nil {
				return domain.Task{}, getErr
			}
			return domain.Task{}, domain.TaskCompleted(id)
		}
		return domain.Task{}, fmt.Errorf("update follow-up task status: %w", err)
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var t domain.Task
	var status string

	err := row.Scan(&t.ID, &t.LeadID, &t.TemplateKey, &t.DueAt, &status, &t.Note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	return t, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan follow-up task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
