package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"crm_followup_backend/internal/followup/domain"
)

const overrideColumns = "id, step_key, vertical, template_id, message, status, created_at"

// ListActiveOverrides retrieves all active overrides, most recent first.
func (r *Repo) ListActiveOverrides(ctx context.Context) ([]domain.TemplateOverride, error) {
	query := `
		SELECT ` + overrideColumns + `
		FROM template_overrides
		WHERE status = 'active'
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active overrides: %w", err)
	}
	defer rows.Close()

	return scanOverrides(rows)
}

// ActiveOverridesFor retrieves active overrides for the exact
// (stepKey, vertical) pair, most recent first. More than one row means
// the store's uniqueness guarantee was violated; the resolver handles it.
func (r *Repo) ActiveOverridesFor(ctx context.Context, stepKey string, vertical domain.Vertical) ([]domain.TemplateOverride, error) {
	query := `
		SELECT ` + overrideColumns + `
		FROM template_overrides
		WHERE step_key = $1
		  AND vertical IS NOT DISTINCT FROM $2
		  AND status = 'active'
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, stepKey, verticalParam(vertical))
	if err != nil {
		return nil, fmt.Errorf("lookup active override: %w", err)
	}
	defer rows.Close()

	return scanOverrides(rows)
}

// SetOverride archives any active override for the pair and installs the
// new one in a single transaction.
func (r *Repo) SetOverride(ctx context.Context, params SetOverrideParams) (domain.TemplateOverride, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.TemplateOverride{}, fmt.Errorf("set override: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	archive := `
		UPDATE template_overrides
		SET status = 'archived'
		WHERE step_key = $1 AND vertical IS NOT DISTINCT FROM $2 AND status = 'active'`
	if _, err := tx.Exec(ctx, archive, params.StepKey, verticalParam(params.Vertical)); err != nil {
		return domain.TemplateOverride{}, fmt.Errorf("set override: archive previous: %w", err)
	}

	insert := `
		INSERT INTO template_overrides (step_key, vertical, template_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + overrideColumns

	row := tx.QueryRow(ctx, insert, params.StepKey, verticalParam(params.Vertical), params.TemplateID, params.Message)
	override, err := scanOverride(row)
	if err != nil {
		return domain.TemplateOverride{}, fmt.Errorf("set override: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.TemplateOverride{}, fmt.Errorf("set override: commit: %w", err)
	}
	return override, nil
}

// ClearOverride archives the active override for the pair, if any.
func (r *Repo) ClearOverride(ctx context.Context, stepKey string, vertical domain.Vertical) error {
	query := `
		UPDATE template_overrides
		SET status = 'archived'
		WHERE step_key = $1 AND vertical IS NOT DISTINCT FROM $2 AND status = 'active'`

	if _, err := r.pool.Exec(ctx, query, stepKey, verticalParam(vertical)); err != nil {
		return fmt.Errorf("clear override: %w", err)
	}
	return nil
}

// verticalParam maps the generic vertical to NULL for storage.
func verticalParam(v domain.Vertical) *string {
	if v.IsGeneric() {
		return nil
	}
	code := v.Code()
	return &code
}

func scanOverride(row rowScanner) (domain.TemplateOverride, error) {
	var o domain.TemplateOverride
	var vertical *string
	var status string

	err := row.Scan(&o.ID, &o.StepKey, &vertical, &o.TemplateID, &o.Message, &status, &o.CreatedAt)
	if err != nil {
		return domain.TemplateOverride{}, err
	}
	o.Vertical = domain.ParseVertical(vertical)
	o.Status = domain.OverrideStatus(status)
	return o, nil
}

func scanOverrides(rows pgx.Rows) ([]domain.TemplateOverride, error) {
	var overrides []domain.TemplateOverride
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template override: %w", err)
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}
