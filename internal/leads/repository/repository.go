package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_followup_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = "id, name, phone, vertical, company, created_at, updated_at"

// Lead is a stored lead record. Vertical is kept raw here; the followup
// module normalizes it when the record crosses the boundary.
type Lead struct {
	ID        uuid.UUID
	Name      *string
	Phone     *string
	Vertical  *string
	Company   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams contains parameters for creating a lead.
type CreateParams struct {
	Name     *string
	Phone    *string
	Vertical *string
	Company  *string
}

// Repository provides lead storage operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new lead.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (name, phone, vertical, company)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, params.Name, params.Phone, params.Vertical, params.Company))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByID retrieves a lead by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves all leads, newest first.
func (r *Repo) List(ctx context.Context) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.Name, &l.Phone, &l.Vertical, &l.Company, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return Lead{}, err
	}
	return l, nil
}
