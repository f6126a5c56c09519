// Package service provides business logic for leads.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	followupdomain "crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/internal/leads/repository"
	"crm_followup_backend/internal/leads/transport"
	"crm_followup_backend/platform/logger"
)

// Service provides business logic for leads.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create stores a new lead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.Create(ctx, repository.CreateParams{
		Name:     req.Name,
		Phone:    req.Phone,
		Vertical: req.Vertical,
		Company:  req.Company,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead created", "id", lead.ID)
	return toResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// List retrieves all leads.
func (s *Service) List(ctx context.Context) (transport.LeadListResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// GetLead exposes the lead store to the follow-up engine, projected to
// its read-only view with the vertical normalized.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (followupdomain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return followupdomain.Lead{}, err
	}
	return followupdomain.Lead{
		ID:       lead.ID,
		Name:     lead.Name,
		Phone:    lead.Phone,
		Vertical: followupdomain.ParseVertical(lead.Vertical),
		Company:  lead.Company,
	}, nil
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Phone:     lead.Phone,
		Vertical:  followupdomain.ParseVertical(lead.Vertical).String(),
		Company:   lead.Company,
		CreatedAt: lead.CreatedAt.Format(time.RFC3339),
	}
}
