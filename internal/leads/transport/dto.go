package transport

import "github.com/google/uuid"

// CreateLeadRequest contains data for creating a new lead.
type CreateLeadRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Vertical *string `json:"vertical,omitempty" validate:"omitempty,max=50"`
	Company  *string `json:"company,omitempty" validate:"omitempty,max=200"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Vertical  string    `json:"vertical"`
	Company   *string   `json:"company,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

// LeadListResponse wraps a list of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}
