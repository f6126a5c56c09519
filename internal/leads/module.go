// Package leads provides the lead store bounded context. The follow-up
// engine consumes it read-only through the LeadReader port.
package leads

import (
	"crm_followup_backend/internal/leads/handler"
	"crm_followup_backend/internal/leads/repository"
	"crm_followup_backend/internal/leads/service"

	apphttp "crm_followup_backend/internal/http"
	"crm_followup_backend/platform/logger"
	"crm_followup_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use. It also implements
// the follow-up module's LeadReader port.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
