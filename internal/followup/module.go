// Package followup provides the follow-up sequence bounded context: the
// standard outreach cadence, template override resolution, message
// composition and task triage.
package followup

import (
	"context"

	"crm_followup_backend/internal/events"
	"crm_followup_backend/internal/followup/catalog"
	"crm_followup_backend/internal/followup/compose"
	"crm_followup_backend/internal/followup/handler"
	"crm_followup_backend/internal/followup/ports"
	"crm_followup_backend/internal/followup/repository"
	"crm_followup_backend/internal/followup/service"
	apphttp "crm_followup_backend/internal/http"
	"crm_followup_backend/platform/logger"
	"crm_followup_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the follow-up bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the follow-up module. leads, links
// and reminders are supplied by the composition root; reminders may be
// nil when no scheduler is configured.
func NewModule(
	pool *pgxpool.Pool,
	reg *catalog.Registry,
	leads ports.LeadReader,
	links ports.LinkBuilder,
	reminders ports.ReminderScheduler,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	resolver := service.NewResolver(repo, bus, log)
	composer := compose.New(reg, resolver, log)
	svc := service.New(repo, reg, composer, leads, links, reminders, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followup"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts follow-up routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads/:id/sequence", m.handler.StartSequence)
	// Static segment kept outside the /followups group; gin rejects a
	// "steps" sibling next to the ":id" wildcard.
	ctx.Protected.GET("/sequence/steps", m.handler.Steps)

	followups := ctx.Protected.Group("/followups")
	followups.GET("", m.handler.Triage)
	followups.GET("/:id/message", m.handler.Message)
	followups.GET("/:id/whatsapp-qr", m.handler.WhatsAppQR)
	followups.POST("/:id/done", m.handler.MarkDone)
	followups.POST("/:id/skip", m.handler.MarkSkipped)

	overrides := ctx.Admin.Group("/template-overrides")
	overrides.GET("", m.handler.ListOverrides)
	overrides.PUT("/:stepKey", m.handler.SetOverride)
	overrides.DELETE("/:stepKey", m.handler.ClearOverride)
}

// RegisterHandlers subscribes to domain events for sequence advancement.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.FollowUpCompleted{}.EventName(), m)
}

// Handle routes events to the appropriate service method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.FollowUpCompleted:
		return m.service.AdvanceSequence(ctx, e.LeadID, e.StepKey)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
