package service

import (
	"context"

	"crm_followup_backend/internal/events"
	"crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/internal/followup/repository"
	"crm_followup_backend/platform/logger"

	"github.com/google/uuid"
)

// Resolver decides whether a workspace override replaces the catalog
// template for a (step, vertical) pair. It never falls back across
// verticals; template-level fallback belongs to the composer.
type Resolver struct {
	overrides repository.OverrideReader
	bus       events.Bus
	log       *logger.Logger
}

// NewResolver creates a Resolver. bus may be nil.
func NewResolver(overrides repository.OverrideReader, bus events.Bus, log *logger.Logger) *Resolver {
	return &Resolver{overrides: overrides, bus: bus, log: log}
}

// ResolveActiveOverride returns the active override for the exact
// (stepKey, normalized vertical) pair. Duplicate active rows violate the
// store's uniqueness guarantee; resolution is most-recent-wins (creation
// time, then id as tiebreaker) and the conflict is surfaced as a warning
// plus a domain event, not an error.
func (r *Resolver) ResolveActiveOverride(ctx context.Context, stepKey string, vertical domain.Vertical) (domain.TemplateOverride, bool, error) {
	candidates, err := r.overrides.ActiveOverridesFor(ctx, stepKey, vertical)
	if err != nil {
		return domain.TemplateOverride{}, false, err
	}
	if len(candidates) == 0 {
		return domain.TemplateOverride{}, false, nil
	}

	winner := candidates[0]
	if len(candidates) > 1 {
		losers := make([]uuid.UUID, 0, len(candidates)-1)
		for _, c := range candidates[1:] {
			losers = append(losers, c.ID)
		}

		r.log.Warn("multiple active overrides for step, using most recent",
			"step", stepKey,
			"vertical", vertical.String(),
			"winner", winner.ID,
			"candidates", len(candidates),
		)
		if r.bus != nil {
			r.bus.Publish(ctx, events.TemplateOverrideConflict{
				BaseEvent: events.NewBaseEvent(),
				StepKey:   stepKey,
				Vertical:  vertical.String(),
				Winner:    winner.ID,
				Losers:    losers,
			})
		}
	}

	return winner, true, nil
}
