// Package compose renders a follow-up step's template text for a lead.
// Resolution precedence: active workspace override, then the step's
// vertical variant, then the default message. Composition never fails
// toward the caller; messages are shown mid-task and must not blow up
// in front of the user.
package compose

import (
	"context"

	"crm_followup_backend/internal/followup/catalog"
	"crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/platform/logger"
)

// fallbackMessage is shown when the step is unknown or the catalog text
// cannot be produced.
const fallbackMessage = "Entschuldige die Umstände – die vorbereitete Nachricht ist gerade nicht verfügbar. Ich melde mich in Kürze persönlich bei dir."

// OverrideResolver decides whether a workspace override replaces the
// catalog text for a (step, vertical) pair.
type OverrideResolver interface {
	ResolveActiveOverride(ctx context.Context, stepKey string, vertical domain.Vertical) (domain.TemplateOverride, bool, error)
}

// Composer produces the user-facing message for a step/lead combination.
type Composer struct {
	catalog  *catalog.Registry
	resolver OverrideResolver
	log      *logger.Logger
}

// New creates a Composer. resolver may be nil, in which case only
// catalog templates are used.
func New(reg *catalog.Registry, resolver OverrideResolver, log *logger.Logger) *Composer {
	return &Composer{catalog: reg, resolver: resolver, log: log}
}

// Compose returns the personalized message for the step and lead.
func (c *Composer) Compose(ctx context.Context, stepKey string, lead domain.Lead) string {
	template, ok := c.template(ctx, stepKey, lead.Vertical)
	if !ok {
		return fallbackMessage
	}

	if first, ok := lead.FirstName(); ok {
		return FillName(template, first)
	}
	return StripName(template)
}

// template picks the raw template text by precedence. Override lookups
// that fail (store I/O) degrade to catalog text rather than surfacing.
func (c *Composer) template(ctx context.Context, stepKey string, vertical domain.Vertical) (string, bool) {
	if c.resolver != nil {
		override, found, err := c.resolver.ResolveActiveOverride(ctx, stepKey, vertical)
		if err != nil {
			c.log.Warn("override lookup failed, using catalog template",
				"step", stepKey,
				"vertical", vertical.String(),
				"error", err,
			)
		} else if found {
			return override.Message, true
		}
	}

	step, err := c.catalog.Step(stepKey)
	if err != nil {
		c.log.Error("composing message for unknown step",
			"step", stepKey,
			"error", err,
		)
		return "", false
	}

	return step.MessageFor(vertical), true
}
