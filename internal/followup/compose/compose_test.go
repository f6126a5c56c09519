package compose

import (
	"context"
	"errors"
	"testing"

	"crm_followup_backend/internal/followup/catalog"
	"crm_followup_backend/internal/followup/domain"
	"crm_followup_backend/platform/logger"

	"github.com/google/uuid"
)

type stubResolver struct {
	override domain.TemplateOverride
	found    bool
	err      error
}

func (s *stubResolver) ResolveActiveOverride(_ context.Context, _ string, _ domain.Vertical) (domain.TemplateOverride, bool, error) {
	return s.override, s.found, s.err
}

func fixtureRegistry() *catalog.Registry {
	return catalog.New([]domain.StepDefinition{
		{
			Key:            "greeting",
			Phase:          domain.PhaseContact,
			DefaultMessage: "Hallo {{name}}, wie geht's?",
			VerticalMessages: map[domain.Vertical]string{
				domain.NamedVertical("real_estate"): "Hallo {{name}}, passt ein Besichtigungstermin?",
			},
		},
		{
			Key:            "colon",
			Phase:          domain.PhaseFollowUp,
			DefaultMessage: "Kurze Frage, {{name}}: passt der Termin?",
		},
		{
			Key:            "comma",
			Phase:          domain.PhaseFollowUp,
			DefaultMessage: "Hi, {{name}}, kurze Frage",
		},
	})
}

func testLead(name *string, vertical domain.Vertical) domain.Lead {
	return domain.Lead{ID: uuid.New(), Name: name, Vertical: vertical}
}

func strPtr(v string) *string {
	return &v
}

func TestComposeOverridePrecedence(t *testing.T) {
	resolver := &stubResolver{
		override: domain.TemplateOverride{Message: "Moin {{name}}, alles klar?"},
		found:    true,
	}
	c := New(fixtureRegistry(), resolver, logger.New("development"))

	got := c.Compose(context.Background(), "greeting", testLead(strPtr("Maria Schmidt"), domain.NamedVertical("real_estate")))
	if got != "Moin Maria, alles klar?" {
		t.Fatalf("expected override text to win, got %q", got)
	}
}

func TestComposeVerticalVariant(t *testing.T) {
	c := New(fixtureRegistry(), &stubResolver{}, logger.New("development"))

	got := c.Compose(context.Background(), "greeting", testLead(strPtr("Maria Schmidt"), domain.NamedVertical("real_estate")))
	if got != "Hallo Maria, passt ein Besichtigungstermin?" {
		t.Fatalf("expected vertical variant, got %q", got)
	}
}

func TestComposeVerticalFallbackToDefault(t *testing.T) {
	c := New(fixtureRegistry(), &stubResolver{}, logger.New("development"))

	got := c.Compose(context.Background(), "greeting", testLead(strPtr("Maria Schmidt"), domain.NamedVertical("finance")))
	if got != "Hallo Maria, wie geht's?" {
		t.Fatalf("expected default message for vertical without variant, got %q", got)
	}
}

func TestComposeNamePresent(t *testing.T) {
	c := New(fixtureRegistry(), nil, logger.New("development"))

	got := c.Compose(context.Background(), "greeting", testLead(strPtr("Maria Schmidt"), domain.Generic))
	if got != "Hallo Maria, wie geht's?" {
		t.Fatalf("expected first name substitution, got %q", got)
	}
}

func TestComposeNameAbsentColonCase(t *testing.T) {
	c := New(fixtureRegistry(), nil, logger.New("development"))

	got := c.Compose(context.Background(), "colon", testLead(nil, domain.Generic))
	if got != "Kurze Frage: passt der Termin?" {
		t.Fatalf("expected colon rewrite, got %q", got)
	}
}

func TestComposeNameAbsentCommaCase(t *testing.T) {
	c := New(fixtureRegistry(), nil, logger.New("development"))

	got := c.Compose(context.Background(), "comma", testLead(nil, domain.Generic))
	if got != "Hi, kurze Frage" {
		t.Fatalf("expected comma rewrite, got %q", got)
	}
}

func TestComposeUnknownStepFallsBack(t *testing.T) {
	c := New(fixtureRegistry(), nil, logger.New("development"))

	got := c.Compose(context.Background(), "missing_step", testLead(strPtr("Maria"), domain.Generic))
	if got != fallbackMessage {
		t.Fatalf("expected fallback sentence, got %q", got)
	}
}

func TestComposeResolverErrorDegradesToCatalog(t *testing.T) {
	resolver := &stubResolver{err: errors.New("store unavailable")}
	c := New(fixtureRegistry(), resolver, logger.New("development"))

	got := c.Compose(context.Background(), "greeting", testLead(strPtr("Maria"), domain.Generic))
	if got != "Hallo Maria, wie geht's?" {
		t.Fatalf("expected catalog template when resolver fails, got %q", got)
	}
}

func TestStripNameOrderedRules(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Kurze Frage, {{name}}: passt der Termin?", "Kurze Frage: passt der Termin?"},
		{"Hi, {{name}}, kurze Frage", "Hi, kurze Frage"},
		{"Danke, {{name}} für deine Zeit", "Danke für deine Zeit"},
		{"Bis bald, {{name}}", "Bis bald"},
		{"Hallo {{name}}, wie geht's?", "Hallo wie geht's?"},
		{"Hallo {{name}}: los geht's", "Hallo los geht's"},
		{"Hallo {{name}} wie geht's?", "Hallo wie geht's?"},
		{"{{name}}", ""},
		{"Hallo {{name}}, hi {{name}}, ciao", "Hallo hi ciao"},
		{"Kein Platzhalter hier", "Kein Platzhalter hier"},
	}

	for _, tc := range cases {
		if got := StripName(tc.in); got != tc.want {
			t.Fatalf("StripName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFillNameReplacesAllOccurrences(t *testing.T) {
	got := FillName("{{name}}, hör zu {{name}}!", "Maria")
	if got != "Maria, hör zu Maria!" {
		t.Fatalf("unexpected fill result %q", got)
	}
}
