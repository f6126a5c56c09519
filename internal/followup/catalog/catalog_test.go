package catalog

import (
	"testing"

	"crm_followup_backend/internal/followup/domain"
)

func TestDefaultSequenceOrder(t *testing.T) {
	reg := Default()

	steps := reg.Steps()
	want := []string{"first_contact", "followup1", "followup2", "reactivation"}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i, key := range want {
		if steps[i].Key != key {
			t.Fatalf("expected step %d to be %s, got %s", i, key, steps[i].Key)
		}
	}

	if reg.First().Key != "first_contact" {
		t.Fatalf("expected first step first_contact, got %s", reg.First().Key)
	}
}

func TestStepUnknownKey(t *testing.T) {
	reg := Default()

	_, err := reg.Step("followup9")
	if err == nil {
		t.Fatal("expected an error for unknown step")
	}
	if !domain.IsUnknownStep(err) {
		t.Fatalf("expected unknown step error, got %v", err)
	}
}

func TestNext(t *testing.T) {
	reg := Default()

	next, ok := reg.Next("first_contact")
	if !ok || next.Key != "followup1" {
		t.Fatalf("expected followup1 after first_contact, got %s (ok=%v)", next.Key, ok)
	}

	if _, ok := reg.Next("reactivation"); ok {
		t.Fatal("last step should have no successor")
	}
	if _, ok := reg.Next("missing"); ok {
		t.Fatal("unknown step should have no successor")
	}
}

func TestMessageForVerticalFallback(t *testing.T) {
	reg := Default()

	step, err := reg.Step("followup2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	finance := domain.NamedVertical("finance")
	if got := step.MessageFor(finance); got != step.DefaultMessage {
		t.Fatalf("expected default message for vertical without variant, got %q", got)
	}

	first, err := reg.Step("first_contact")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	re := domain.NamedVertical("real_estate")
	if got := first.MessageFor(re); got == first.DefaultMessage {
		t.Fatal("expected real_estate variant, got default message")
	}
}

func TestRegistryIsInjectable(t *testing.T) {
	fixture := New([]domain.StepDefinition{
		{Key: "ping", Phase: domain.PhaseContact, DefaultMessage: "Hallo {{name}}"},
	})

	step, err := fixture.Step("ping")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if step.DefaultMessage != "Hallo {{name}}" {
		t.Fatalf("unexpected message %q", step.DefaultMessage)
	}
}
