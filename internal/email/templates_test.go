package email

import (
	"strings"
	"testing"
)

func TestRenderReminderTemplate(t *testing.T) {
	content, err := renderEmailTemplate("reminder.html", reminderEmailData{
		baseEmailData: baseEmailData{Title: "Follow-up fällig", Heading: "Follow-up fällig"},
		ReminderData: ReminderData{
			LeadName: "Maria Schmidt",
			StepKey:  "followup1",
			DueAt:    "10.06.2024",
			Message:  "Hallo Maria, wie geht's?",
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Maria Schmidt", "followup1", "10.06.2024", "Hallo Maria, wie geht&#39;s?"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered template missing %q", want)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := renderEmailTemplate("nope.html", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
