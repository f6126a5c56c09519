package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectReminderFmt = "Follow-up fällig: %s"

// ReminderData carries the fields rendered into a reminder email.
type ReminderData struct {
	LeadName string
	StepKey  string
	DueAt    string
	Message  string
}

type baseEmailData struct {
	Title   string
	Heading string
}

type reminderEmailData struct {
	baseEmailData
	ReminderData
}

func renderEmailTemplate(name string, data any) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}

	return buf.String(), nil
}
