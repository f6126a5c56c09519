package catalog

import (
	"crm_followup_backend/internal/followup/domain"
)

// Vertical codes with tailored message variants in the standard sequence.
var (
	verticalNetworkMarketing = domain.NamedVertical("network_marketing")
	verticalRealEstate       = domain.NamedVertical("real_estate")
	verticalFinance          = domain.NamedVertical("finance")
)

// Default returns the standard follow-up sequence. Offsets are relative
// to the previous step; the first step is due immediately on start.
func Default() *Registry {
	return New([]domain.StepDefinition{
		{
			Key:            "first_contact",
			Phase:          domain.PhaseContact,
			OffsetDays:     0,
			DefaultMessage: "Hallo {{name}}, schön, dass wir in Kontakt sind! Wann passt dir ein kurzes Gespräch?",
			VerticalMessages: map[domain.Vertical]string{
				verticalNetworkMarketing: "Hallo {{name}}, danke für dein Interesse an unserem Team! Wann können wir kurz telefonieren?",
				verticalRealEstate:       "Hallo {{name}}, danke für deine Anfrage zu unserem Objekt. Wann passt dir ein Besichtigungstermin?",
			},
		},
		{
			Key:            "followup1",
			Phase:          domain.PhaseFollowUp,
			OffsetDays:     2,
			DefaultMessage: "Hi, {{name}}, ich wollte kurz nachhaken – hattest du schon Zeit, darüber nachzudenken?",
			VerticalMessages: map[domain.Vertical]string{
				verticalFinance: "Hi, {{name}}, hattest du schon Gelegenheit, die Unterlagen durchzusehen?",
			},
		},
		{
			Key:            "followup2",
			Phase:          domain.PhaseFollowUp,
			OffsetDays:     4,
			DefaultMessage: "Kurze Frage, {{name}}: passt der Termin diese Woche noch für dich?",
		},
		{
			Key:            "reactivation",
			Phase:          domain.PhaseReactivation,
			OffsetDays:     14,
			DefaultMessage: "Hallo {{name}}, wir hatten uns länger nicht gesprochen. Ist das Thema für dich noch aktuell?",
			VerticalMessages: map[domain.Vertical]string{
				verticalNetworkMarketing: "Hallo {{name}}, bei uns hat sich einiges getan! Magst du nochmal reinschauen?",
			},
		},
	})
}
