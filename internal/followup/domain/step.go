package domain

// Phase is the coarse lifecycle phase of a follow-up step, used for badge
// display and sequencing order.
type Phase string

const (
	PhaseContact      Phase = "contact"
	PhaseFollowUp     Phase = "follow_up"
	PhaseReactivation Phase = "reactivation"
)

// StepDefinition describes one stage of the standard follow-up cadence.
// Definitions are immutable and live in the catalog registry.
type StepDefinition struct {
	// Key uniquely identifies the step (e.g. "first_contact").
	Key string
	// Phase is the coarse lifecycle phase.
	Phase Phase
	// OffsetDays is the number of days after the previous step (or after
	// sequence start) at which this step becomes due.
	OffsetDays int
	// DefaultMessage is the template used when no vertical variant or
	// override applies. It may contain the {{name}} placeholder.
	DefaultMessage string
	// VerticalMessages maps a vertical code to a tailored template.
	VerticalMessages map[Vertical]string
}

// MessageFor returns the template for the given vertical, falling back to
// the default message when no variant exists.
func (s StepDefinition) MessageFor(v Vertical) string {
	if !v.IsGeneric() {
		if msg, ok := s.VerticalMessages[v]; ok {
			return msg
		}
	}
	return s.DefaultMessage
}
