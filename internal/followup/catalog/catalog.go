// Package catalog holds the static registry of standard follow-up steps.
// The registry is immutable after construction and injectable, so tests
// can swap in fixture definitions without touching process-wide state.
package catalog

import (
	"crm_followup_backend/internal/followup/domain"
)

// Registry is a read-only lookup of step definitions keyed by step key.
type Registry struct {
	steps map[string]domain.StepDefinition
	order []string
}

// New builds a registry from the given definitions. Later duplicates of a
// key replace earlier ones.
func New(steps []domain.StepDefinition) *Registry {
	r := &Registry{
		steps: make(map[string]domain.StepDefinition, len(steps)),
		order: make([]string, 0, len(steps)),
	}
	for _, step := range steps {
		if _, exists := r.steps[step.Key]; !exists {
			r.order = append(r.order, step.Key)
		}
		r.steps[step.Key] = step
	}
	return r
}

// Step returns the definition for key. An unknown key is a data-integrity
// error, never a fallback.
func (r *Registry) Step(key string) (domain.StepDefinition, error) {
	step, ok := r.steps[key]
	if !ok {
		return domain.StepDefinition{}, domain.UnknownStep(key)
	}
	return step, nil
}

// Steps returns all definitions in sequence order.
func (r *Registry) Steps() []domain.StepDefinition {
	out := make([]domain.StepDefinition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.steps[key])
	}
	return out
}

// First returns the opening step of the sequence.
func (r *Registry) First() domain.StepDefinition {
	return r.steps[r.order[0]]
}

// Next returns the step that follows key in the sequence, or false when
// key is the last step or unknown.
func (r *Registry) Next(key string) (domain.StepDefinition, bool) {
	for i, k := range r.order {
		if k == key && i+1 < len(r.order) {
			return r.steps[r.order[i+1]], true
		}
	}
	return domain.StepDefinition{}, false
}
