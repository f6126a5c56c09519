package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Lead is the read-only view of a lead the engine needs: message
// personalization and contact details. The leads module owns the full
// record; this projection is what crosses the module boundary.
type Lead struct {
	ID       uuid.UUID
	Name     *string
	Phone    *string
	Vertical Vertical
	Company  *string
}

// FirstName returns the first whitespace-delimited token of the lead's
// name, or false when no name is set.
func (l Lead) FirstName() (string, bool) {
	if l.Name == nil {
		return "", false
	}
	fields := strings.Fields(*l.Name)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
