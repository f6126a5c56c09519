package domain

import (
	"fmt"

	"crm_followup_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	opUnknownStep   = "catalog.step"
	opAlreadyActive = "followup.start"
	opTaskCompleted = "followup.task"
)

// UnknownStep reports a catalog lookup miss. This is a data-integrity
// error: callers must not paper over it with a default step.
func UnknownStep(key string) *apperr.Error {
	return apperr.NotFound(fmt.Sprintf("unknown follow-up step %q", key)).WithOp(opUnknownStep)
}

// IsUnknownStep reports whether err is a catalog lookup miss.
func IsUnknownStep(err error) bool {
	e, ok := err.(*apperr.Error)
	return ok && e.Kind == apperr.KindNotFound && e.Op == opUnknownStep
}

// AlreadyActive reports a duplicate sequence start for a lead. Callers
// should treat it as a no-op success from the user's perspective.
func AlreadyActive(leadID uuid.UUID) *apperr.Error {
	return apperr.Conflict(fmt.Sprintf("lead %s already has an active follow-up sequence", leadID)).WithOp(opAlreadyActive)
}

// IsAlreadyActive reports whether err is a duplicate sequence start.
func IsAlreadyActive(err error) bool {
	e, ok := err.(*apperr.Error)
	return ok && e.Kind == apperr.KindConflict && e.Op == opAlreadyActive
}

// TaskCompleted reports a lifecycle change attempted on a done task.
// Done is terminal; a completed task never re-enters the active pool.
func TaskCompleted(taskID uuid.UUID) *apperr.Error {
	return apperr.Conflict(fmt.Sprintf("follow-up task %s is already completed", taskID)).WithOp(opTaskCompleted)
}

// IsTaskCompleted reports whether err is a change rejected because the
// task is done.
func IsTaskCompleted(err error) bool {
	e, ok := err.(*apperr.Error)
	return ok && e.Kind == apperr.KindConflict && e.Op == opTaskCompleted
}
