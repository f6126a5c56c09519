// Package triage buckets open follow-up tasks by urgency for the day
// view. Grouping is a pure function of the task list and a reference
// date; it never mutates its input and is safe to call concurrently.
package triage

import (
	"time"

	"crm_followup_backend/internal/followup/domain"
)

// Bucket identifies an urgency bucket.
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
)

// Grouped is a stable partition of tasks into urgency buckets. Order
// within each bucket follows the input order.
type Grouped struct {
	Overdue  []domain.Task
	Today    []domain.Task
	Upcoming []domain.Task
}

// Group partitions tasks by comparing the date component of each task's
// due timestamp against the reference date, both taken at local midnight.
// A task without a due date is never urgent and lands in Upcoming.
func Group(tasks []domain.Task, reference time.Time) Grouped {
	var g Grouped
	refMidnight := midnight(reference)

	for _, task := range tasks {
		switch Classify(task, refMidnight) {
		case BucketOverdue:
			g.Overdue = append(g.Overdue, task)
		case BucketToday:
			g.Today = append(g.Today, task)
		default:
			g.Upcoming = append(g.Upcoming, task)
		}
	}
	return g
}

// Classify returns the bucket for a single task. refMidnight must already
// be truncated to midnight.
func Classify(task domain.Task, refMidnight time.Time) Bucket {
	if task.DueAt == nil {
		return BucketUpcoming
	}

	due := midnight(*task.DueAt)
	switch {
	case due.Before(refMidnight):
		return BucketOverdue
	case due.Equal(refMidnight):
		return BucketToday
	default:
		return BucketUpcoming
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
