package task

import "time"

// IsOverdue reports whether due lies strictly before the local calendar day
// of now. Completed tasks and tasks without a due date are never overdue.
func IsOverdue(due *Date, completed bool, now time.Time) bool {
	if due == nil || completed {
		return false
	}
	return due.Before(Today(now))
}
