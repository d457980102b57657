package task

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from highest to lowest.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func ParsePriority(v string) (Priority, bool) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(v))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	}
	return "", false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities for sorting; lower ranks come first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Raise returns the next higher priority, stopping at high.
func (p Priority) Raise() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	default:
		return PriorityHigh
	}
}

// Lower returns the next lower priority, stopping at low.
func (p Priority) Lower() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	DueDate   *Date    `json:"dueDate,omitempty"`
}

// Overdue reports whether the task is past its due date as of now.
func (t Task) Overdue(now time.Time) bool {
	return IsOverdue(t.DueDate, t.Completed, now)
}

func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}
