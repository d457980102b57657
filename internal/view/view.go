// Package view derives read-only projections and statistics from a task
// collection. Nothing here mutates its input.
package view

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"tachyon/internal/task"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter falls back to FilterAll for unknown names.
func ParseFilter(v string) (Filter, bool) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(v))); f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, true
	}
	return FilterAll, false
}

func (f Filter) Next() Filter {
	all := Filters()
	for i, x := range all {
		if x == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterAll
}

func (f Filter) Match(t task.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Project returns the tasks that pass both the filter and a case-insensitive
// substring search, in their original relative order. An empty query matches
// everything.
func Project(tasks []task.Task, filter Filter, query string) []task.Task {
	needle := fold(query)
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !filter.Match(t) {
			continue
		}
		if needle != "" && !strings.Contains(fold(t.Text), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

type Stats struct {
	Total          int
	Completed      int
	Active         int
	CompletionRate int
}

func ComputeStats(tasks []task.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(math.Floor(float64(s.Completed)/float64(s.Total)*100 + 0.5))
	}
	return s
}

// SortMode is a transient display ordering layered over a projection.
type SortMode string

const (
	SortManual   SortMode = "manual"
	SortDue      SortMode = "due"
	SortPriority SortMode = "priority"
)

func SortModes() []SortMode {
	return []SortMode{SortManual, SortDue, SortPriority}
}

func (m SortMode) Next() SortMode {
	all := SortModes()
	for i, x := range all {
		if x == m {
			return all[(i+1)%len(all)]
		}
	}
	return SortManual
}

// Sort returns a stably sorted copy of tasks. SortManual keeps the input
// order. Tasks without a due date sort after dated ones under SortDue.
func Sort(tasks []task.Task, mode SortMode) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	switch mode {
	case SortDue:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	}
	return out
}
