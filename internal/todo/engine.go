// Package todo owns the canonical, ordered task collection. Every mutation
// goes through an Engine method, and every mutation that changes something
// is followed by exactly one save of the whole collection.
//
// An Engine is not safe for concurrent use; it expects a single caller such
// as a UI event loop.
package todo

import (
	"strings"
	"time"

	"tachyon/internal/task"
)

// Store persists the full collection. Implementations swallow their own
// failures; the in-memory collection stays authoritative for the session.
type Store interface {
	LoadTasks() []task.Task
	SaveTasks([]task.Task)
}

type Engine struct {
	store Store
	ids   task.IDGenerator
	now   func() time.Time
	tasks []task.Task
}

type Option func(*Engine)

func WithIDGenerator(ids task.IDGenerator) Option {
	return func(e *Engine) {
		if ids != nil {
			e.ids = ids
		}
	}
}

// WithClock overrides the clock used for date arithmetic.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an engine seeded with the store's tasks. The store is read
// once here and never again.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		ids:   task.NewIDGenerator(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.tasks = append([]task.Task{}, store.LoadTasks()...)
	return e
}

// Tasks returns a copy of the collection in canonical order.
func (e *Engine) Tasks() []task.Task {
	out := make([]task.Task, len(e.tasks))
	for i, t := range e.tasks {
		t.DueDate = copyDate(t.DueDate)
		out[i] = t
	}
	return out
}

func (e *Engine) Get(id string) (task.Task, bool) {
	i := e.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	t := e.tasks[i]
	t.DueDate = copyDate(t.DueDate)
	return t, true
}

func (e *Engine) Len() int {
	return len(e.tasks)
}

func (e *Engine) HasCompleted() bool {
	for _, t := range e.tasks {
		if t.Completed {
			return true
		}
	}
	return false
}

// Add appends a new task and returns its id. Text that is empty after
// trimming is ignored. An unknown priority becomes medium.
func (e *Engine) Add(text string, priority task.Priority, due *task.Date) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if !priority.Valid() {
		priority = task.PriorityMedium
	}
	id := e.ids.Generate()
	for e.index(id) >= 0 {
		id = e.ids.Generate()
	}
	e.tasks = append(e.tasks, task.Task{
		ID:       id,
		Text:     text,
		Priority: priority,
		DueDate:  copyDate(due),
	})
	e.save()
	return id, true
}

func (e *Engine) Toggle(id string) bool {
	return e.update(id, func(t *task.Task) {
		t.Completed = !t.Completed
	})
}

func (e *Engine) Delete(id string) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
	e.save()
	return true
}

// EditText replaces the task's text. Empty text after trimming keeps the
// previous text.
func (e *Engine) EditText(id, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return e.update(id, func(t *task.Task) {
		t.Text = text
	})
}

func (e *Engine) SetPriority(id string, priority task.Priority) bool {
	if !priority.Valid() {
		return false
	}
	return e.update(id, func(t *task.Task) {
		t.Priority = priority
	})
}

// SetDueDate sets or, with a nil date, clears the due date.
func (e *Engine) SetDueDate(id string, due *task.Date) bool {
	return e.update(id, func(t *task.Task) {
		t.DueDate = copyDate(due)
	})
}

// SetDueDateString accepts YYYY-MM-DD or an empty string to clear the
// due date. Malformed input leaves the task unchanged.
func (e *Engine) SetDueDateString(id, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return e.SetDueDate(id, nil)
	}
	d, err := task.ParseDate(v)
	if err != nil {
		return false
	}
	return e.SetDueDate(id, &d)
}

// ShiftDueDate moves the due date by days. A task without a due date is
// scheduled relative to today.
func (e *Engine) ShiftDueDate(id string, days int) bool {
	return e.update(id, func(t *task.Task) {
		base := task.Today(e.now())
		if t.DueDate != nil {
			base = *t.DueDate
		}
		d := base.AddDays(days)
		t.DueDate = &d
	})
}

// ClearCompleted removes every completed task and reports how many went.
func (e *Engine) ClearCompleted() int {
	kept := make([]task.Task, 0, len(e.tasks))
	for _, t := range e.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(e.tasks) - len(kept)
	if removed == 0 {
		return 0
	}
	e.tasks = kept
	e.save()
	return removed
}

// Reorder replaces the canonical order. ids must be a permutation of the
// current ids; anything else is rejected and leaves the order untouched.
func (e *Engine) Reorder(ids []string) bool {
	if len(ids) != len(e.tasks) {
		return false
	}
	byID := make(map[string]task.Task, len(e.tasks))
	for _, t := range e.tasks {
		byID[t.ID] = t
	}
	next := make([]task.Task, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return false
		}
		delete(byID, id)
		next = append(next, t)
	}
	e.tasks = next
	e.save()
	return true
}

// Move drops the task activeID at the position currently held by overID,
// shifting the tasks in between, the way a drag-and-drop list does.
func (e *Engine) Move(activeID, overID string) bool {
	from, to := e.index(activeID), e.index(overID)
	if from < 0 || to < 0 || from == to {
		return false
	}
	ids := make([]string, 0, len(e.tasks))
	for _, t := range e.tasks {
		if t.ID != activeID {
			ids = append(ids, t.ID)
		}
	}
	ids = append(ids[:to], append([]string{activeID}, ids[to:]...)...)
	return e.Reorder(ids)
}

func (e *Engine) update(id string, fn func(*task.Task)) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	fn(&e.tasks[i])
	e.save()
	return true
}

func (e *Engine) index(id string) int {
	for i, t := range e.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) save() {
	e.store.SaveTasks(e.Tasks())
}

func copyDate(d *task.Date) *task.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
