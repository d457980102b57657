package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"tachyon/internal/config"
	"tachyon/internal/task"
	"tachyon/internal/theme"
	"tachyon/internal/todo"
	"tachyon/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeRename
	modeDue
	modeSearch
	modeConfirmDelete
	modeConfirmClear
)

type Model struct {
	engine   *todo.Engine
	prefs    *theme.Preference
	cfg      config.Config
	now      func() time.Time
	visible  []task.Task
	cursor   int
	mode     mode
	input    textinput.Model
	status   string
	filter   view.Filter
	query    string
	sortMode view.SortMode
	priority task.Priority
	pending  string
}

func Run(engine *todo.Engine, prefs *theme.Preference, cfg config.Config) error {
	program := tea.NewProgram(New(engine, prefs, cfg))
	_, err := program.Run()
	return err
}

func New(engine *todo.Engine, prefs *theme.Preference, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		engine:   engine,
		prefs:    prefs,
		cfg:      cfg,
		now:      time.Now,
		input:    ti,
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
		filter:   cfg.Filter(),
		sortMode: view.SortManual,
		priority: cfg.Priority(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.mode {
	case modeAdd, modeRename, modeDue, modeSearch:
		return m.updateInputMode(key, msg)
	case modeConfirmDelete:
		return m.updateDeleteConfirm(key)
	case modeConfirmClear:
		return m.updateClearConfirm(key)
	}
	return m.updateListMode(key)
}

// refresh recomputes the visible projection and keeps the cursor in range.
func (m *Model) refresh() {
	m.visible = view.Sort(view.Project(m.engine.Tasks(), m.filter, m.query), m.sortMode)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m *Model) focusOn(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.visible))
		}
	case k.Add:
		m.startInput(modeAdd, "", "Task title")
		m.status = fmt.Sprintf("Add mode: type a title, tab to change priority (%s), Enter to save", m.priority.Label())
	case k.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.engine.Toggle(t.ID)
		m.refresh()
		m.status = "Toggled task"
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pending = t.ID
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case k.Rename:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to rename"
			return m, nil
		}
		m.pending = t.ID
		m.startInput(modeRename, t.Text, "Task title")
		m.status = "Rename: Enter to save, Esc to cancel"
	case k.Due:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to schedule"
			return m, nil
		}
		m.pending = t.ID
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		m.startInput(modeDue, due, "YYYY-MM-DD (empty clears)")
		m.status = "Due date: YYYY-MM-DD, empty to clear"
	case k.PriorityUp, k.PriorityDown:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := t.Priority.Raise()
		if key == k.PriorityDown {
			next = t.Priority.Lower()
		}
		m.engine.SetPriority(t.ID, next)
		m.refresh()
		m.focusOn(t.ID)
		m.status = "Priority: " + next.Label()
	case k.DueForward, k.DueBack:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		days := 1
		if key == k.DueBack {
			days = -1
		}
		m.engine.ShiftDueDate(t.ID, days)
		m.refresh()
		m.focusOn(t.ID)
		if updated, ok := m.engine.Get(t.ID); ok && updated.DueDate != nil {
			m.status = "Due " + updated.DueDate.String()
		}
	case k.MoveUp, k.MoveDown:
		return m.move(key == k.MoveUp)
	case k.Filter:
		m.filter = m.filter.Next()
		m.refresh()
		m.status = "Filter: " + string(m.filter)
	case k.Search:
		m.startInput(modeSearch, m.query, "Search")
		m.status = "Search: type to filter, Enter to keep, Esc to clear"
	case k.Sort:
		m.sortMode = m.sortMode.Next()
		m.refresh()
		m.status = "Sort: " + string(m.sortMode)
	case k.ClearCompleted:
		if !m.engine.HasCompleted() {
			m.status = "No completed tasks"
			return m, nil
		}
		m.mode = modeConfirmClear
		m.status = "Clear all completed tasks? y/n"
	case k.Theme:
		m.status = "Theme: " + m.prefs.Cycle().String()
	}
	return m, nil
}

func (m Model) move(up bool) (tea.Model, tea.Cmd) {
	if m.sortMode != view.SortManual {
		m.status = "Switch to manual sort to reorder"
		return m, nil
	}
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	target := m.cursor + 1
	if up {
		target = m.cursor - 1
	}
	if target < 0 || target >= len(m.visible) {
		return m, nil
	}
	if m.engine.Move(t.ID, m.visible[target].ID) {
		m.refresh()
		m.focusOn(t.ID)
		m.status = "Moved task"
	}
	return m, nil
}

func (m *Model) startInput(md mode, value, placeholder string) {
	m.mode = md
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) endInput() {
	m.input.SetValue("")
	m.input.Blur()
	m.mode = modeList
	m.pending = ""
}

func (m Model) updateInputMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		if m.mode == modeSearch {
			m.query = ""
			m.refresh()
		}
		m.endInput()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		return m.commitInput()
	case "tab":
		if m.mode == modeAdd {
			m.priority = nextPriority(m.priority)
			m.status = "Priority: " + m.priority.Label()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.query = m.input.Value()
		m.refresh()
	}
	return m, cmd
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	switch m.mode {
	case modeAdd:
		id, ok := m.engine.Add(value, m.priority, nil)
		if !ok {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.endInput()
		m.refresh()
		m.focusOn(id)
		m.status = "Added task"
	case modeRename:
		id := m.pending
		if !m.engine.EditText(id, value) {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.endInput()
		m.refresh()
		m.focusOn(id)
		m.status = "Renamed task"
	case modeDue:
		id := m.pending
		if !m.engine.SetDueDateString(id, value) {
			m.status = fmt.Sprintf("due date invalid: %q", strings.TrimSpace(value))
			return m, nil
		}
		m.endInput()
		m.refresh()
		m.focusOn(id)
		m.status = "Due date saved"
	case modeSearch:
		m.query = value
		m.endInput()
		m.refresh()
		m.status = fmt.Sprintf("%d matching", len(m.visible))
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.engine.Delete(m.pending) {
			m.status = "Deleted task"
		} else {
			m.status = "Nothing to delete"
		}
		m.refresh()
	default:
		return m, nil
	}
	m.mode = modeList
	m.pending = ""
	return m, nil
}

func (m Model) updateClearConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Clear cancelled"
	case "y", "Y":
		n := m.engine.ClearCompleted()
		m.refresh()
		m.status = fmt.Sprintf("Cleared %d completed %s", n, plural(n, "task", "tasks"))
	default:
		return m, nil
	}
	m.mode = modeList
	return m, nil
}

func (m Model) View() string {
	p := paletteFor(m.prefs.Get())
	var b strings.Builder

	b.WriteString(p.title.Render("TACHYON TODO"))
	b.WriteString(p.muted.Render("  theme:" + m.prefs.Get().String()))
	b.WriteString("\n\n")
	b.WriteString(m.renderStats(p))
	b.WriteString("\n\n")

	if m.engine.Len() == 0 {
		b.WriteString(p.muted.Render(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)))
		b.WriteString("\n")
	} else if len(m.visible) == 0 {
		b.WriteString(p.muted.Render("No tasks match."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(p))
	}

	b.WriteString("\n")
	b.WriteString(p.muted.Render(m.renderViewLine()))
	b.WriteString("\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(fmt.Sprintf("Add Task [%s]: ", m.priority.Label()))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeRename:
		b.WriteString("Rename: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeDue:
		b.WriteString("Due: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case modeSearch:
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(p.muted.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderStats(p palette) string {
	s := view.ComputeStats(m.engine.Tasks())
	return fmt.Sprintf("TOTAL %d   DONE %s   ACTIVE %s   RATE %d%%",
		s.Total,
		p.accent.Render(fmt.Sprint(s.Completed)),
		p.danger.Render(fmt.Sprint(s.Active)),
		s.CompletionRate)
}

func (m Model) renderViewLine() string {
	line := "filter:" + string(m.filter) + " • sort:" + string(m.sortMode)
	if m.query != "" {
		line += fmt.Sprintf(" • search:%q", m.query)
	}
	return line
}

func (m Model) renderTaskList(p palette) string {
	now := m.now()
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		text := t.Text
		if t.Completed {
			text = p.done.Render(text)
		}
		body := fmt.Sprintf("%s %s %s %s", cursor, checkbox, p.badge(t.Priority), text)
		if t.DueDate != nil {
			due := fmt.Sprintf("due %s (%s)", t.DueDate.String(), relativeDay(*t.DueDate, now))
			if t.Overdue(now) {
				due = p.danger.Render("OVERDUE " + due)
			} else {
				due = p.muted.Render(due)
			}
			body += "  " + due
		}
		if m.cursor == i && m.mode == modeList {
			body = p.selected.Render(body)
		}

		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s rename • %s due • %s/%s priority • %s/%s shift due • %s/%s reorder • %s filter • %s search • %s sort • %s clear done • %s theme • %s quit",
		k.Up, k.Down, k.Add, keyLabel(k.Toggle), k.Delete, k.Rename, k.Due, k.PriorityUp, k.PriorityDown,
		k.DueBack, k.DueForward, k.MoveUp, k.MoveDown, k.Filter, k.Search, k.Sort, k.ClearCompleted, k.Theme, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// relativeDay describes d relative to the local calendar day of now.
func relativeDay(d task.Date, now time.Time) string {
	today := task.Today(now)
	switch d {
	case today:
		return "today"
	case today.AddDays(1):
		return "tomorrow"
	case today.AddDays(-1):
		return "yesterday"
	}
	return humanize.RelTime(d.In(time.Local), today.In(time.Local), "ago", "from now")
}

func nextPriority(p task.Priority) task.Priority {
	all := task.Priorities()
	for i, x := range all {
		if x == p {
			return all[(i+1)%len(all)]
		}
	}
	return task.PriorityMedium
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
