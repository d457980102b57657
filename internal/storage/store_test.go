package storage

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tachyon/internal/task"
	"tachyon/internal/theme"
)

type memKV struct {
	data   map[string]string
	setErr error
	getErr error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Close() error { return nil }

func seqIDs() task.IDGenerator {
	n := 0
	return task.IDFunc(func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	})
}

func newTestStore(kv KV) (*Store, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(kv, WithIDGenerator(seqIDs()), WithLogger(log.New(&buf, "", 0))), &buf
}

func date(t *testing.T, s string) *task.Date {
	t.Helper()
	d, err := task.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestLoadTasksMissing(t *testing.T) {
	s, logs := newTestStore(newMemKV())
	tasks := s.LoadTasks()
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Empty(t, logs.String())
}

func TestLoadTasksCorrupt(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"a"}`, `"text"`, `null`, ``} {
		kv := newMemKV()
		kv.data[TasksKey] = raw
		s, logs := newTestStore(kv)
		tasks := s.LoadTasks()
		assert.NotNil(t, tasks, raw)
		assert.Empty(t, tasks, raw)
		assert.Contains(t, logs.String(), "load tasks", raw)
	}
}

func TestLoadTasksReadError(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk on fire")
	s, logs := newTestStore(kv)
	assert.Empty(t, s.LoadTasks())
	assert.Contains(t, logs.String(), "disk on fire")
}

func TestLoadTasksSanitizes(t *testing.T) {
	kv := newMemKV()
	kv.data[TasksKey] = `[
		{"id":"a","text":"keep","completed":true,"priority":"high","dueDate":"2025-01-02"},
		{"text":"no id","priority":"urgent"},
		{"id":42,"text":7,"completed":1,"priority":"low"},
		{"id":"","text":null,"completed":"yes","dueDate":"soon"},
		{"id":"a","text":"duplicate","completed":0},
		5,
		null
	]`
	s, _ := newTestStore(kv)
	got := s.LoadTasks()

	want := []task.Task{
		{ID: "a", Text: "keep", Completed: true, Priority: task.PriorityHigh, DueDate: date(t, "2025-01-02")},
		{ID: "gen-1", Text: "no id", Priority: task.PriorityMedium},
		{ID: "42", Text: "7", Completed: true, Priority: task.PriorityLow},
		{ID: "gen-2", Text: "", Completed: true, Priority: task.PriorityMedium},
		{ID: "gen-3", Text: "duplicate", Priority: task.PriorityMedium},
		{ID: "gen-4", Priority: task.PriorityMedium},
		{ID: "gen-5", Priority: task.PriorityMedium},
	}
	assert.Equal(t, want, got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(newMemKV())
	in := []task.Task{
		{ID: "1", Text: "Buy milk", Priority: task.PriorityMedium},
		{ID: "2", Text: "Ship release", Completed: true, Priority: task.PriorityHigh, DueDate: date(t, "2024-12-31")},
		{ID: "3", Text: "  spaced  ", Priority: task.PriorityLow},
	}
	s.SaveTasks(in)
	assert.Equal(t, in, s.LoadTasks())

	s.SaveTasks(nil)
	got := s.LoadTasks()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSaveTasksFailureIsLogged(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("quota exceeded")
	s, logs := newTestStore(kv)

	assert.NotPanics(t, func() {
		s.SaveTasks([]task.Task{{ID: "1", Text: "x", Priority: task.PriorityLow}})
	})
	assert.Contains(t, logs.String(), "save tasks: quota exceeded")
}

func TestTheme(t *testing.T) {
	kv := newMemKV()
	s, _ := newTestStore(kv)
	assert.Equal(t, theme.Dark, s.LoadTheme())

	s.SaveTheme(theme.Tachyon)
	assert.Equal(t, "tachyon", kv.data[ThemeKey])
	assert.Equal(t, theme.Tachyon, s.LoadTheme())

	kv.data[ThemeKey] = "neon"
	assert.Equal(t, theme.Dark, s.LoadTheme())
}

func TestSaveThemeFailureIsLogged(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("storage unavailable")
	s, logs := newTestStore(kv)
	s.SaveTheme(theme.Light)
	assert.Contains(t, logs.String(), "save theme: storage unavailable")
}

func TestFileKV(t *testing.T) {
	fs := afero.NewMemMapFs()
	kv, err := NewFileKV(fs, "/data")
	require.NoError(t, err)

	_, err = kv.Get(TasksKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(TasksKey, "[]"))
	require.NoError(t, kv.Set(TasksKey, `[{"id":"1"}]`))
	v, err := kv.Get(TasksKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, v)

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, TasksKey, entries[0].Name())

	assert.Error(t, kv.Set("../escape", "x"))
	_, err = kv.Get("a/b")
	assert.Error(t, err)
}

func TestFileKVReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/data", 0o755))
	kv, err := NewFileKV(afero.NewReadOnlyFs(base), "/data")
	require.NoError(t, err)
	assert.Error(t, kv.Set(ThemeKey, "light"))

	s, logs := newTestStore(kv)
	s.SaveTheme(theme.Light)
	s.SaveTasks([]task.Task{{ID: "1", Text: "x", Priority: task.PriorityHigh}})
	assert.Contains(t, logs.String(), "save theme")
	assert.Contains(t, logs.String(), "save tasks")
	assert.Equal(t, theme.Dark, s.LoadTheme())
}

func TestStoreOverFileKV(t *testing.T) {
	kv, err := NewFileKV(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	s, _ := newTestStore(kv)

	in := []task.Task{{ID: "x", Text: "file backed", Priority: task.PriorityLow, DueDate: date(t, "2030-06-01")}}
	s.SaveTasks(in)
	assert.Equal(t, in, s.LoadTasks())
}

func TestSQLiteKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tachyon.db")
	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get(ThemeKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ThemeKey, "light"))
	require.NoError(t, kv.Set(ThemeKey, "tachyon"))
	v, err := kv.Get(ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, "tachyon", v)

	s, _ := newTestStore(kv)
	in := []task.Task{
		{ID: "a", Text: "first", Priority: task.PriorityHigh},
		{ID: "b", Text: "second", Completed: true, Priority: task.PriorityLow, DueDate: date(t, "2025-02-03")},
	}
	s.SaveTasks(in)
	assert.Equal(t, in, s.LoadTasks())
}

func TestSQLiteKVPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tachyon.db")
	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	New(kv).SaveTheme(theme.Light)
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()
	assert.Equal(t, theme.Light, New(kv).LoadTheme())
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	assert.Error(t, err)
}

func TestLoadTasksDropsMalformedDueDate(t *testing.T) {
	kv := newMemKV()
	kv.data[TasksKey] = `[{"id":"a","text":"x","dueDate":"2025-01-02T10:00:00Z"}]`
	s, _ := newTestStore(kv)
	got := s.LoadTasks()
	require.Len(t, got, 1)
	assert.Nil(t, got[0].DueDate)
}
