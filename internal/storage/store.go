package storage

import (
	"encoding/json"
	"errors"
	"log"

	"tachyon/internal/task"
	"tachyon/internal/theme"
)

// Record keys.
const (
	TasksKey = "tachyon-todos"
	ThemeKey = "tachyon-theme"
)

// Store loads and saves the task list and theme on top of a KV backend.
// It never reports failures to its caller: unreadable data degrades to an
// empty list or the default theme, and failed writes are logged.
type Store struct {
	kv     KV
	ids    task.IDGenerator
	logger *log.Logger
}

type Option func(*Store)

// WithIDGenerator sets the generator used to repair missing ids on load.
func WithIDGenerator(ids task.IDGenerator) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		ids:    task.NewIDGenerator(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) LoadTasks() []task.Task {
	raw, err := s.kv.Get(TasksKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Printf("load tasks: %v", err)
		}
		return []task.Task{}
	}
	tasks, err := decodeTasks([]byte(raw), s.ids)
	if err != nil {
		s.logger.Printf("load tasks: discarding unreadable data: %v", err)
		return []task.Task{}
	}
	return tasks
}

func (s *Store) SaveTasks(tasks []task.Task) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		s.logger.Printf("save tasks: encode: %v", err)
		return
	}
	if err := s.kv.Set(TasksKey, string(data)); err != nil {
		s.logger.Printf("save tasks: %v", err)
	}
}

func (s *Store) LoadTheme() theme.Theme {
	raw, err := s.kv.Get(ThemeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Printf("load theme: %v", err)
		}
		return theme.Default
	}
	t, _ := theme.Parse(raw)
	return t
}

func (s *Store) SaveTheme(t theme.Theme) {
	if err := s.kv.Set(ThemeKey, t.String()); err != nil {
		s.logger.Printf("save theme: %v", err)
	}
}
