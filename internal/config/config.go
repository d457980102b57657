package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"tachyon/internal/task"
	"tachyon/internal/view"
)

const (
	AppName               = "tachyon"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tachyon.db"
	DefaultLogName        = "tachyon.log"

	BackendSQLite = "sqlite"
	BackendFile   = "file"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "TACHYON_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Rename         string `toml:"rename"`
	Due            string `toml:"due"`
	PriorityUp     string `toml:"priority_up"`
	PriorityDown   string `toml:"priority_down"`
	DueForward     string `toml:"due_forward"`
	DueBack        string `toml:"due_back"`
	MoveUp         string `toml:"move_up"`
	MoveDown       string `toml:"move_down"`
	Filter         string `toml:"filter"`
	Search         string `toml:"search"`
	ClearCompleted string `toml:"clear_completed"`
	Theme          string `toml:"theme"`
	Sort           string `toml:"sort"`
}

type Config struct {
	Backend         string `toml:"backend"`
	DBPath          string `toml:"db_path"`
	DataDir         string `toml:"data_dir"`
	LogPath         string `toml:"log_path"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultPriority string `toml:"default_priority"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath returns $TACHYON_CONFIG when set, otherwise
// <user config dir>/tachyon/config.toml, falling back to the working
// directory when no user config dir is known.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(baseDir(), DefaultConfigFileName)
}

func baseDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "."
	}
	return filepath.Join(dir, AppName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) normalize(dir string) {
	def := defaultConfig(dir)
	switch c.Backend {
	case BackendSQLite, BackendFile:
	default:
		c.Backend = def.Backend
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if _, ok := view.ParseFilter(c.DefaultFilter); !ok {
		c.DefaultFilter = def.DefaultFilter
	}
	if _, ok := task.ParsePriority(c.DefaultPriority); !ok {
		c.DefaultPriority = def.DefaultPriority
	}
}

// Filter is the filter the list starts with.
func (c Config) Filter() view.Filter {
	f, _ := view.ParseFilter(c.DefaultFilter)
	return f
}

func (c Config) Priority() task.Priority {
	p, ok := task.ParsePriority(c.DefaultPriority)
	if !ok {
		return task.PriorityMedium
	}
	return p
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		Backend:         BackendSQLite,
		DBPath:          filepath.Join(dir, DefaultDBName),
		DataDir:         filepath.Join(dir, "data"),
		LogPath:         filepath.Join(dir, DefaultLogName),
		DefaultFilter:   string(view.FilterAll),
		DefaultPriority: string(task.PriorityMedium),
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Rename:         "r",
			Due:            "D",
			PriorityUp:     "+",
			PriorityDown:   "-",
			DueForward:     "]",
			DueBack:        "[",
			MoveUp:         "K",
			MoveDown:       "J",
			Filter:         "f",
			Search:         "/",
			ClearCompleted: "C",
			Theme:          "t",
			Sort:           "s",
		},
	}
}
