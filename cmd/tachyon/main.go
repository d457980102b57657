package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"tachyon/internal/config"
	"tachyon/internal/storage"
	"tachyon/internal/theme"
	"tachyon/internal/todo"
	"tachyon/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, dbPath string
	cmd := &cobra.Command{
		Use:           "tachyon",
		Short:         "Terminal task list with priorities, due dates and themes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.ResolveConfigPath()
			}
			cfg, err := config.LoadOrCreate(configPath)
			if err != nil {
				fmt.Printf("failed to load config: %v\n", err)
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			return run(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $TACHYON_CONFIG or user config dir)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides db_path)")
	return cmd
}

func run(cfg config.Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		fmt.Printf("failed to create log dir: %v\n", err)
		return err
	}
	logFile, err := tea.LogToFile(cfg.LogPath, "tachyon")
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		return err
	}
	defer logFile.Close()

	kv, err := openBackend(cfg)
	if err != nil {
		fmt.Printf("failed to open storage: %v\n", err)
		return err
	}
	defer kv.Close()

	store := storage.New(kv, storage.WithLogger(log.Default()))
	engine := todo.New(store)
	prefs := theme.NewPreference(store)
	log.Printf("loaded %d tasks from %s backend", engine.Len(), cfg.Backend)

	if err := ui.Run(engine, prefs, cfg); err != nil {
		fmt.Printf("error running program: %v\n", err)
		return err
	}
	return nil
}

func openBackend(cfg config.Config) (storage.KV, error) {
	if cfg.Backend == config.BackendFile {
		return storage.NewFileKV(afero.NewOsFs(), cfg.DataDir)
	}
	return storage.OpenSQLite(cfg.DBPath)
}
