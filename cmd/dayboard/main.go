package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/hqnguyen/dayboard/internal/app"
	"github.com/hqnguyen/dayboard/internal/model"
	"github.com/hqnguyen/dayboard/internal/session"
	"github.com/hqnguyen/dayboard/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dayboard:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := model.DefaultConfigPath()
	if p := os.Getenv("DAYBOARD_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	logger, closeLog, err := openLogger(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer closeLog()

	sess := session.New(s, cfg.User, logger)
	sess.SetRetention(time.Duration(cfg.RetentionDays) * 24 * time.Hour)

	p := tea.NewProgram(app.New(sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// openLogger writes structured logs next to the database file. The
// terminal is owned by the TUI, so stderr is not an option.
func openLogger(dbPath string) (*log.Logger, func(), error) {
	logPath := filepath.Join(filepath.Dir(dbPath), "dayboard.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return logger, func() { f.Close() }, nil
}
