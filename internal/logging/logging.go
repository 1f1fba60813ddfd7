package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"pawvault/internal/config"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
)

// Manager owns app logger configuration and the optional rotating log file.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	stdout io.Writer
	file   *lumberjack.Logger
}

func NewManager() *Manager {
	m := &Manager{stdout: os.Stderr}
	m.logger = slog.New(newHandler(config.LogFormatText, m.stdout, slog.LevelInfo))

	return m
}

// Configure replaces the logger and installs it as the slog default.
func (m *Manager) Configure(cfg config.LoggingConfig, filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	if m.file != nil {
		_ = m.file.Close()
		m.file = nil
	}

	writer := m.stdout
	if cfg.LogToFile {
		cleanPath := filepath.Clean(filePath)
		if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		m.file = &lumberjack.Logger{
			Filename:   cleanPath,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
		}
		writer = newFanoutWriter(m.stdout, m.file)
	}

	m.logger = slog.New(newHandler(cfg.Format, writer, level))
	slog.SetDefault(m.logger)

	return nil
}

func (m *Manager) Logger(component string) *slog.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.logger.With("component", component)
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file != nil {
		if err := m.file.Close(); err != nil {
			return err
		}
		m.file = nil
	}

	return nil
}

func newHandler(format config.LogFormat, w io.Writer, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

func parseLevel(raw string) (slog.Leveler, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, fmt.Errorf("unsupported log level: %q", raw)
	}
}

// fanoutWriter succeeds as long as one destination accepted the write.
type fanoutWriter struct {
	writers []io.Writer
}

func newFanoutWriter(writers ...io.Writer) io.Writer {
	filtered := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			filtered = append(filtered, w)
		}
	}

	return &fanoutWriter{writers: filtered}
}

func (w *fanoutWriter) Write(p []byte) (int, error) {
	var (
		wroteAny bool
		firstErr error
	)

	for _, dst := range w.writers {
		n, err := dst.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}

			continue
		}
		wroteAny = true
	}

	if wroteAny || firstErr == nil {
		return len(p), nil
	}

	return 0, firstErr
}
