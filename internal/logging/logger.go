package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/tada/internal/config"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	base      *logrus.Logger
	closer    io.Closer
)

// Setup (re)configures the shared logger from cfg, which already carries any
// env or flag overrides. An unparsable level falls back to warn. Logs go to
// cfg.File when set and to w otherwise. Components created before Setup keep working; they
// share the same underlying logger.
func Setup(cfg config.Logging, w io.Writer) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	logger := root()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	if closer != nil {
		closer.Close()
		closer = nil
	}
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logger.SetOutput(f)
		closer = f
	}
	return nil
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}
	entry := root().WithField("component", component)
	loggers[component] = entry
	return entry
}

// Close releases the log file opened by Setup, if any, and points the
// logger back at stderr.
func Close() error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	var err error
	if closer != nil {
		err = closer.Close()
		closer = nil
	}
	if base != nil {
		base.SetOutput(os.Stderr)
	}
	return err
}

func root() *logrus.Logger {
	if base == nil {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetLevel(logrus.WarnLevel)
		base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return base
}
