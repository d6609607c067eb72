package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the log level, format and sinks.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Empty means info.
	Level string
	// JSON writes machine-readable lines to the console instead of the
	// colored console format.
	JSON bool
	// File, when set, is appended to in JSON.
	File string
	// Writers receive every event in JSON, e.g. the OpenSearch sink.
	Writers []io.Writer

	Service     string
	Version     string
	Environment string

	// Console defaults to os.Stdout.
	Console io.Writer
}

// Logger bundles the configured zerolog.Logger with the resources it holds
// open.
type Logger struct {
	zerolog.Logger
	closers []io.Closer
}

// New builds a zerolog logger from cfg. The returned Logger must be closed to
// release the log file.
func New(cfg Config) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}
	if !cfg.JSON {
		console = zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime}
	}

	writers := []io.Writer{console}
	var closers []io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		writers = append(writers, f)
		closers = append(closers, f)
	}
	writers = append(writers, cfg.Writers...)

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	if cfg.Environment != "" {
		ctx = ctx.Str("environment", cfg.Environment)
	}

	return &Logger{Logger: ctx.Logger(), closers: closers}, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.closers = nil
	return firstErr
}
