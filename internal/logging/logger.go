package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// runID tags every line emitted during one pipeline run
	runID string
)

// Init initializes the logging system. Output goes to stderr so generated
// artifacts stay separate from diagnostics.
func Init() {
	runID = uuid.NewString()[:8]

	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.InfoLevel,
	}).With("run", runID)

	if os.Getenv("NEWSREEL_DEBUG") != "" {
		Logger.SetLevel(log.DebugLevel)
	}
}

// RunID returns the identifier for the current run.
func RunID() string {
	return runID
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs an error message and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	} else {
		os.Exit(1)
	}
}

// WithPrefix returns a logger with a prefix
func WithPrefix(prefix string) *log.Logger {
	if Logger != nil {
		return Logger.WithPrefix(prefix)
	}
	return nil
}
