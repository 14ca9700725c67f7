// Package logging holds the process-wide structured logger. Reports go to
// stdout; diagnostics go through this logger to stderr so output stays
// pipeable. Setting CLAIMGRAPH_LOG_FILE=1 sends diagnostics to a dated
// file under ~/.claimgraph/logs instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Level:           log.InfoLevel,
})

// logFile is the file handle for the file sink, nil when logging to stderr
var logFile *os.File

// Init sets the log level. Verbose enables debug output. When
// CLAIMGRAPH_LOG_FILE=1 output moves to a per-day file under
// ~/.claimgraph/logs; if the file cannot be opened, stderr stays in place.
func Init(verbose bool) {
	if verbose {
		Logger.SetLevel(log.DebugLevel)
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
	if os.Getenv("CLAIMGRAPH_LOG_FILE") == "1" && logFile == nil {
		if f, err := openLogFile(); err == nil {
			logFile = f
			Logger.SetOutput(f)
			Logger.SetTimeFormat(time.RFC3339)
		}
	}
}

func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".claimgraph", "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("claimgraph-%s.log", time.Now().Format("2006-01-02"))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// Close releases the file sink if one was opened.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// SetOutput redirects log output, used by tests.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs an error message and exits
func Fatal(msg string, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

// WithPrefix returns a logger with a prefix
func WithPrefix(prefix string) *log.Logger {
	return Logger.WithPrefix(prefix)
}
