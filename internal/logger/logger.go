// Package logger provides logging for the nerstat CLI.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr to help users follow the analysis pipeline. When a log file is
// configured, every message is also appended to a size-rotated file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFilename is the log file name inside the log directory.
const DefaultFilename = "nerstat.log"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	console           = newConsole(os.Stderr)
	file    *log.Logger
	rotator *lumberjack.Logger
)

// FileConfig configures the rotating log file.
type FileConfig struct {
	// Dir holds the log file. Empty disables file logging.
	Dir string

	// Filename defaults to DefaultFilename.
	Filename string

	// MaxSizeMB is the size at which the file rotates.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int
}

func newConsole(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: false,
	})
}

// Configure enables the rotating file sink.
// Calling Configure again replaces the previous sink.
func Configure(cfg FileConfig) error {
	if cfg.Dir == "" {
		return Close()
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	name := cfg.Filename
	if name == "" {
		name = DefaultFilename
	}

	r := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	l := log.NewWithOptions(r, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Formatter:       log.TextFormatter,
	})

	mu.Lock()
	prev := rotator
	rotator, file = r, l
	mu.Unlock()

	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close flushes and detaches the file sink.
func Close() error {
	mu.Lock()
	r := rotator
	rotator, file = nil, nil
	mu.Unlock()
	if r == nil {
		return nil
	}
	return r.Close()
}

// FilePath returns the active log file, or empty when file logging is off.
func FilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	if rotator == nil {
		return ""
	}
	return rotator.Filename
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	console = newConsole(w)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		console.Debugf(format, args...)
	}
	if file != nil {
		file.Debugf(format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
	if file != nil {
		file.Info("=== " + name + " ===")
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		console.Infof(format, args...)
	}
	if file != nil {
		file.Infof(format, args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		console.Warnf(format, args...)
	}
	if file != nil {
		file.Warnf(format, args...)
	}
}

// Error prints an error message. Errors reach the console even without
// verbose mode.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	console.Errorf(format, args...)
	if file != nil {
		file.Errorf(format, args...)
	}
}
