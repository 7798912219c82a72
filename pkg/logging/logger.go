package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the label written into each entry.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", s)
	}
}

// Logger writes timestamped, component-tagged entries to an append-only log
// file and mirrors them to a console writer.
//
// The file receives entries at or above the file level, which defaults to
// debug. The console only receives entries at or above the console level.
type Logger struct {
	component string
	sink      *sink
}

// sink is shared by a Logger and every logger derived from it with Component.
type sink struct {
	mu           sync.Mutex
	file         *os.File
	fileLog      *log.Logger
	fileLevel    Level
	console      io.Writer
	consoleLevel Level
	logPath      string
	closeOnce    sync.Once
}

// Options configures New.
type Options struct {
	// Path is the log file, opened in append mode. Empty disables the file.
	Path string

	// Component tags every entry written by the returned logger
	Component string

	// Level is the minimum level written to the file
	Level Level

	// Console receives a copy of entries at or above ConsoleLevel; nil disables it
	Console io.Writer

	// ConsoleLevel is the minimum level mirrored to Console
	ConsoleLevel Level
}

var (
	// Global run ID for the current process
	runID     string
	runIDOnce sync.Once
)

// RunID returns or creates the run ID for this execution.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// New creates a logger for opts.Component.
//
// If the log file cannot be opened, it returns a fallback logger that writes
// to stderr along with the error. Callers can check the error to detect
// fallback mode and carry on.
func New(opts Options) (*Logger, error) {
	s := &sink{
		fileLevel:    opts.Level,
		console:      opts.Console,
		consoleLevel: opts.ConsoleLevel,
	}

	if opts.Path != "" {
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return newFallbackLogger(opts, fmt.Errorf("failed to create log directory: %w", err)), err
			}
		}

		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			err = fmt.Errorf("failed to open log file: %w", err)
			return newFallbackLogger(opts, err), err
		}
		s.file = file
		s.fileLog = log.New(file, "", 0) // timestamps are formatted per entry
		s.logPath = opts.Path
	}

	return &Logger{component: opts.Component, sink: s}, nil
}

// NewWriterLogger creates a logger that writes every entry to w.
func NewWriterLogger(w io.Writer, component string) *Logger {
	return &Logger{
		component: component,
		sink: &sink{
			fileLog: log.New(w, "", 0),
		},
	}
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(opts Options, err error) *Logger {
	fallback := log.New(os.Stderr, "", 0)
	l := &Logger{
		component: opts.Component,
		sink: &sink{
			fileLog:      fallback,
			consoleLevel: opts.ConsoleLevel,
		},
	}
	l.Warnf("Failed to initialize file logging: %v", err)
	l.Warnf("Falling back to stderr logging")
	return l
}

// Component returns a logger sharing this logger's outputs under a new tag.
func (l *Logger) Component(name string) *Logger {
	return &Logger{component: name, sink: l.sink}
}

// formatLogEntry creates a structured log entry with timestamp, component, and level
func (l *Logger) formatLogEntry(level Level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	entry := l.formatLogEntry(level, fmt.Sprintf(format, v...))

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.fileLog != nil && level >= l.sink.fileLevel {
		l.sink.fileLog.Println(entry)
	}
	if l.sink.console != nil && level >= l.sink.consoleLevel {
		fmt.Fprintln(l.sink.console, entry)
	}
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// Banner writes a separator-framed headline at info level.
func (l *Logger) Banner(message string) {
	rule := strings.Repeat("=", 60)
	l.Infof("%s", rule)
	l.Infof("%s", message)
	l.Infof("%s", rule)
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	return l.sink.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.sink.closeOnce.Do(func() {
		if l.sink.file != nil {
			err = l.sink.file.Close()
		}
	})
	return err
}
