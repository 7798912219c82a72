package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "automation.log")

	logger, err := New(Options{Path: logPath, Component: "test-component"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}

	if logger.LogPath() != logPath {
		t.Errorf("Expected log path %q, got %q", logPath, logger.LogPath())
	}

	// Verify log file exists
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logPath)
	}
}

func TestLoggerFormatting(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "automation.log")

	logger, err := New(Options{Path: logPath, Component: "test"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Debugf("Debug message")
	logger.Infof("Info message %d", 123)
	logger.Warnf("Warning message")
	logger.Errorf("Error message")
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	expectedPatterns := []string{
		"[test] [DEBUG] Debug message",
		"[test] [INFO] Info message 123",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
	}

	for _, pattern := range expectedPatterns {
		if !strings.Contains(logContent, pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, logContent)
		}
	}
}

func TestLoggerAppends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "automation.log")

	for _, msg := range []string{"first run", "second run"} {
		logger, err := New(Options{Path: logPath, Component: "run"})
		if err != nil {
			t.Fatalf("Failed to create logger: %v", err)
		}
		logger.Infof("%s", msg)
		logger.Close()
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines after two runs, got %d:\n%s", len(lines), content)
	}
	if !strings.Contains(lines[0], "first run") || !strings.Contains(lines[1], "second run") {
		t.Errorf("Entries out of order:\n%s", content)
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "automation.log")
	var console bytes.Buffer

	logger, err := New(Options{
		Path:         logPath,
		Component:    "actuator",
		Console:      &console,
		ConsoleLevel: LevelInfo,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Debugf("strategy detail")
	logger.Infof("action done")
	logger.Close()

	if strings.Contains(console.String(), "strategy detail") {
		t.Error("Debug entry should not reach the console at info level")
	}
	if !strings.Contains(console.String(), "[actuator] [INFO] action done") {
		t.Errorf("Console missing info entry:\n%s", console.String())
	}

	content, _ := os.ReadFile(logPath)
	if !strings.Contains(string(content), "strategy detail") {
		t.Error("File should receive every level")
	}
}

func TestFileLevelFilter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "automation.log")

	logger, err := New(Options{Path: logPath, Component: "workflow", Level: LevelWarn})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infof("step started")
	logger.Warnf("strategy missed")
	logger.Close()

	content, _ := os.ReadFile(logPath)
	if strings.Contains(string(content), "step started") {
		t.Error("Info entry should not reach the file at warn level")
	}
	if !strings.Contains(string(content), "[workflow] [WARN] strategy missed") {
		t.Errorf("File missing warn entry:\n%s", content)
	}
}

func TestComponentSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriterLogger(&buf, "main")

	root.Infof("from main")
	root.Component("workflow").Infof("from workflow")

	out := buf.String()
	if !strings.Contains(out, "[main] [INFO] from main") {
		t.Error("Log missing main entries")
	}
	if !strings.Contains(out, "[workflow] [INFO] from workflow") {
		t.Error("Log missing workflow entries")
	}
}

func TestFallbackLogger(t *testing.T) {
	dir := t.TempDir()
	// a file where the parent directory should be
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}

	logger, err := New(Options{Path: filepath.Join(blocker, "automation.log"), Component: "test"})
	if err == nil {
		t.Fatal("Expected an error for an unusable log path")
	}
	if logger == nil {
		t.Fatal("Expected a fallback logger")
	}
	if logger.LogPath() != "" {
		t.Errorf("Fallback logger should have no log path, got %q", logger.LogPath())
	}
}

func TestRunID(t *testing.T) {
	id1 := RunID()
	id2 := RunID()

	if id1 != id2 {
		t.Errorf("Expected consistent run ID, got %q and %q", id1, id2)
	}

	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("Expected a UUID run ID, got %q", id1)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseLevel("trace"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestLoggerClose(t *testing.T) {
	logger, err := New(Options{Path: filepath.Join(t.TempDir(), "automation.log"), Component: "test"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}
