package paniclogger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestInit(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "logs")

	if err := Init(logsDir); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	defer Close()

	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Errorf("logs directory was not created")
	}
	if err := Init(""); err == nil {
		t.Errorf("expected error for empty directory")
	}
}

func TestLogPanic(t *testing.T) {
	logsDir := t.TempDir()
	if err := Init(logsDir); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	LogPanic("contact add", "index out of range", "goroutine 1 [running]")
	if err := Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(logsDir, panicLogFile))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	logContent := string(content)

	for _, want := range []string{"PANIC DETECTED", "contact add", "index out of range", "goroutine 1 [running]"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("Log file does not contain %q", want)
		}
	}
}

func TestLogPanicWithoutInit(t *testing.T) {
	_ = Close()

	var buf bytes.Buffer
	original := stderr
	stderr = &buf
	defer func() { stderr = original }()

	LogPanic("test", "error", "stack")

	if !strings.Contains(buf.String(), "PANIC DETECTED") {
		t.Errorf("expected panic entry on stderr, got %q", buf.String())
	}
}

func TestConcurrentLogPanic(t *testing.T) {
	logsDir := t.TempDir()
	if err := Init(logsDir); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	numGoroutines := 10
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			LogPanic("concurrent test", "test error", "stack trace")
		}()
	}
	wg.Wait()
	if err := Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(logsDir, panicLogFile))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if count := strings.Count(string(content), "PANIC DETECTED"); count != numGoroutines {
		t.Errorf("Expected %d panic entries, got %d", numGoroutines, count)
	}
}
