// Package paniclogger provides panic logging functionality to a local file.
// Panic events are always written to <logs>/panic.log, regardless of the
// configured log level.
package paniclogger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	panicLogFile  = "panic.log"
	maxFileSizeMB = 50
)

var (
	logFile  *lumberjack.Logger
	fileLock sync.Mutex
	stderr   io.Writer = os.Stderr
)

// Init opens the panic log in logDir. Should be called at application
// startup; calling it again switches to the new directory.
func Init(logDir string) error {
	if logDir == "" {
		return fmt.Errorf("panic log directory cannot be empty")
	}
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileLock.Lock()
	defer fileLock.Unlock()

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, panicLogFile),
		MaxSize:    maxFileSizeMB,
		MaxBackups: 1,
	}
	return nil
}

// LogPanic logs a panic event to the panic.log file
func LogPanic(context string, panicError any, stackTrace string) {
	fileLock.Lock()
	defer fileLock.Unlock()

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	entry := fmt.Sprintf(
		"\n================================================================================\n"+
			"PANIC DETECTED\n"+
			"================================================================================\n"+
			"Timestamp: %s\n"+
			"Context:   %s\n"+
			"Error:     %v\n"+
			"\nStack Trace:\n%s\n"+
			"================================================================================\n\n",
		timestamp, context, panicError, stackTrace,
	)

	// Init hasn't been called or failed: fall back to stderr
	if logFile == nil {
		_, _ = fmt.Fprint(stderr, "[PANIC] panic.log is not available, logging to stderr instead\n", entry)
		return
	}
	if _, err := logFile.Write([]byte(entry)); err != nil {
		_, _ = fmt.Fprintf(stderr, "Failed to write panic log: %v\n%s", err, entry)
	}
}

// Close closes the panic log file. Should be called during application shutdown.
func Close() error {
	fileLock.Lock()
	defer fileLock.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}
