package debug

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	logFile *os.File
	checked bool
)

// resolve opens the log file named by GRIDBUILDER_DEBUG once.
// Caller must hold mu.
func resolve() *os.File {
	if checked {
		return logFile
	}
	checked = true

	path := os.Getenv("GRIDBUILDER_DEBUG")
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	logFile = f
	return logFile
}

// Log writes a timestamped message to the debug log. No-op unless the
// GRIDBUILDER_DEBUG environment variable names a writable file path.
func Log(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	f := resolve()
	if f == nil {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(f, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Close closes the debug log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	checked = false
	return err
}
