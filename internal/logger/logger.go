package logger

import (
	"fmt"
	"os"
	"slices"
	"sync"
)

// Log levels accepted by the log.level setting.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var levels = []string{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}

var (
	globalLogger *Logger
	once         sync.Once
)

// CheckLevel rejects level strings Get would silently map to info.
func CheckLevel(level string) error {
	if !slices.Contains(levels, level) {
		return fmt.Errorf("unknown log level %q (want one of %v)", level, levels)
	}
	return nil
}

// Get returns the process-wide logger. The first call fixes the level;
// later calls return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, os.Stderr)
	})
	return globalLogger
}
