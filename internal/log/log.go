// Package log is a minimal leveled logger used throughout axonize.
//
// It deliberately does not wrap a third-party logging framework: the hot
// path (span start/finish, GPU label resolution) must never touch it, and
// the handful of call sites that do exist (background drain, GPU sampler,
// exporter) only need two levels and no structured-field machinery.
package log

import (
	"log"
	"os"
	"sync/atomic"
)

// Level controls which messages are emitted.
type Level int32

const (
	LevelError Level = iota
	LevelDebug
)

var (
	minLevel atomic.Int32
	logger   = log.New(os.Stderr, "", log.LstdFlags)
)

func init() {
	minLevel.Store(int32(LevelError))
}

// SetLevel sets the minimum level that will be printed. Callers use this to
// enable debug logging; the default is errors only so a noisy backend never
// floods stderr.
func SetLevel(l Level) {
	minLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) <= minLevel.Load()
}

// Debug logs a message at debug level. Used for transient, self-healing
// failures (a single GPU collect call failing, an export attempt timing
// out) that must never propagate to the caller.
func Debug(format string, args ...any) {
	if !enabled(LevelDebug) {
		return
	}
	logger.Printf("DEBUG: "+format, args...)
}

// Error logs a message at error level. Used for conditions worth surfacing
// even with default verbosity (a panicking processor handler).
func Error(format string, args ...any) {
	if !enabled(LevelError) {
		return
	}
	logger.Printf("ERROR: "+format, args...)
}
