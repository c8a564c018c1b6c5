package log

import "testing"

func TestLevelGating(t *testing.T) {
	defer SetLevel(LevelError)

	SetLevel(LevelError)
	if enabled(LevelDebug) {
		t.Fatal("debug should not be enabled at error level")
	}
	if !enabled(LevelError) {
		t.Fatal("error should be enabled at error level")
	}

	SetLevel(LevelDebug)
	if !enabled(LevelDebug) {
		t.Fatal("debug should be enabled at debug level")
	}
}

func TestDebugErrorDoNotPanic(t *testing.T) {
	SetLevel(LevelDebug)
	defer SetLevel(LevelError)
	Debug("collect failed for %s: %v", "gpu-0", "boom")
	Error("handler panicked: %v", "boom")
}
