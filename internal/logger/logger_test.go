package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	for _, asJSON := range []bool{true, false} {
		log, err := New("debug", asJSON)
		if err != nil {
			t.Fatalf("New(debug, %v): %v", asJSON, err)
		}
		if !log.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("debug level not enabled")
		}
	}

	log, err := New("warn", true)
	if err != nil {
		t.Fatalf("New(warn): %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info enabled at warn level")
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
