package logging

import (
	"testing"

	"github.com/go-logr/logr"
)

func TestNewFallsBackToDefault(t *testing.T) {
	l := New(logr.Logger{})
	if l.Logr().GetSink() == nil {
		t.Fatalf("expected default sink")
	}
}

func TestNewWithLevel(t *testing.T) {
	debug, err := NewWithLevel("debug")
	if err != nil {
		t.Fatalf("debug level: %v", err)
	}
	if !debug.V(1).Enabled() {
		t.Fatalf("expected V(1) enabled at debug level")
	}

	info, err := NewWithLevel("")
	if err != nil {
		t.Fatalf("default level: %v", err)
	}
	if info.V(1).Enabled() {
		t.Fatalf("expected V(1) disabled at info level")
	}

	if _, err := NewWithLevel("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
