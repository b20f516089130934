package logger

import "testing"

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", "api"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewAcceptsMixedCaseLevel(t *testing.T) {
	log, err := New(" WARN ", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.Core().Enabled(-1) {
		t.Fatalf("debug should be disabled at warn level")
	}
}
