package pps

import (
	"testing"
	"time"
)

func TestMonitor_NoPulseYet(t *testing.T) {
	var m Monitor
	if _, ok := m.LastPulse(); ok {
		t.Fatalf("LastPulse() ok = true before any pulse")
	}
	if m.Pulses() != 0 {
		t.Fatalf("Pulses() = %d, want 0", m.Pulses())
	}
}

func TestMonitor_MarkPulse(t *testing.T) {
	var m Monitor
	t0 := time.Date(2024, 1, 6, 5, 12, 0, 0, time.UTC)
	m.markPulse(t0)
	m.markPulse(t0.Add(time.Second))

	got, ok := m.LastPulse()
	if !ok {
		t.Fatalf("LastPulse() ok = false after pulses")
	}
	if !got.Equal(t0.Add(time.Second)) {
		t.Fatalf("LastPulse() = %v, want %v", got, t0.Add(time.Second))
	}
	if m.Pulses() != 2 {
		t.Fatalf("Pulses() = %d, want 2", m.Pulses())
	}
}

func TestMonitor_CloseNilSafe(t *testing.T) {
	var m *Monitor
	if err := m.Close(); err != nil {
		t.Fatalf("Close() on nil error: %v", err)
	}
	if err := (&Monitor{}).Close(); err != nil {
		t.Fatalf("Close() without line error: %v", err)
	}
}
