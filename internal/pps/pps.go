// Package pps captures GPS pulse-per-second edges from a GPIO line.
//
// Receivers with a PPS output mark the top of each second far more precisely
// than the serial sentence stream does; the feed uses the last pulse time to
// report how stale a decoded fix is.
package pps

import (
	"io"
	"sync/atomic"
	"time"
)

type Monitor struct {
	closer   io.Closer
	lastNano atomic.Int64
	pulses   atomic.Uint64
}

func (m *Monitor) markPulse(t time.Time) {
	m.lastNano.Store(t.UnixNano())
	m.pulses.Add(1)
}

// LastPulse returns the time of the most recent pulse and whether any pulse
// has been seen yet.
func (m *Monitor) LastPulse() (time.Time, bool) {
	n := m.lastNano.Load()
	if n == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, n), true
}

// Pulses returns how many edges have been captured since Open.
func (m *Monitor) Pulses() uint64 { return m.pulses.Load() }

func (m *Monitor) Close() error {
	if m == nil || m.closer == nil {
		return nil
	}
	err := m.closer.Close()
	m.closer = nil
	return err
}
