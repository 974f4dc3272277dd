package monitor

import (
	"sync"
	"time"

	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/sample"
	"github.com/itohio/gotouch/pkg/touch"
)

var _ TouchMonitor = (*Monitor)(nil)

// Touch is one press of a sensor.
type Touch struct {
	Sensor int       // Sensor index
	Name   string    // Sensor name
	Start  time.Time // First touched sample
	End    time.Time // Last touched sample (updated while active)
	Peak   touch.Sample
	Active bool // Still pressed
}

// Duration returns how long the sensor has been pressed.
func (t Touch) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// TouchMonitor processes samples and tracks touches.
type TouchMonitor interface {
	ProcessSamples(input <-chan sample.Sample)
	Samples() []sample.Sample
	Latest() (sample.Sample, bool)
	Touches() []Touch
	OnUpdate(func(samples []sample.Sample, touches []Touch))
}

// Monitor implements TouchMonitor.
//
// Samples are kept for the window duration, oldest first. Touches are kept
// in start order; ended touches older than the window and ended touches
// shorter than the minimum duration are dropped.
type Monitor struct {
	mu      sync.RWMutex
	samples []sample.Sample
	touches []Touch
	active  map[int]int // sensor index -> index into touches

	callbacks []func(samples []sample.Sample, touches []Touch)
	cbMu      sync.RWMutex

	window      time.Duration
	minDuration time.Duration

	// Set when the input channel closes, prevents further callbacks
	shutdown bool
}

// New creates a new Monitor.
func New(cfg *config.Config) *Monitor {
	return &Monitor{
		samples:     make([]sample.Sample, 0),
		touches:     make([]Touch, 0),
		active:      make(map[int]int),
		window:      cfg.Monitor.Window,
		minDuration: cfg.Monitor.MinTouchDuration,
	}
}

// ProcessSamples consumes the input channel until it is closed.
func (m *Monitor) ProcessSamples(input <-chan sample.Sample) {
	for s := range input {
		m.processSample(s)
	}

	m.mu.Lock()
	m.shutdown = true
	m.mu.Unlock()
}

// processSample updates touches from one sample and notifies callbacks.
func (m *Monitor) processSample(s sample.Sample) {
	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.updateTouches(s)
	m.prune(s.Timestamp)
	shouldNotify := !m.shutdown
	m.mu.Unlock()

	if shouldNotify {
		m.notifyCallbacks()
	}
}

// updateTouches opens, extends and closes touches on Touched edges.
func (m *Monitor) updateTouches(s sample.Sample) {
	for i, st := range s.Sensors {
		idx, pressed := m.active[i]

		switch {
		case st.Touched && pressed:
			t := &m.touches[idx]
			t.End = s.Timestamp
			if st.Value > t.Peak {
				t.Peak = st.Value
			}
		case st.Touched:
			m.touches = append(m.touches, Touch{
				Sensor: i,
				Name:   st.Name,
				Start:  s.Timestamp,
				End:    s.Timestamp,
				Peak:   st.Value,
				Active: true,
			})
			m.active[i] = len(m.touches) - 1
		case pressed:
			m.touches[idx].Active = false
			delete(m.active, i)
		}
	}
}

// prune drops samples and ended touches that fell out of the window and
// ended touches that are too short, then reindexes the active touches.
func (m *Monitor) prune(now time.Time) {
	cutoff := now.Add(-m.window)

	if m.window > 0 {
		first := 0
		for first < len(m.samples)-1 && m.samples[first].Timestamp.Before(cutoff) {
			first++
		}
		if first > 0 {
			m.samples = append(m.samples[:0], m.samples[first:]...)
		}
	}

	kept := m.touches[:0]
	for _, t := range m.touches {
		if !t.Active {
			if t.Duration() < m.minDuration {
				continue
			}
			if m.window > 0 && t.End.Before(cutoff) {
				continue
			}
		}
		kept = append(kept, t)
	}
	m.touches = kept

	for idx, t := range m.touches {
		if t.Active {
			m.active[t.Sensor] = idx
		}
	}
}

// Configure changes the window and minimum touch duration. The new limits
// apply from the next processed sample.
func (m *Monitor) Configure(cfg config.MonitorConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = cfg.Window
	m.minDuration = cfg.MinTouchDuration
}

// Samples returns a copy of the sample history, oldest first.
func (m *Monitor) Samples() []sample.Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]sample.Sample, len(m.samples))
	copy(result, m.samples)
	return result
}

// Latest returns the most recent sample.
func (m *Monitor) Latest() (sample.Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.samples) == 0 {
		return sample.Sample{}, false
	}
	return m.samples[len(m.samples)-1], true
}

// Touches returns a copy of the tracked touches.
func (m *Monitor) Touches() []Touch {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Touch, len(m.touches))
	copy(result, m.touches)
	return result
}

// OnUpdate registers a callback that is called after every processed sample.
// The callback should return quickly.
func (m *Monitor) OnUpdate(callback func(samples []sample.Sample, touches []Touch)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// ResetShutdown allows callbacks again. Call it before starting a new chain.
func (m *Monitor) ResetShutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown = false
}

// notifyCallbacks copies the state under the read lock and invokes the
// callbacks without holding any lock.
func (m *Monitor) notifyCallbacks() {
	m.mu.RLock()
	samples := make([]sample.Sample, len(m.samples))
	copy(samples, m.samples)
	touches := make([]Touch, len(m.touches))
	copy(touches, m.touches)
	m.mu.RUnlock()

	m.cbMu.RLock()
	callbacks := make([]func(samples []sample.Sample, touches []Touch), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(samples, touches)
		}
	}
}
