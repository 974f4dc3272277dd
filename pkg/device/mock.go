package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/touch"
	"github.com/itohio/gotouch/pkg/touch/sim"
)

// Mock simulates a sensor board for testing and development. It runs the
// real measurement code against simulated pins whose charge time follows an
// RC model.
type Mock struct {
	cfg     *config.MockConfig
	sensors []config.SensorConfig

	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	filter Filter

	// Simulation state, owned by the generator goroutine once connected
	bank      *touch.Bank
	startTime time.Time
	now       time.Time
}

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig, sensors []config.SensorConfig) *Mock {
	def := config.Default()
	if cfg == nil {
		cfg = &def.Mock
	}
	if len(sensors) == 0 {
		sensors = def.Sensors
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:     cfg,
		sensors: sensors,
		samples: make(chan RawSample, DefaultBufferSize),
		ctx:     ctx,
		cancel:  cancel,
		filter:  MedianFilter,
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	bank, err := m.newBank()
	if err != nil {
		return fmt.Errorf("failed to set up simulated sensors: %w", err)
	}
	bank.ResetAllOutputs()

	m.bank = bank
	m.connected = true
	m.startTime = time.Now()

	go m.generateSamples()

	return nil
}

// newBank builds a bank whose i-th pin charges according to the RC model of
// the i-th sensor.
func (m *Mock) newBank() (*touch.Bank, error) {
	gpio := sim.NewGPIO()
	sensors := make([]touch.SensorConfig, 0, len(m.sensors))

	for i, s := range m.sensors {
		i := i
		gpio.Add(touch.PinID(s.Pin), sim.NewModelPin(func() int {
			return m.chargeCycles(i)
		}))
		sensors = append(sensors, touch.SensorConfig{Name: s.Name, ID: touch.PinID(s.Pin)})
	}

	return touch.NewBank(gpio, touch.NoInterrupts, sensors...)
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)

	return nil
}

// Samples returns the channel for reading samples.
func (m *Mock) Samples() <-chan RawSample {
	return m.samples
}

// SetFilter sets the simulated firmware filter.
func (m *Mock) SetFilter(f Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}
	if !f.Median && f.Samples == 0 {
		return fmt.Errorf("average filter needs at least one sample")
	}

	m.filter = f

	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateSamples generates simulated sweeps.
func (m *Mock) generateSamples() {
	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.mu.RLock()
			if !m.connected {
				m.mu.RUnlock()
				return
			}
			sample := m.sweep(now, m.filter)
			select {
			case m.samples <- sample:
			default:
				// Channel full, skip
			}
			m.mu.RUnlock()
		}
	}
}

// sweep measures every sensor once with filter f at simulated time now.
func (m *Mock) sweep(now time.Time, f Filter) RawSample {
	m.now = now

	values := make([]touch.Sample, m.bank.Len())
	for i := range values {
		values[i] = f.Apply(m.bank, m.bank.ID(i))
	}

	return RawSample{
		Timestamp: now,
		Filter:    f,
		Values:    values,
	}
}

// touched reports whether sensor i is touched at simulated time t. Touches
// rotate over the sensors, one every TouchPeriod.
func (m *Mock) touched(i int, t time.Time) bool {
	if len(m.sensors) == 0 || m.cfg.TouchPeriod <= 0 {
		return false
	}

	elapsed := t.Sub(m.startTime)
	slot := int(elapsed / m.cfg.TouchPeriod)
	if slot%len(m.sensors) != i {
		return false
	}
	return elapsed%m.cfg.TouchPeriod < m.cfg.TouchDuration
}

// chargeCycles returns the number of LOW reads sensor i needs to charge.
func (m *Mock) chargeCycles(i int) int {
	capacitance := m.cfg.Capacitance
	if m.touched(i, m.now) {
		capacitance += m.cfg.TouchCapacitance
	}

	cycles := rcCycles(m.cfg.Resistance, capacitance, m.cfg.ThresholdRatio, m.cfg.LoopPeriod)

	elapsed := float32(m.now.Sub(m.startTime).Seconds())
	noise := (math32.Sin(elapsed*97+float32(i)) + math32.Cos(elapsed*131)) * m.cfg.NoiseLevel * 0.5
	cycles += noise

	if cycles < 0 {
		return 0
	}
	return int(cycles)
}

// rcCycles returns the loop iterations needed to charge capacitance (pF)
// through resistance (Ohm) to ratio*Vdd, given one iteration per loopPeriod.
// Formula: t = R * C * ln(1 / (1 - ratio))
func rcCycles(resistance, capacitance, ratio float32, loopPeriod time.Duration) float32 {
	if loopPeriod <= 0 || ratio <= 0 || ratio >= 1 {
		return 0
	}

	tau := resistance * capacitance * 1e-12 // seconds
	t := tau * math32.Log(1/(1-ratio))
	return t / float32(loopPeriod.Seconds())
}
