package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/touch"
)

func quietMockConfig() *config.MockConfig {
	cfg := config.Default().Mock
	cfg.NoiseLevel = 0
	return &cfg
}

func TestRCCycles(t *testing.T) {
	tests := []struct {
		name        string
		resistance  float32
		capacitance float32
		ratio       float32
		loop        time.Duration
		want        float32
	}{
		{name: "default plate", resistance: 1e6, capacitance: 10, ratio: 0.6, loop: 375 * time.Nanosecond, want: 24.43},
		{name: "touched plate", resistance: 1e6, capacitance: 25, ratio: 0.6, loop: 375 * time.Nanosecond, want: 61.09},
		{name: "one tau", resistance: 1e6, capacitance: 1, ratio: 1 - 1/2.7182817, loop: time.Microsecond, want: 1},
		{name: "no loop period", resistance: 1e6, capacitance: 10, ratio: 0.6, loop: 0, want: 0},
		{name: "invalid ratio", resistance: 1e6, capacitance: 10, ratio: 1, loop: time.Microsecond, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rcCycles(tt.resistance, tt.capacitance, tt.ratio, tt.loop)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestNewMock_Defaults(t *testing.T) {
	dev := NewMock(nil, nil)
	assert.NotNil(t, dev)
	assert.NotNil(t, dev.cfg)
	assert.Len(t, dev.sensors, 3)
	assert.Equal(t, MedianFilter, dev.filter)
	assert.False(t, dev.IsConnected())
}

func TestMock_Sweep(t *testing.T) {
	sensors := []config.SensorConfig{
		{Name: "a", Pin: 1},
		{Name: "b", Pin: 2},
	}
	dev := NewMock(quietMockConfig(), sensors)

	bank, err := dev.newBank()
	require.NoError(t, err)
	dev.bank = bank
	dev.startTime = time.Unix(0, 0)

	// a is touched in the first slot, b in the second
	at := dev.startTime.Add(100 * time.Millisecond)
	s := dev.sweep(at, MedianFilter)
	assert.Equal(t, at, s.Timestamp)
	assert.Equal(t, []touch.Sample{61, 24}, s.Values)

	at = dev.startTime.Add(dev.cfg.TouchPeriod + 100*time.Millisecond)
	s = dev.sweep(at, AverageFilter(8))
	assert.Equal(t, AverageFilter(8), s.Filter)
	assert.Equal(t, []touch.Sample{24, 61}, s.Values)

	// nobody touches after the touch ends
	at = dev.startTime.Add(dev.cfg.TouchDuration + 100*time.Millisecond)
	s = dev.sweep(at, MedianFilter)
	assert.Equal(t, []touch.Sample{24, 24}, s.Values)
}

func TestMock_SaturatesOnLargePlate(t *testing.T) {
	cfg := quietMockConfig()
	cfg.Resistance = 10e6
	cfg.Capacitance = 100

	dev := NewMock(cfg, []config.SensorConfig{{Name: "big", Pin: 4}})
	bank, err := dev.newBank()
	require.NoError(t, err)
	dev.bank = bank
	dev.startTime = time.Now()

	s := dev.sweep(dev.startTime.Add(time.Hour), AverageFilter(2))
	assert.Equal(t, []touch.Sample{touch.Overflow}, s.Values)
}

func TestMock_SetFilter(t *testing.T) {
	dev := NewMock(quietMockConfig(), nil)

	err := dev.SetFilter(AverageFilter(4))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")

	require.NoError(t, dev.Connect())
	defer dev.Close()

	assert.NoError(t, dev.SetFilter(AverageFilter(4)))
	assert.Error(t, dev.SetFilter(AverageFilter(0)))

	dev.mu.RLock()
	assert.Equal(t, AverageFilter(4), dev.filter)
	dev.mu.RUnlock()
}

func TestMock_Connect_AlreadyConnected(t *testing.T) {
	dev := NewMock(nil, nil)

	err := dev.Connect()
	assert.NoError(t, err)
	defer dev.Close()

	err = dev.Connect()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already connected")
}

func TestMock_Connect_DuplicatePins(t *testing.T) {
	dev := NewMock(nil, []config.SensorConfig{
		{Name: "a", Pin: 1},
		{Name: "b", Pin: 1},
	})

	err := dev.Connect()
	assert.ErrorIs(t, err, touch.ErrDuplicatePin)
	assert.False(t, dev.IsConnected())
}

func TestMock_Close_NotConnected(t *testing.T) {
	dev := NewMock(nil, nil)
	assert.NoError(t, dev.Close())
}

func TestMock_Close_Connected(t *testing.T) {
	dev := NewMock(nil, nil)

	err := dev.Connect()
	assert.NoError(t, err)
	assert.True(t, dev.IsConnected())

	err = dev.Close()
	assert.NoError(t, err)
	assert.False(t, dev.IsConnected())
}
