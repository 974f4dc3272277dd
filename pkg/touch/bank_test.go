package touch_test

import (
	"testing"

	"github.com/itohio/gotouch/pkg/touch"
	"github.com/itohio/gotouch/pkg/touch/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBank_Validation(t *testing.T) {
	gpio := sim.NewGPIO()

	tests := []struct {
		name    string
		gpio    touch.GPIO
		sensors []touch.SensorConfig
		wantErr error
	}{
		{
			name:    "empty",
			gpio:    gpio,
			sensors: nil,
		},
		{
			name: "generic and specialized",
			gpio: gpio,
			sensors: []touch.SensorConfig{
				{Name: "a", ID: 1},
				{Name: "b", ID: 2, Fast: touch.Specialize(sim.NewPin(1))},
			},
		},
		{
			name: "specialized only without gpio",
			sensors: []touch.SensorConfig{
				{Name: "a", ID: 1, Fast: touch.Specialize(sim.NewPin(1))},
			},
			wantErr: touch.ErrNoGPIO,
		},
		{
			name: "specialized only",
			gpio: gpio,
			sensors: []touch.SensorConfig{
				{Name: "a", ID: 1, Fast: touch.Specialize(sim.NewPin(1))},
			},
		},
		{
			name: "generic without gpio",
			sensors: []touch.SensorConfig{
				{Name: "a", ID: 1},
			},
			wantErr: touch.ErrNoGPIO,
		},
		{
			name: "unnamed",
			gpio: gpio,
			sensors: []touch.SensorConfig{
				{ID: 1},
			},
			wantErr: touch.ErrUnnamedSensor,
		},
		{
			name: "duplicate pin",
			gpio: gpio,
			sensors: []touch.SensorConfig{
				{Name: "a", ID: 4},
				{Name: "b", ID: 4, Fast: touch.Specialize(sim.NewPin(1))},
			},
			wantErr: touch.ErrDuplicatePin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, err := touch.NewBank(tt.gpio, nil, tt.sensors...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, bank)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.sensors), bank.Len())
		})
	}
}

func TestBank_Lookup(t *testing.T) {
	bank, err := touch.NewBank(sim.NewGPIO(), nil,
		touch.SensorConfig{Name: "left", ID: 8},
		touch.SensorConfig{Name: "right", ID: 9},
	)
	require.NoError(t, err)

	id, ok := bank.Lookup("right")
	assert.True(t, ok)
	assert.Equal(t, touch.PinID(9), id)
	assert.Equal(t, "left", bank.Name(0))
	assert.Equal(t, touch.PinID(8), bank.ID(0))

	_, ok = bank.Lookup("middle")
	assert.False(t, ok)
}

func TestBank_DispatchesToSpecializedPin(t *testing.T) {
	gpio := sim.NewGPIO()
	generic := gpio.Add(5, sim.NewPin(40))
	fast := sim.NewPin(40)

	bank, err := touch.NewBank(gpio, nil, touch.SensorConfig{Name: "pad", ID: 5, Fast: touch.Specialize(fast)})
	require.NoError(t, err)

	assert.Equal(t, touch.Sample(40), bank.Read(5))
	assert.Equal(t, 1, fast.Measurements())
	assert.Equal(t, 0, generic.Measurements())
}

func TestBank_FallsBackToGeneric(t *testing.T) {
	gpio := sim.NewGPIO()
	other := gpio.Add(6, sim.NewPin(0, 9, 9, 9))

	bank, err := touch.NewBank(gpio, nil, touch.SensorConfig{Name: "pad", ID: 5, Fast: touch.Specialize(sim.NewPin(1))})
	require.NoError(t, err)

	assert.Equal(t, touch.Sample(9), bank.Median(6))
	assert.Equal(t, 4, other.Measurements())
}

func TestBank_UnknownPinWithoutTableEntry(t *testing.T) {
	gpio := sim.NewGPIO()
	bank, err := touch.NewBank(gpio, nil, touch.SensorConfig{Name: "pad", ID: 1, Fast: touch.Specialize(sim.NewPin(3))})
	require.NoError(t, err)

	// pin 2 is neither in the table nor known to the GPIO
	assert.NotPanics(t, func() {
		bank.Read(2)
		bank.Average(2, 2)
		bank.Median(2)
		bank.Indicate(2, true)
	})
}

func TestSpecialize_MatchesGeneric(t *testing.T) {
	charges := []int{12, 0, sim.Never, 7, 7, 254, 31, 90, 2, 2, 2, 60}

	gpio := sim.NewGPIO()
	gpio.Add(4, sim.NewPin(charges...))
	generic := touch.Generic(gpio, 4)
	bound := touch.Specialize(sim.NewPin(charges...))

	assert.Equal(t, touch.Read(generic, touch.NoInterrupts), bound.Read(touch.NoInterrupts))
	assert.Equal(t, touch.Average(generic, touch.NoInterrupts, 4), bound.Average(touch.NoInterrupts, 4))
	assert.Equal(t, touch.Median(generic, touch.NoInterrupts), bound.Median(touch.NoInterrupts))
	assert.Equal(t, touch.Median(generic, touch.NoInterrupts), bound.Median(touch.NoInterrupts))
}

func TestBank_PathsAreInterchangeable(t *testing.T) {
	charges := []int{sim.Never, 3, 80, 17, 17, sim.Never, 0, 201, 44}

	gpio := sim.NewGPIO()
	gpio.Add(1, sim.NewPin(charges...))
	slow, err := touch.NewBank(gpio, nil, touch.SensorConfig{Name: "pad", ID: 1})
	require.NoError(t, err)

	fast, err := touch.NewBank(sim.NewGPIO(), nil, touch.SensorConfig{Name: "pad", ID: 1, Fast: touch.Specialize(sim.NewPin(charges...))})
	require.NoError(t, err)

	assert.Equal(t, fast.Average(1, 3), slow.Average(1, 3))
	assert.Equal(t, fast.Median(1), slow.Median(1))
	assert.Equal(t, fast.Read(1), slow.Read(1))
}

func TestBank_MasksInterrupts(t *testing.T) {
	irq := &sim.Interrupts{}
	pin := sim.NewPin(20)
	pin.IRQ = irq

	bank, err := touch.NewBank(sim.NewGPIO(), irq, touch.SensorConfig{Name: "pad", ID: 2, Fast: touch.Specialize(pin)})
	require.NoError(t, err)

	bank.Average(2, 4)
	bank.Median(2)

	assert.Equal(t, 9, irq.Disables())
	assert.Equal(t, 0, pin.UnmaskedReads())
	assert.True(t, irq.Enabled())
}

func TestBank_ResetAllOutputs(t *testing.T) {
	gpio := sim.NewGPIO()
	a := gpio.Add(1, sim.NewPin())
	b := gpio.Add(2, sim.NewPin())
	untouched := gpio.Add(3, sim.NewPin())
	fast := sim.NewPin()

	for _, p := range []*sim.Pin{a, b, untouched, fast} {
		p.High()
		p.Input()
		p.ClearEvents()
	}

	bank, err := touch.NewBank(gpio, nil,
		touch.SensorConfig{Name: "a", ID: 1},
		touch.SensorConfig{Name: "b", ID: 2},
		touch.SensorConfig{Name: "c", ID: 4, Fast: touch.Specialize(fast)},
	)
	require.NoError(t, err)

	bank.ResetAllOutputs()
	bank.ResetAllOutputs()

	for _, p := range []*sim.Pin{a, b, fast} {
		assert.Equal(t, touch.ModeOutput, p.Mode())
		assert.False(t, p.Level())
		assert.Equal(t, 0, p.Reads())
	}

	assert.Empty(t, untouched.Events())
	assert.Equal(t, touch.ModeInput, untouched.Mode())
	assert.True(t, untouched.Level())
}

func TestBank_Indicate(t *testing.T) {
	gpio := sim.NewGPIO()
	led := gpio.Add(7, sim.NewPin(sim.Never, 30))

	bank, err := touch.NewBank(gpio, nil, touch.SensorConfig{Name: "pad", ID: 7})
	require.NoError(t, err)

	bank.Indicate(7, true)
	assert.True(t, led.Level())
	assert.Equal(t, touch.ModeOutput, led.Mode())

	// the warm-up read after the LED was on is dropped
	assert.Equal(t, touch.Sample(30), bank.Average(7, 1))
	assert.False(t, led.Level())

	bank.Indicate(7, true)
	bank.Indicate(7, false)
	assert.False(t, led.Level())
}

func TestBank_TwoSensorScenario(t *testing.T) {
	gpio := sim.NewGPIO()
	gpio.Add(10, sim.NewPin(5))
	gpio.Add(11, sim.NewPin(sim.Never))

	bank, err := touch.NewBank(gpio, nil,
		touch.SensorConfig{Name: "A", ID: 10},
		touch.SensorConfig{Name: "B", ID: 11},
	)
	require.NoError(t, err)
	bank.ResetAllOutputs()

	a, _ := bank.Lookup("A")
	b, _ := bank.Lookup("B")

	assert.Equal(t, touch.Sample(5), bank.Average(a, 3))
	assert.Equal(t, touch.Overflow, bank.Average(b, 2))
	assert.Equal(t, touch.Sample(5), bank.Median(a))
}
