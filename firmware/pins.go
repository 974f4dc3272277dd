//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/gotouch/pkg/touch"
)

const (
	// Sweep configuration
	SWEEP_INTERVAL_MS = 20 // Time between sensor sweeps
	DEFAULT_SAMPLES   = 4  // Average filter sample count until a command arrives

	// LED is driven HIGH between measurements when a sensor reaches this value
	TOUCH_THRESHOLD = 40

	// Serial configuration
	// Format "unix_micros,a255,255,255,255\n" is ~35 bytes per line.
	// 50 lines/sec * 35 bytes = 1,750 bytes/sec, 115200 baud gives ~6.5x headroom.
	UART_BAUD_RATE = 115200

	// Sensor plates. Each is wired to its pin and through a ~1 MΩ resistor
	// to the plate of the LED shared with it.
	PIN_SENSOR_LEFT   = machine.D8
	PIN_SENSOR_RIGHT  = machine.D9
	PIN_SENSOR_CENTER = machine.D2
)

// sensors returns the static sensor table, in output order. Pins with a
// specialized implementation use it, the rest go through machine.Pin.
func sensors() []touch.SensorConfig {
	return []touch.SensorConfig{
		{Name: "left", ID: touch.PinID(PIN_SENSOR_LEFT), Fast: fastPin(PIN_SENSOR_LEFT)},
		{Name: "right", ID: touch.PinID(PIN_SENSOR_RIGHT), Fast: fastPin(PIN_SENSOR_RIGHT)},
		{Name: "center", ID: touch.PinID(PIN_SENSOR_CENTER)},
	}
}
