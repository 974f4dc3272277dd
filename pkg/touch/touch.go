// Package touch implements single-pin capacitive touch sensing.
//
// A sensor plate connected to one GPIO pin forms a capacitor against earth.
// The pin discharges the plate, releases it, and counts loop iterations until
// the plate has charged through an external high-value resistor (100k..10M)
// to the input HIGH level. A touch increases the capacitance and therefore the
// count.
//
// The package is written for TinyGo on small 8-bit controllers: no heap
// allocation and no floating point on the measurement path.
package touch

// Version of the measurement algorithm.
const Version = "1.0.0"

// Sample is a charge duration in loop iterations.
type Sample uint8

// Overflow is returned when the pin did not reach HIGH before the 8-bit
// counter wrapped. It is also the largest regular value; the two cannot be
// told apart.
const Overflow Sample = 255

// DefaultSamples is the sample count callers usually pass to Average.
const DefaultSamples = 1

// Saturated reports whether s is the overflow sentinel.
func (s Sample) Saturated() bool {
	return s == Overflow
}

// PinID identifies a GPIO line. Its meaning is up to the GPIO implementation.
type PinID uint8

// Mode is a pin direction.
type Mode uint8

const (
	ModeOutput Mode = iota
	ModeInput
)

// Pin is the set of primitives the reader needs for one specific pin.
//
// Input must not enable a pull-up: the plate has to charge through the
// external resistor only. Output keeps the last level set by Low or High.
type Pin interface {
	Low()
	High()
	Input()
	Output()
	Get() bool
}

// GPIO is the generic, pin-indexed indirection used for pins without a
// specialized Pin implementation.
type GPIO interface {
	Configure(id PinID, mode Mode)
	Set(id PinID, high bool)
	Get(id PinID) bool
}

type gpioPin struct {
	gpio GPIO
	id   PinID
}

// Generic returns a Pin that goes through gpio for every operation.
func Generic(gpio GPIO, id PinID) Pin {
	return gpioPin{gpio: gpio, id: id}
}

func (p gpioPin) Low()      { p.gpio.Set(p.id, false) }
func (p gpioPin) High()     { p.gpio.Set(p.id, true) }
func (p gpioPin) Input()    { p.gpio.Configure(p.id, ModeInput) }
func (p gpioPin) Output()   { p.gpio.Configure(p.id, ModeOutput) }
func (p gpioPin) Get() bool { return p.gpio.Get(p.id) }
