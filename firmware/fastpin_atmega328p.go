//go:build tinygo && atmega328p

package main

import (
	"device/avr"
	"machine"

	"github.com/itohio/gotouch/pkg/touch"
)

// portBPin drives one bit of port B directly. On the Uno D8..D13 are PB0..PB5.
type portBPin uint8

func (p portBPin) Low()      { avr.PORTB.ClearBits(uint8(p)) }
func (p portBPin) High()     { avr.PORTB.SetBits(uint8(p)) }
func (p portBPin) Output()   { avr.DDRB.SetBits(uint8(p)) }
func (p portBPin) Get() bool { return avr.PINB.HasBits(uint8(p)) }

// Input switches to input with the pull-up off.
func (p portBPin) Input() {
	avr.DDRB.ClearBits(uint8(p))
	avr.PORTB.ClearBits(uint8(p))
}

// fastPin returns the register implementation for port B pins and nil for
// the rest. The measurement loop is instantiated for portBPin, so the
// register reads inline.
func fastPin(pin machine.Pin) *touch.Specialized {
	if pin < machine.PB0 || pin > machine.PB5 {
		return nil
	}
	return touch.Specialize(portBPin(1 << (pin - machine.PB0)))
}
