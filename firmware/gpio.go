//go:build tinygo

package main

import (
	"machine"
	"runtime/interrupt"

	"github.com/itohio/gotouch/pkg/touch"
)

// machineGPIO drives pins through machine.Pin.
type machineGPIO struct{}

func (machineGPIO) Configure(id touch.PinID, mode touch.Mode) {
	m := machine.PinInput
	if mode == touch.ModeOutput {
		m = machine.PinOutput
	}
	machine.Pin(id).Configure(machine.PinConfig{Mode: m})
}

func (machineGPIO) Set(id touch.PinID, high bool) {
	machine.Pin(id).Set(high)
}

func (machineGPIO) Get(id touch.PinID) bool {
	return machine.Pin(id).Get()
}

// cpuInterrupts masks interrupts globally.
type cpuInterrupts struct{}

func (cpuInterrupts) Disable() touch.IRQState {
	return touch.IRQState(interrupt.Disable())
}

func (cpuInterrupts) Restore(s touch.IRQState) {
	interrupt.Restore(interrupt.State(s))
}
