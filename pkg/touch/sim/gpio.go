package sim

import "github.com/itohio/gotouch/pkg/touch"

// GPIO is a simulated pin-indexed port. Pins that were never added are
// created on first use and never charge.
type GPIO struct {
	pins map[touch.PinID]*Pin
}

var _ touch.GPIO = (*GPIO)(nil)

// NewGPIO creates an empty port.
func NewGPIO() *GPIO {
	return &GPIO{pins: make(map[touch.PinID]*Pin)}
}

// Add attaches p as pin id and returns it.
func (g *GPIO) Add(id touch.PinID, p *Pin) *Pin {
	g.pins[id] = p
	return p
}

// Pin returns pin id, creating it if needed.
func (g *GPIO) Pin(id touch.PinID) *Pin {
	p, ok := g.pins[id]
	if !ok {
		p = NewPin()
		g.pins[id] = p
	}
	return p
}

func (g *GPIO) Configure(id touch.PinID, mode touch.Mode) {
	p := g.Pin(id)
	if mode == touch.ModeInput {
		p.Input()
	} else {
		p.Output()
	}
}

func (g *GPIO) Set(id touch.PinID, high bool) {
	p := g.Pin(id)
	if high {
		p.High()
	} else {
		p.Low()
	}
}

func (g *GPIO) Get(id touch.PinID) bool {
	return g.Pin(id).Get()
}

// Interrupts simulates the global interrupt enable flag. The zero value has
// interrupts enabled.
type Interrupts struct {
	disabled bool
	disables int
	restores int
}

var _ touch.Interrupts = (*Interrupts)(nil)

func (i *Interrupts) Disable() touch.IRQState {
	var state touch.IRQState
	if !i.disabled {
		state = 1
	}
	i.disabled = true
	i.disables++
	return state
}

func (i *Interrupts) Restore(state touch.IRQState) {
	i.disabled = state == 0
	i.restores++
}

// Enabled reports whether interrupts are currently delivered.
func (i *Interrupts) Enabled() bool { return !i.disabled }

// Disables returns how many times Disable was called.
func (i *Interrupts) Disables() int { return i.disables }

// Restores returns how many times Restore was called.
func (i *Interrupts) Restores() int { return i.restores }
