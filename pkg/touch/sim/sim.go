// Package sim provides simulated pins and interrupts for the touch package.
//
// A simulated pin charges in whole loop iterations: each measurement starts
// when the pin is switched to input, and the pin reads LOW for a configured
// number of reads before it reads HIGH.
package sim

import (
	"github.com/itohio/gotouch/pkg/touch"
)

// Never is a charge length for a plate that never reaches HIGH.
const Never = -1

// Op is a pin operation recorded in the event log.
type Op uint8

const (
	OpLow Op = iota
	OpHigh
	OpInput
	OpOutput
)

func (o Op) String() string {
	switch o {
	case OpLow:
		return "low"
	case OpHigh:
		return "high"
	case OpInput:
		return "input"
	case OpOutput:
		return "output"
	}
	return "unknown"
}

// Pin simulates one sensor pin. It implements touch.Pin.
type Pin struct {
	// IRQ, when set, is consulted on every read to count reads taken with
	// interrupts enabled.
	IRQ *Interrupts

	next func() int

	mode    touch.Mode
	level   bool
	charge  int
	elapsed int

	measurements  int
	reads         int
	unmaskedReads int
	events        []Op
}

var _ touch.Pin = (*Pin)(nil)

// NewPin returns a pin whose n-th measurement charges after charges[n] LOW
// reads. The last value repeats; with no values the pin never charges.
func NewPin(charges ...int) *Pin {
	seq := append([]int(nil), charges...)
	p := &Pin{}
	p.next = func() int {
		if len(seq) == 0 {
			return Never
		}
		idx := p.measurements
		if idx >= len(seq) {
			idx = len(seq) - 1
		}
		return seq[idx]
	}
	return p
}

// NewModelPin returns a pin that asks model for the charge length of every
// measurement.
func NewModelPin(model func() int) *Pin {
	return &Pin{next: model}
}

func (p *Pin) Low() {
	p.level = false
	p.events = append(p.events, OpLow)
}

func (p *Pin) High() {
	p.level = true
	p.events = append(p.events, OpHigh)
}

// Input releases the pin and starts a new measurement.
func (p *Pin) Input() {
	p.mode = touch.ModeInput
	p.charge = p.next()
	p.elapsed = 0
	p.measurements++
	p.events = append(p.events, OpInput)
}

func (p *Pin) Output() {
	p.mode = touch.ModeOutput
	p.events = append(p.events, OpOutput)
}

// Get returns the driven level for an output, or the charge state for an
// input.
func (p *Pin) Get() bool {
	if p.mode == touch.ModeOutput {
		return p.level
	}

	p.reads++
	if p.IRQ != nil && p.IRQ.Enabled() {
		p.unmaskedReads++
	}

	if p.charge < 0 || p.elapsed < p.charge {
		p.elapsed++
		return false
	}
	return true
}

// Mode returns the current direction.
func (p *Pin) Mode() touch.Mode { return p.mode }

// Level returns the driven (latched) output level.
func (p *Pin) Level() bool { return p.level }

// Measurements returns how many times the pin was released.
func (p *Pin) Measurements() int { return p.measurements }

// Reads returns the number of input reads.
func (p *Pin) Reads() int { return p.reads }

// UnmaskedReads returns the number of input reads taken while IRQ was
// enabled.
func (p *Pin) UnmaskedReads() int { return p.unmaskedReads }

// Events returns a copy of the operation log.
func (p *Pin) Events() []Op {
	return append([]Op(nil), p.events...)
}

// ClearEvents empties the operation log.
func (p *Pin) ClearEvents() {
	p.events = p.events[:0]
}
