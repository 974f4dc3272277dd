package touch

import (
	"errors"
	"fmt"
)

var (
	ErrNoGPIO        = errors.New("touch: bank without GPIO")
	ErrUnnamedSensor = errors.New("touch: sensor without a name")
	ErrDuplicatePin  = errors.New("touch: pin configured twice")
)

// Specialized holds the measurement functions instantiated for one concrete
// pin type. The timing loop then calls Get on that type directly instead of
// through the Pin interface.
type Specialized struct {
	pin     Pin
	read    func(Interrupts) Sample
	average func(Interrupts, uint8) Sample
	median  func(Interrupts) Sample
}

// Specialize binds Read, Average and Median to p's concrete type. Call it
// once at startup; the result does not allocate when used.
func Specialize[P Pin](p P) *Specialized {
	return &Specialized{
		pin:     p,
		read:    func(irq Interrupts) Sample { return Read(p, irq) },
		average: func(irq Interrupts, samples uint8) Sample { return Average(p, irq, samples) },
		median:  func(irq Interrupts) Sample { return Median(p, irq) },
	}
}

// Read takes one raw sample.
func (s *Specialized) Read(irq Interrupts) Sample { return s.read(irq) }

// Average is Average on the bound pin.
func (s *Specialized) Average(irq Interrupts, samples uint8) Sample {
	return s.average(irq, samples)
}

// Median is Median on the bound pin.
func (s *Specialized) Median(irq Interrupts) Sample { return s.median(irq) }

// SensorConfig maps a logical sensor name to a pin.
//
// Fast is optional. When set, it is a specialized pin for ID (for example
// hard-coded port registers) and is used instead of the generic GPIO path.
// Both paths must behave identically; only speed differs.
type SensorConfig struct {
	Name string
	ID   PinID
	Fast *Specialized
}

type sensor struct {
	name string
	id   PinID
	m    *Specialized
}

// Bank is the static sensor table of a board.
//
// A Bank is not safe for concurrent use; the measurement loop owns it.
type Bank struct {
	gpio    GPIO
	irq     Interrupts
	sensors []sensor
}

// NewBank builds a Bank. gpio is required: it serves sensors without a
// specialized pin and any pin that is not in the table. irq may be nil on
// hosts, where NoInterrupts is used.
func NewBank(gpio GPIO, irq Interrupts, sensors ...SensorConfig) (*Bank, error) {
	if gpio == nil {
		return nil, ErrNoGPIO
	}
	if irq == nil {
		irq = NoInterrupts
	}

	b := &Bank{
		gpio:    gpio,
		irq:     irq,
		sensors: make([]sensor, 0, len(sensors)),
	}

	for i, s := range sensors {
		if s.Name == "" {
			return nil, fmt.Errorf("sensor %d on pin %d: %w", i, s.ID, ErrUnnamedSensor)
		}
		for _, prev := range b.sensors {
			if prev.id == s.ID {
				return nil, fmt.Errorf("sensors %q and %q on pin %d: %w", prev.name, s.Name, s.ID, ErrDuplicatePin)
			}
		}

		m := s.Fast
		if m == nil {
			m = Specialize(gpioPin{gpio: gpio, id: s.ID})
		}
		b.sensors = append(b.sensors, sensor{name: s.Name, id: s.ID, m: m})
	}

	return b, nil
}

// Len returns the number of configured sensors.
func (b *Bank) Len() int {
	return len(b.sensors)
}

// Name returns the name of the i-th sensor.
func (b *Bank) Name(i int) string {
	return b.sensors[i].name
}

// ID returns the pin of the i-th sensor.
func (b *Bank) ID(i int) PinID {
	return b.sensors[i].id
}

// Lookup finds a sensor pin by name.
func (b *Bank) Lookup(name string) (PinID, bool) {
	for _, s := range b.sensors {
		if s.name == name {
			return s.id, true
		}
	}
	return 0, false
}

// lookup returns the table entry for id, or nil.
func (b *Bank) lookup(id PinID) *Specialized {
	for _, s := range b.sensors {
		if s.id == id {
			return s.m
		}
	}
	return nil
}

// Read takes one raw sample on id.
func (b *Bank) Read(id PinID) Sample {
	if m := b.lookup(id); m != nil {
		return m.read(b.irq)
	}
	return Read(gpioPin{gpio: b.gpio, id: id}, b.irq)
}

// Average returns the truncated mean of samples reads on id after one
// warm-up read. samples must be at least 1.
func (b *Bank) Average(id PinID, samples uint8) Sample {
	if m := b.lookup(id); m != nil {
		return m.average(b.irq, samples)
	}
	return Average(gpioPin{gpio: b.gpio, id: id}, b.irq, samples)
}

// Median returns the median of three reads on id after one warm-up read.
func (b *Bank) Median(id PinID) Sample {
	if m := b.lookup(id); m != nil {
		return m.median(b.irq)
	}
	return Median(gpioPin{gpio: b.gpio, id: id}, b.irq)
}

// Indicate drives a LED that shares the sensor pin. The next measurement
// switches it off again; Average and Median discard the read that follows.
func (b *Bank) Indicate(id PinID, on bool) {
	var p Pin = gpioPin{gpio: b.gpio, id: id}
	if m := b.lookup(id); m != nil {
		p = m.pin
	}
	if on {
		p.High()
	} else {
		p.Low()
	}
	p.Output()
}

// ResetAllOutputs drives every configured sensor pin LOW. Call it once before
// the first measurement when LEDs share sensor pins.
func (b *Bank) ResetAllOutputs() {
	for _, s := range b.sensors {
		s.m.pin.Low()
		s.m.pin.Output()
	}
}
