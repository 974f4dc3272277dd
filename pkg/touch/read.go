package touch

// Read takes one raw sample on p.
//
// The pin is discharged, released while interrupts are masked, and the loop
// counts until the pin reads HIGH or the counter overflows. Afterwards the
// pin is an output again with its latch still LOW, so it keeps discharging
// the plate (or keeps a shared LED off) until the caller drives it.
//
// A single sample is noisy; prefer Average or Median.
func Read[P Pin](p P, irq Interrupts) Sample {
	p.Low()
	p.Output()

	// 0 means overflow, so counting starts at 1
	cycles := uint8(1)
	critical(irq, func() {
		p.Input()
		for !p.Get() && cycles != 0 {
			cycles++
		}
	})

	p.Output()

	// 1 -> 0 for an immediate HIGH, 0 -> 255 on overflow
	return Sample(cycles - 1)
}
