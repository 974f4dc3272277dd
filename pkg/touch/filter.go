package touch

// Average reads samples+1 times, drops the first read and returns the
// truncated mean of the rest.
//
// The dropped read settles the pin after it was left as a LOW output or used
// to drive an LED. samples must be at least 1; 0 divides by zero.
func Average[P Pin](p P, irq Interrupts, samples uint8) Sample {
	Read(p, irq)

	var sum uint16
	for i := uint8(0); i < samples; i++ {
		sum += uint16(Read(p, irq))
	}
	return Sample(sum / uint16(samples))
}

// Median reads four times, drops the first read and returns the middle value
// of the other three. A single outlier among the three is rejected
// completely, which an average of three would not do.
func Median[P Pin](p P, irq Interrupts) Sample {
	Read(p, irq)

	v0 := Read(p, irq)
	v1 := Read(p, irq)
	v2 := Read(p, irq)
	return median3(v0, v1, v2)
}

// median3 returns the middle of three values without reordering them.
// Equal values are "not less than", so any tie is the result.
func median3(v0, v1, v2 Sample) Sample {
	if v0 < v1 {
		if v1 < v2 {
			return v1
		}
		if v0 < v2 {
			return v2
		}
	} else {
		if v2 < v1 {
			return v1
		}
		if v2 < v0 {
			return v2
		}
	}
	return v0
}
