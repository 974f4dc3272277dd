package sample

import "github.com/itohio/gotouch/pkg/touch"

// DownsampleSamples reduces samples to at most maxPoints for display.
//
// The input is split into maxPoints equal buckets and each bucket is
// represented by its sample with the highest sensor value, so short touches
// survive the reduction. dst is reused when it has enough capacity.
func DownsampleSamples(dst []Sample, samples []Sample, maxPoints int) []Sample {
	if maxPoints <= 0 {
		return dst[:0]
	}

	n := min(len(samples), maxPoints)
	if cap(dst) >= n {
		dst = dst[:0]
	} else {
		dst = make([]Sample, 0, n)
	}

	if len(samples) <= maxPoints {
		return append(dst, samples...)
	}

	for b := range maxPoints {
		lo := b * len(samples) / maxPoints
		hi := (b + 1) * len(samples) / maxPoints

		best := lo
		for i := lo + 1; i < hi; i++ {
			if peak(samples[i]) > peak(samples[best]) {
				best = i
			}
		}
		dst = append(dst, samples[best])
	}

	return dst
}

// peak returns the highest sensor value of s.
func peak(s Sample) touch.Sample {
	var p touch.Sample
	for _, st := range s.Sensors {
		p = max(p, st.Value)
	}
	return p
}
