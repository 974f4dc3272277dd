package touch_test

import (
	"testing"

	"github.com/itohio/gotouch/pkg/touch"
	"github.com/itohio/gotouch/pkg/touch/sim"
	"github.com/stretchr/testify/assert"
)

func TestAverage_TruncatedMean(t *testing.T) {
	tests := []struct {
		name    string
		charges []int // first one is the warm-up read
		samples uint8
		want    touch.Sample
	}{
		{name: "single sample", charges: []int{99, 40}, samples: 1, want: 40},
		{name: "exact mean", charges: []int{0, 10, 20, 30}, samples: 3, want: 20},
		{name: "truncates", charges: []int{0, 10, 11}, samples: 2, want: 10},
		{name: "truncates toward zero", charges: []int{0, 1, 1, 0}, samples: 3, want: 0},
		{name: "one saturated sample", charges: []int{0, sim.Never, 1}, samples: 2, want: 128},
		{name: "all saturated", charges: []int{sim.Never}, samples: 4, want: touch.Overflow},
		{name: "max samples all saturated", charges: []int{sim.Never}, samples: 255, want: touch.Overflow},
		{name: "max samples", charges: []int{0, 254}, samples: 255, want: 254},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pin := sim.NewPin(tt.charges...)
			got := touch.Average(pin, touch.NoInterrupts, tt.samples)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int(tt.samples)+1, pin.Measurements())
		})
	}
}

func TestAverage_MatchesFloorOfSum(t *testing.T) {
	seq := []int{3, 17, 250, 0, 64, 128, 5, 9, 254, 31, 77, 1}

	for n := 1; n < len(seq); n++ {
		charges := append([]int{sim.Never}, seq[:n]...)
		pin := sim.NewPin(charges...)

		sum := 0
		for _, v := range seq[:n] {
			sum += v
		}

		got := touch.Average(pin, touch.NoInterrupts, uint8(n))
		assert.Equal(t, touch.Sample(sum/n), got, "n=%d", n)
	}
}

func TestAverage_ZeroSamplesPanics(t *testing.T) {
	assert.Panics(t, func() {
		touch.Average(sim.NewPin(1), touch.NoInterrupts, 0)
	})
}

func TestMedian_Orderings(t *testing.T) {
	orderings := [][3]int{
		{10, 20, 30},
		{10, 30, 20},
		{20, 10, 30},
		{20, 30, 10},
		{30, 10, 20},
		{30, 20, 10},
	}

	for _, o := range orderings {
		pin := sim.NewPin(0, o[0], o[1], o[2])
		got := touch.Median(pin, touch.NoInterrupts)
		assert.Equal(t, touch.Sample(20), got, "ordering %v", o)
		assert.Equal(t, 4, pin.Measurements())
	}
}

func TestMedian_Ties(t *testing.T) {
	tests := [][3]int{
		{5, 5, 5},
		{5, 5, 9},
		{5, 9, 5},
		{9, 5, 5},
		{9, 9, 5},
		{9, 5, 9},
		{5, 9, 9},
	}

	for _, tt := range tests {
		pin := sim.NewPin(0, tt[0], tt[1], tt[2])
		got := touch.Median(pin, touch.NoInterrupts)

		// the value that appears twice
		want := tt[0]
		if tt[1] == tt[2] {
			want = tt[1]
		}
		assert.Equal(t, touch.Sample(want), got, "samples %v", tt)
	}
}

func TestMedian_RejectsOutlier(t *testing.T) {
	pin := sim.NewPin(0, 12, sim.Never, 14)
	assert.Equal(t, touch.Sample(14), touch.Median(pin, touch.NoInterrupts))
}

func TestFilters_DiscardWarmup(t *testing.T) {
	pin := sim.NewPin(sim.Never, 10, 20, 30)
	assert.Equal(t, touch.Sample(20), touch.Median(pin, touch.NoInterrupts))

	pin = sim.NewPin(sim.Never, 10, 20, 30)
	assert.Equal(t, touch.Sample(20), touch.Average(pin, touch.NoInterrupts, 3))

	pin = sim.NewPin(sim.Never, 10)
	assert.Equal(t, touch.Sample(10), touch.Average(pin, touch.NoInterrupts, touch.DefaultSamples))
}
