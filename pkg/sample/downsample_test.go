package sample

import (
	"testing"
	"time"

	"github.com/itohio/gotouch/pkg/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flat returns n samples one millisecond apart with a single sensor at value.
func flat(n int, value touch.Sample) []Sample {
	t0 := time.Now()
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{
			Timestamp: t0.Add(time.Duration(i) * time.Millisecond),
			Sensors:   []SensorState{{Name: "a", Value: value}},
		}
	}
	return samples
}

func TestDownsampleSamples_Length(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		maxPoints int
		wantLen   int
	}{
		{name: "fewer than max", n: 5, maxPoints: 10, wantLen: 5},
		{name: "equal to max", n: 10, maxPoints: 10, wantLen: 10},
		{name: "reduced", n: 1000, maxPoints: 100, wantLen: 100},
		{name: "uneven", n: 7, maxPoints: 3, wantLen: 3},
		{name: "empty", n: 0, maxPoints: 10, wantLen: 0},
		{name: "no points", n: 10, maxPoints: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DownsampleSamples(nil, flat(tt.n, 20), tt.maxPoints)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestDownsampleSamples_KeepsOrder(t *testing.T) {
	samples := flat(1000, 20)
	got := DownsampleSamples(nil, samples, 37)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Timestamp.After(got[i-1].Timestamp))
	}
	assert.Equal(t, samples[0].Timestamp, got[0].Timestamp, "ties keep the first sample of a bucket")
}

func TestDownsampleSamples_KeepsPeaks(t *testing.T) {
	samples := flat(1000, 20)
	samples[503].Sensors[0].Value = 90
	samples[999].Sensors[0].Value = touch.Overflow

	got := DownsampleSamples(nil, samples, 10)
	require.Len(t, got, 10)

	assert.Equal(t, samples[503].Timestamp, got[5].Timestamp)
	assert.Equal(t, touch.Sample(90), got[5].Sensors[0].Value)
	assert.Equal(t, touch.Overflow, got[9].Sensors[0].Value)
}

func TestDownsampleSamples_PeakOverAllSensors(t *testing.T) {
	samples := flat(4, 20)
	samples[1].Sensors = append(samples[1].Sensors, SensorState{Name: "b", Value: 70})

	got := DownsampleSamples(nil, samples, 2)
	require.Len(t, got, 2)
	assert.Equal(t, samples[1].Timestamp, got[0].Timestamp)
}

func TestDownsampleSamples_ReusesDst(t *testing.T) {
	dst := make([]Sample, 0, 100)

	got := DownsampleSamples(dst, flat(1000, 20), 100)
	assert.Len(t, got, 100)
	assert.Same(t, &dst[:1][0], &got[0])

	got = DownsampleSamples(dst, flat(5, 20), 100)
	assert.Len(t, got, 5)
	assert.Same(t, &dst[:1][0], &got[0])
}
