package sample

import (
	"fmt"
	"log"
	"time"

	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/device"
	"github.com/itohio/gotouch/pkg/touch"
)

// SensorState is one sensor's value interpreted against its configuration.
type SensorState struct {
	Name      string
	Value     touch.Sample
	Touched   bool // Value reached the configured threshold
	Saturated bool // Value is the overflow sentinel
}

// Sample represents a processed sweep over all sensors.
type Sample struct {
	Timestamp time.Time
	Filter    device.Filter
	Sensors   []SensorState
}

// Converter is a function type that converts RawSample channel to Sample channel.
type Converter func(in <-chan device.RawSample) <-chan Sample

// NewConverter creates a converter function that transforms RawSample to Sample.
func NewConverter(cfg *config.Config, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan device.RawSample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			for raw := range in {
				sample, err := convertSample(raw, cfg.Sensors)
				if err != nil {
					log.Printf("Failed to convert sample: %v", err)
					continue
				}

				select {
				case out <- sample:
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}

// convertSample pairs raw values with the configured sensors.
func convertSample(raw device.RawSample, sensors []config.SensorConfig) (Sample, error) {
	if len(raw.Values) != len(sensors) {
		return Sample{}, fmt.Errorf("got %d values for %d configured sensors", len(raw.Values), len(sensors))
	}

	states := make([]SensorState, len(sensors))
	for i, s := range sensors {
		v := raw.Values[i]
		states[i] = SensorState{
			Name:      s.Name,
			Value:     v,
			Touched:   isTouched(v, s.Threshold),
			Saturated: v.Saturated(),
		}
	}

	return Sample{
		Timestamp: raw.Timestamp,
		Filter:    raw.Filter,
		Sensors:   states,
	}, nil
}

// isTouched compares a value with a fixed threshold. A zero threshold
// disables touch detection for that sensor.
func isTouched(v touch.Sample, threshold uint8) bool {
	if threshold == 0 {
		return false
	}
	return uint8(v) >= threshold
}
