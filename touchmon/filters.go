package main

import (
	"fmt"

	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/device"
)

// filterChoices are the filters offered in the toolbar.
var filterChoices = []device.Filter{
	device.MedianFilter,
	device.AverageFilter(1),
	device.AverageFilter(2),
	device.AverageFilter(4),
	device.AverageFilter(8),
	device.AverageFilter(16),
	device.AverageFilter(32),
}

func filterLabel(f device.Filter) string {
	if f.Median {
		return "Median of 3"
	}
	return fmt.Sprintf("Average of %d", f.Samples)
}

// addFilterChoice makes f selectable if it is not one of the presets.
func addFilterChoice(f device.Filter) {
	for _, c := range filterChoices {
		if c == f {
			return
		}
	}
	filterChoices = append(filterChoices, f)
}

func filterLabels() []string {
	labels := make([]string, len(filterChoices))
	for i, f := range filterChoices {
		labels[i] = filterLabel(f)
	}
	return labels
}

func filterByLabel(label string) (device.Filter, bool) {
	for _, f := range filterChoices {
		if filterLabel(f) == label {
			return f, true
		}
	}
	return device.Filter{}, false
}

// filterConfig converts a filter back to its configuration form. The
// average sample count is kept when switching to median.
func filterConfig(cur config.FilterConfig, f device.Filter) config.FilterConfig {
	if f.Median {
		return config.FilterConfig{Mode: config.FilterMedian, Samples: cur.Samples}
	}
	return config.FilterConfig{Mode: config.FilterAverage, Samples: f.Samples}
}
