package device

import (
	"fmt"
	"strconv"

	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/touch"
	"github.com/itohio/gotouch/pkg/wire"
)

// Filter selects how the firmware aggregates samples.
type Filter struct {
	Median  bool
	Samples uint8 // Average filter sample count, ignored for Median
}

// MedianFilter is the median-of-three filter.
var MedianFilter = Filter{Median: true}

// AverageFilter returns an average filter over n samples.
func AverageFilter(n uint8) Filter {
	return Filter{Samples: n}
}

// FilterFromConfig converts the configured filter.
func FilterFromConfig(cfg config.FilterConfig) Filter {
	if cfg.Mode == config.FilterMedian {
		return MedianFilter
	}
	n := cfg.Samples
	if n == 0 {
		n = touch.DefaultSamples
	}
	return AverageFilter(n)
}

// String returns the wire form: "m" or "a<n>".
func (f Filter) String() string {
	if f.Median {
		return "m"
	}
	return "a" + strconv.Itoa(int(f.Samples))
}

// Apply runs the filter on one bank sensor.
func (f Filter) Apply(b *touch.Bank, id touch.PinID) touch.Sample {
	if f.Median {
		return b.Median(id)
	}
	return b.Average(id, f.Samples)
}

// ParseFilter parses the wire form of a filter. It accepts the same
// grammar as the firmware command parser.
func ParseFilter(s string) (Filter, error) {
	var p wire.Parser
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return Filter{}, fmt.Errorf("invalid filter %q", s)
		}
		p.Feed(s[i])
	}

	cmd, ok := p.Feed('\n')
	if !ok {
		return Filter{}, fmt.Errorf("invalid filter %q", s)
	}
	return Filter{Median: cmd.Median, Samples: cmd.Samples}, nil
}
