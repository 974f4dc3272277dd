package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/monitor"
	"github.com/itohio/gotouch/pkg/sample"
)

// ScopeWidget is a custom Fyne widget that plots sensor values over time.
// The Y axis is fixed to the full sample range so traces of different
// sensors are comparable.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu      sync.RWMutex
	touches []monitor.Touch

	// Display buffer (reused for downsampling)
	displaySamples []sample.Sample

	xMin, xMax time.Time

	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	s := &ScopeWidget{
		cfg:              cfg,
		displaySamples:   make([]sample.Sample, 0, 1000),
		maxDisplayPoints: 1000,
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the plotted history.
// This should be called from the monitor callback using fyne.Do().
func (s *ScopeWidget) UpdateData(samples []sample.Sample, touches []monitor.Touch) {
	s.mu.Lock()
	s.displaySamples = sample.DownsampleSamples(s.displaySamples, samples, s.maxDisplayPoints)
	s.touches = touches
	s.xMin, s.xMax = timeRange(s.displaySamples, s.cfg.Monitor.Window)
	s.mu.Unlock()

	s.Refresh()
}

// timeRange returns the X axis range. The range is at least window long
// and starts at the oldest sample.
func timeRange(samples []sample.Sample, window time.Duration) (time.Time, time.Time) {
	if len(samples) == 0 {
		now := time.Now()
		return now, now.Add(window)
	}

	xMin := samples[0].Timestamp
	xMax := samples[len(samples)-1].Timestamp
	if xMax.Sub(xMin) < window {
		xMax = xMin.Add(window)
	}
	return xMin, xMax
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
