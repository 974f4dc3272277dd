package scope

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/monitor"
	"github.com/itohio/gotouch/pkg/sample"
	"github.com/itohio/gotouch/pkg/touch"
)

// Trace colors, cycled by sensor index.
var palette = []color.RGBA{
	{R: 255, G: 165, B: 0, A: 255},
	{R: 100, G: 200, B: 255, A: 255},
	{R: 120, G: 220, B: 120, A: 255},
	{R: 230, G: 120, B: 230, A: 255},
	{R: 240, G: 230, B: 110, A: 255},
}

var (
	gridColor      = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	saturatedColor = color.RGBA{R: 230, G: 40, B: 40, A: 255}
)

// traceColor returns the color of sensor i.
func traceColor(i int) color.RGBA {
	return palette[i%len(palette)]
}

// dim returns c with reduced alpha.
func dim(c color.RGBA, alpha uint8) color.RGBA {
	c.A = alpha
	return c
}

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	grid *canvas.Rectangle

	objects []fyne.CanvasObject

	lastSize fyne.Size
}

// plotArea is the rectangle traces are drawn into.
type plotArea struct {
	x, y, w, h float32
	xMin, xMax time.Time
}

// xOf maps a timestamp to a horizontal position.
func (p plotArea) xOf(t time.Time) float32 {
	span := p.xMax.Sub(p.xMin).Seconds()
	if span <= 0 {
		return p.x
	}
	return p.x + float32(t.Sub(p.xMin).Seconds()/span)*p.w
}

// yOf maps a sample value to a vertical position. 0 is at the bottom and
// touch.Overflow at the top.
func (p plotArea) yOf(v touch.Sample) float32 {
	return p.y + p.h - float32(v)/float32(touch.Overflow)*p.h
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds all canvas objects from the current data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	samples := r.scope.displaySamples
	touches := r.scope.touches
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	sensors := r.scope.cfg.Sensors
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	const (
		marginLeft   = 40
		marginRight  = 20
		marginTop    = 20
		marginBottom = 40
	)
	p := plotArea{
		x:    marginLeft,
		y:    marginTop,
		w:    size.Width - marginLeft - marginRight,
		h:    size.Height - marginTop - marginBottom,
		xMin: xMin,
		xMax: xMax,
	}

	r.drawGrid(p)
	r.drawTouches(p, touches)
	r.drawThresholds(p, sensors)
	for i := range sensors {
		r.drawTrace(p, i, samples)
	}
	r.drawLegend(p, sensors)
}

// drawGrid draws the value and time grid.
func (r *scopeRenderer) drawGrid(p plotArea) {
	const numHLines = 8
	for i := range numHLines + 1 {
		y := p.y + float32(i)*p.h/numHLines
		r.line(gridColor, 1, p.x, y, p.x+p.w, y)

		value := int(touch.Overflow) - i*int(touch.Overflow)/numHLines
		text := canvas.NewText(fmt.Sprint(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	const numVLines = 10
	span := p.xMax.Sub(p.xMin)
	for i := range numVLines + 1 {
		x := p.x + float32(i)*p.w/numVLines
		r.line(gridColor, 1, x, p.y, x, p.y+p.h)

		offset := span * time.Duration(i) / numVLines
		text := canvas.NewText(formatTime(offset), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+5))
		r.objects = append(r.objects, text)
	}
}

// drawTouches shades the time span of every touch in the sensor's color.
func (r *scopeRenderer) drawTouches(p plotArea, touches []monitor.Touch) {
	for _, t := range touches {
		x0 := max(p.xOf(t.Start), p.x)
		x1 := min(p.xOf(t.End), p.x+p.w)
		if x1 < x0 {
			continue
		}

		rect := canvas.NewRectangle(dim(traceColor(t.Sensor), 40))
		rect.Move(fyne.NewPos(x0, p.y))
		rect.Resize(fyne.NewSize(max(x1-x0, 2), p.h))
		r.objects = append(r.objects, rect)
	}
}

// drawThresholds draws a horizontal line at every enabled sensor threshold.
func (r *scopeRenderer) drawThresholds(p plotArea, sensors []config.SensorConfig) {
	for i, s := range sensors {
		if s.Threshold == 0 {
			continue
		}
		y := p.yOf(touch.Sample(s.Threshold))
		r.line(dim(traceColor(i), 120), 1, p.x, y, p.x+p.w, y)
	}
}

// drawTrace draws the values of sensor i. Saturated values are marked.
func (r *scopeRenderer) drawTrace(p plotArea, i int, samples []sample.Sample) {
	c := traceColor(i)

	var prev fyne.Position
	havePrev := false
	for _, s := range samples {
		if i >= len(s.Sensors) {
			havePrev = false
			continue
		}
		st := s.Sensors[i]
		pos := fyne.NewPos(p.xOf(s.Timestamp), p.yOf(st.Value))

		if havePrev {
			r.line(c, 1.5, prev.X, prev.Y, pos.X, pos.Y)
		}
		if st.Saturated {
			dot := canvas.NewCircle(saturatedColor)
			dot.Move(fyne.NewPos(pos.X-2, pos.Y-2))
			dot.Resize(fyne.NewSize(4, 4))
			r.objects = append(r.objects, dot)
		}
		prev, havePrev = pos, true
	}
}

// drawLegend lists sensor names in their trace colors.
func (r *scopeRenderer) drawLegend(p plotArea, sensors []config.SensorConfig) {
	x := p.x + 10
	for i, s := range sensors {
		text := canvas.NewText(s.Name, traceColor(i))
		text.TextSize = 11
		text.Move(fyne.NewPos(x, p.y+5))
		r.objects = append(r.objects, text)
		x += float32(len(s.Name))*7 + 15
	}
}

func (r *scopeRenderer) line(c color.Color, width, x1, y1, x2, y2 float32) {
	l := canvas.NewLine(c)
	l.Position1 = fyne.NewPos(x1, y1)
	l.Position2 = fyne.NewPos(x2, y2)
	l.StrokeWidth = width
	r.objects = append(r.objects, l)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
