package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/monitor"
	"github.com/itohio/gotouch/pkg/sample"
	"github.com/itohio/gotouch/pkg/touch"
)

const maxRecentTouches = 50

// sensorStatus is what the indicator of one sensor shows.
type sensorStatus int

const (
	statusIdle sensorStatus = iota
	statusTouched
	statusSaturated
)

func statusOf(st sample.SensorState) sensorStatus {
	switch {
	case st.Saturated:
		return statusSaturated
	case st.Touched:
		return statusTouched
	default:
		return statusIdle
	}
}

func (s sensorStatus) String() string {
	switch s {
	case statusTouched:
		return "touched"
	case statusSaturated:
		return "saturated"
	default:
		return "idle"
	}
}

// sensorRow displays one sensor: name, value bar and status indicator.
type sensorRow struct {
	name   *widget.Label
	value  *widget.ProgressBar
	status *widget.Label
	last   sensorStatus
}

// sensorRows holds one row per configured sensor, in firmware order.
type sensorRows struct {
	rows []*sensorRow
}

func newSensorRows(sensors []config.SensorConfig) *sensorRows {
	r := &sensorRows{rows: make([]*sensorRow, len(sensors))}
	for i, s := range sensors {
		bar := widget.NewProgressBar()
		bar.Max = float64(touch.Overflow)
		bar.TextFormatter = func() string {
			return fmt.Sprintf("%.0f", bar.Value)
		}

		r.rows[i] = &sensorRow{
			name:   widget.NewLabelWithStyle(fmt.Sprintf("%s (D%d)", s.Name, s.Pin), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			value:  bar,
			status: widget.NewLabel(statusIdle.String()),
		}
	}
	return r
}

func (r *sensorRows) container() fyne.CanvasObject {
	grid := container.NewVBox()
	for _, row := range r.rows {
		grid.Add(container.NewBorder(nil, nil, row.name, row.status, row.value))
	}
	return grid
}

// update shows the latest sample. Must be called on the main thread.
func (r *sensorRows) update(s sample.Sample) {
	for i, st := range s.Sensors {
		if i >= len(r.rows) {
			break
		}
		row := r.rows[i]
		row.value.SetValue(float64(st.Value))
		row.setStatus(statusOf(st))
	}
}

// reset clears all rows after disconnecting.
func (r *sensorRows) reset() {
	for _, row := range r.rows {
		row.value.SetValue(0)
		row.setStatus(statusIdle)
	}
}

// setStatus updates the indicator only when the status changes.
func (row *sensorRow) setStatus(s sensorStatus) {
	if row.last == s {
		return
	}
	row.last = s

	switch s {
	case statusTouched:
		row.status.Importance = widget.SuccessImportance
	case statusSaturated:
		row.status.Importance = widget.DangerImportance
	default:
		row.status.Importance = widget.MediumImportance
	}
	row.status.SetText(s.String())
}

// recentTouches returns up to n touches, newest first.
func recentTouches(touches []monitor.Touch, n int) []monitor.Touch {
	count := min(len(touches), n)
	result := make([]monitor.Touch, count)
	for i := range count {
		result[i] = touches[len(touches)-1-i]
	}
	return result
}

func formatTouch(t monitor.Touch) string {
	text := fmt.Sprintf("%s  %s  %v  peak %d",
		t.Start.Format("15:04:05.000"), t.Name, t.Duration().Round(time.Millisecond), t.Peak)
	if t.Active {
		text += "  (pressed)"
	}
	return text
}

// newTouchList shows state.recent.
func newTouchList(state *appState) *widget.List {
	return widget.NewList(
		func() int {
			return len(state.recent)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("00:00:00.000  sensor  0s  peak 255")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(state.recent) {
				return
			}
			obj.(*widget.Label).SetText(formatTouch(state.recent[id]))
		},
	)
}
