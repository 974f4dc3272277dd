package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gotouch/pkg/device"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createSensorsTab(state),
		createMonitorTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// saveConfig writes the configuration and reports failures.
func saveConfig(state *appState) bool {
	if err := state.cfg.Validate(); err != nil {
		dialog.ShowError(fmt.Errorf("invalid settings: %w", err), state.window)
		return false
	}
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return false
	}
	return true
}

// reconnect restarts the sample chain if a device is connected.
func reconnect(state *appState) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}
	closeChain(state.chain)
	state.chain = nil
	state.device = nil
	handleConnect(state)
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := device.Ports()
	portOptions := []string{}
	if err == nil {
		for _, port := range ports {
			portOptions = append(portOptions, port.Name)
		}
	}

	currentPort := state.cfg.Serial.Port
	found := false
	for _, opt := range portOptions {
		if opt == currentPort {
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentPort != "" {
		portSelect.SetSelected(currentPort)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			changed := false
			if portSelect.Selected != "" && portSelect.Selected != state.cfg.Serial.Port {
				state.cfg.Serial.Port = portSelect.Selected
				changed = true
			}
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 && baud != state.cfg.Serial.BaudRate {
				state.cfg.Serial.BaudRate = baud
				changed = true
			}
			if !saveConfig(state) {
				return
			}
			if changed && !state.useMock {
				reconnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createSensorsTab creates the per-sensor threshold tab. Names and pins
// follow the firmware and are only shown.
func createSensorsTab(state *appState) *container.TabItem {
	entries := make([]*widget.Entry, len(state.cfg.Sensors))
	items := make([]*widget.FormItem, len(state.cfg.Sensors))
	for i, s := range state.cfg.Sensors {
		entries[i] = widget.NewEntry()
		entries[i].SetText(strconv.Itoa(int(s.Threshold)))
		items[i] = &widget.FormItem{
			Text:     fmt.Sprintf("%s (D%d) threshold", s.Name, s.Pin),
			Widget:   entries[i],
			HintText: "0 disables touch detection",
		}
	}

	form := &widget.Form{
		Items: items,
		OnSubmit: func() {
			for i, e := range entries {
				if v, err := strconv.ParseUint(e.Text, 10, 8); err == nil {
					state.cfg.Sensors[i].Threshold = uint8(v)
				}
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Sensors", form)
}

// createMonitorTab creates the touch tracking tab.
func createMonitorTab(state *appState) *container.TabItem {
	windowEntry := widget.NewEntry()
	windowEntry.SetText(state.cfg.Monitor.Window.String())

	minDurationEntry := widget.NewEntry()
	minDurationEntry.SetText(state.cfg.Monitor.MinTouchDuration.String())

	samplesEntry := widget.NewEntry()
	samplesEntry.SetText(strconv.Itoa(int(state.cfg.Filter.Samples)))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window", Widget: windowEntry},
			{Text: "Min Touch Duration", Widget: minDurationEntry},
			{Text: "Average Samples", Widget: samplesEntry},
		},
		OnSubmit: func() {
			if w, err := time.ParseDuration(windowEntry.Text); err == nil {
				state.cfg.Monitor.Window = w
			}
			if d, err := time.ParseDuration(minDurationEntry.Text); err == nil {
				state.cfg.Monitor.MinTouchDuration = d
			}
			if n, err := strconv.ParseUint(samplesEntry.Text, 10, 8); err == nil && n > 0 {
				state.cfg.Filter.Samples = uint8(n)
			}
			state.monitor.Configure(state.cfg.Monitor)
			saveConfig(state)
		},
	}

	return container.NewTabItem("Monitor", form)
}

// createMockTab creates the simulated sensor configuration tab.
func createMockTab(state *appState) *container.TabItem {
	float := func(v float32, format string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf(format, v))
		return e
	}
	duration := func(d time.Duration) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(d.String())
		return e
	}
	parseFloat := func(e *widget.Entry, dst *float32) {
		if v, err := strconv.ParseFloat(e.Text, 32); err == nil {
			*dst = float32(v)
		}
	}
	parseDuration := func(e *widget.Entry, dst *time.Duration) {
		if d, err := time.ParseDuration(e.Text); err == nil {
			*dst = d
		}
	}

	m := &state.cfg.Mock
	sampleRateEntry := duration(m.SampleRate)
	resistanceEntry := float(m.Resistance, "%.0f")
	capacitanceEntry := float(m.Capacitance, "%.1f")
	touchCapEntry := float(m.TouchCapacitance, "%.1f")
	noiseEntry := float(m.NoiseLevel, "%.2f")
	touchPeriodEntry := duration(m.TouchPeriod)
	touchDurationEntry := duration(m.TouchDuration)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Sample Rate", Widget: sampleRateEntry},
			{Text: "Resistance (Ω)", Widget: resistanceEntry},
			{Text: "Plate Capacitance (pF)", Widget: capacitanceEntry},
			{Text: "Touch Capacitance (pF)", Widget: touchCapEntry},
			{Text: "Noise (iterations)", Widget: noiseEntry},
			{Text: "Touch Period", Widget: touchPeriodEntry},
			{Text: "Touch Duration", Widget: touchDurationEntry},
		},
		OnSubmit: func() {
			parseDuration(sampleRateEntry, &m.SampleRate)
			parseFloat(resistanceEntry, &m.Resistance)
			parseFloat(capacitanceEntry, &m.Capacitance)
			parseFloat(touchCapEntry, &m.TouchCapacitance)
			parseFloat(noiseEntry, &m.NoiseLevel)
			parseDuration(touchPeriodEntry, &m.TouchPeriod)
			parseDuration(touchDurationEntry, &m.TouchDuration)
			if !saveConfig(state) {
				return
			}
			if state.useMock {
				reconnect(state)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
