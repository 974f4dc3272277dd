package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gotouch/pkg/config"
	"github.com/itohio/gotouch/pkg/device"
	"github.com/itohio/gotouch/pkg/metrics"
	"github.com/itohio/gotouch/pkg/monitor"
	"github.com/itohio/gotouch/pkg/sample"
	"github.com/itohio/gotouch/pkg/scope"
)

func main() {
	var (
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag    = flag.Bool("mock", false, "Use simulated sensors instead of serial port")
		metricsFlag = flag.String("metrics", "", "Prometheus listen address (e.g., :2112, overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *metricsFlag != "" {
		cfg.Metrics.Listen = *metricsFlag
	}

	var exporter *metrics.Metrics
	if cfg.Metrics.Listen != "" {
		exporter = metrics.New()
		exporter.Serve(cfg.Metrics.Listen)
	}

	application := app.NewWithID("com.itohio.gotouch")

	window := application.NewWindow("Touch Monitor")
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		monitor:    monitor.New(cfg),
		metrics:    exporter,
		window:     window,
		useMock:    *mockFlag,
	}

	toolbar := createToolbar(state)
	state.rows = newSensorRows(cfg.Sensors)
	state.touchList = newTouchList(state)
	state.scopeWidget = scope.New(cfg)

	state.monitor.OnUpdate(state.onUpdate)

	side := container.NewBorder(
		widget.NewLabelWithStyle("Touches", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		state.touchList,
	)
	content := container.NewBorder(
		container.NewVBox(toolbar, state.rows.container()),
		nil,
		nil,
		side,
		state.scopeWidget,
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		closeChain(state.chain)
	})
	window.ShowAndRun()
}

// chain tracks the components of the sample chain for graceful shutdown.
type chain struct {
	device        device.Device
	samplesStream <-chan sample.Sample
	monitorDone   chan struct{} // Closed when the monitor goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	configPath  string
	device      device.Device
	monitor     *monitor.Monitor
	metrics     *metrics.Metrics
	scopeWidget *scope.ScopeWidget
	rows        *sensorRows
	touchList   *widget.List
	window      fyne.Window
	connectBtn  *widget.Button
	filterSel   *widget.Select
	useMock     bool
	chain       *chain

	// Snapshot shown by the touch list, newest first (main thread only)
	recent []monitor.Touch

	// Throttling for UI updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect, Settings and
// the filter selector.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	current := device.FilterFromConfig(state.cfg.Filter)
	addFilterChoice(current)
	filterSel := widget.NewSelect(filterLabels(), func(selected string) {
		handleFilterChange(state, selected)
	})
	filterSel.SetSelected(filterLabel(current))
	state.filterSel = filterSel

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn),
		container.NewHBox(widget.NewLabel("Filter"), filterSel),
		nil,
	)
}

// handleFilterChange stores the selected filter and sends it to a connected
// device.
func handleFilterChange(state *appState, selected string) {
	f, ok := filterByLabel(selected)
	if !ok {
		return
	}
	state.cfg.Filter = filterConfig(state.cfg.Filter, f)

	if state.device == nil || !state.device.IsConnected() {
		return
	}
	if err := state.device.SetFilter(f); err != nil {
		dialog.ShowError(fmt.Errorf("failed to set filter: %w", err), state.window)
	}
}

// onUpdate is the monitor callback. Metrics see every sample, the UI is
// throttled.
func (state *appState) onUpdate(samples []sample.Sample, touches []monitor.Touch) {
	if len(samples) == 0 {
		return
	}
	latest := samples[len(samples)-1]
	if state.metrics != nil {
		state.metrics.Observe(latest)
	}

	const updateInterval = 16 * time.Millisecond // ~60 FPS
	state.updateMu.Lock()
	now := time.Now()
	if now.Sub(state.lastUpdateTime) < updateInterval {
		state.updateMu.Unlock()
		return
	}
	state.lastUpdateTime = now
	state.updateMu.Unlock()

	fyne.Do(func() {
		state.rows.update(latest)
		state.recent = recentTouches(touches, maxRecentTouches)
		state.touchList.Refresh()
		state.scopeWidget.UpdateData(samples, touches)
	})
}

// closeChain gracefully closes the sample chain.
// Waits for the monitor goroutine to drain the stream.
func closeChain(c *chain) {
	if c == nil {
		return
	}

	// Closing the device closes its samples channel, which closes the
	// converter output and ends the monitor goroutine.
	if c.device != nil {
		c.device.Close()
	}

	if c.monitorDone != nil {
		<-c.monitorDone
	}
}

// newDevice creates the configured device.
func newDevice(state *appState) device.Device {
	if state.useMock {
		return device.NewMock(&state.cfg.Mock, state.cfg.Sensors)
	}
	return device.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, device.DefaultBufferSize)
}

// describeDevice names the device for messages.
func describeDevice(state *appState) string {
	if state.useMock {
		return "simulated sensors"
	}
	return state.cfg.Serial.Port
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		closeChain(state.chain)
		state.chain = nil
		state.device = nil
		state.rows.reset()
		log.Printf("Disconnected from %s", describeDevice(state))
		return
	}

	dev := newDevice(state)
	if err := dev.Connect(); err != nil {
		dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", describeDevice(state), err), state.window)
		return
	}
	state.device = dev
	log.Printf("Connected to %s", describeDevice(state))

	if err := dev.SetFilter(device.FilterFromConfig(state.cfg.Filter)); err != nil {
		log.Printf("Failed to set filter: %v", err)
	}

	state.monitor.ResetShutdown()

	samplesStream := sample.NewConverter(state.cfg, 500)(dev.Samples())

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		state.monitor.ProcessSamples(samplesStream)
	}()

	state.chain = &chain{
		device:        dev,
		samplesStream: samplesStream,
		monitorDone:   monitorDone,
	}
}
