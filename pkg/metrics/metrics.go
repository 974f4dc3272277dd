// Package metrics exports sensor readings as Prometheus metrics.
package metrics

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itohio/gotouch/pkg/sample"
)

// Metrics holds the sensor collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	samplesTotal   prometheus.Counter
	value          *prometheus.GaugeVec
	touched        *prometheus.GaugeVec
	pressesTotal   *prometheus.CounterVec
	saturatedTotal *prometheus.CounterVec

	mu      sync.Mutex
	pressed map[string]bool

	serverOnce sync.Once
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touch_samples_total",
			Help: "Total number of sensor sweeps received",
		}),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "touch_sensor_value",
			Help: "Last filtered charge time of the sensor",
		}, []string{"sensor"}),
		touched: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "touch_sensor_touched",
			Help: "1 while the sensor value is at or above its threshold",
		}, []string{"sensor"}),
		pressesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touch_sensor_presses_total",
			Help: "Total number of touches started on the sensor",
		}, []string{"sensor"}),
		saturatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "touch_sensor_saturated_total",
			Help: "Total number of readings that hit the overflow value",
		}, []string{"sensor"}),
		pressed: make(map[string]bool),
	}

	m.registry.MustRegister(
		m.samplesTotal,
		m.value,
		m.touched,
		m.pressesTotal,
		m.saturatedTotal,
	)

	return m
}

// Observe records one processed sweep.
func (m *Metrics) Observe(s sample.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.samplesTotal.Inc()
	for _, st := range s.Sensors {
		m.value.WithLabelValues(st.Name).Set(float64(st.Value))

		if st.Touched {
			m.touched.WithLabelValues(st.Name).Set(1)
			if !m.pressed[st.Name] {
				m.pressesTotal.WithLabelValues(st.Name).Inc()
			}
		} else {
			m.touched.WithLabelValues(st.Name).Set(0)
		}
		m.pressed[st.Name] = st.Touched

		if st.Saturated {
			m.saturatedTotal.WithLabelValues(st.Name).Inc()
		}
	}
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler that exposes the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics on addr under /metrics. It returns immediately;
// the server runs until the process exits. Calling it more than once is a no-op.
func (m *Metrics) Serve(addr string) {
	m.serverOnce.Do(func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())

		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server error: %v", err)
			}
		}()
		log.Printf("Serving metrics on %s/metrics", addr)
	})
}
