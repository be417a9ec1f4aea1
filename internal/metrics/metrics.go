// Package metrics holds the bridge's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all bridge metrics
type Metrics struct {
	Exchanges        prometheus.Counter
	ExchangeDuration prometheus.Histogram
	DefaultedNumbers prometheus.Counter
	SensorAccess     *prometheus.CounterVec
	LoopSteps        *prometheus.CounterVec
	StreamClients    *prometheus.GaugeVec

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a private registry
// together with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		Exchanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stormbridge",
			Subsystem: "exchange",
			Name:      "requests_total",
			Help:      "Total number of channel exchanges served",
		}),
		ExchangeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stormbridge",
			Subsystem: "exchange",
			Name:      "duration_seconds",
			Help:      "Time spent decoding inputs and encoding outputs",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05},
		}),
		DefaultedNumbers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stormbridge",
			Subsystem: "exchange",
			Name:      "defaulted_numbers_total",
			Help:      "Numeric parameters that failed to parse and were read as 0",
		}),
		SensorAccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stormbridge",
			Subsystem: "sensor",
			Name:      "access_total",
			Help:      "Sensor accesses by sensor and result",
		}, []string{"sensor", "result"}),
		LoopSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stormbridge",
			Subsystem: "control",
			Name:      "steps_total",
			Help:      "Control loop steps by result",
		}, []string{"result"}),
		StreamClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stormbridge",
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Connected live-stream clients by transport",
		}, []string{"transport"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Exchanges,
		m.ExchangeDuration,
		m.DefaultedNumbers,
		m.SensorAccess,
		m.LoopSteps,
		m.StreamClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// UnknownSensor is the sensor label of failed accesses. Failed names come
// from callers and are not used as labels.
const UnknownSensor = "unknown"

// RecordSensorAccess counts one sensor access.
func (m *Metrics) RecordSensorAccess(sensor string, err error) {
	if err != nil {
		m.SensorAccess.WithLabelValues(UnknownSensor, "error").Inc()
		return
	}
	m.SensorAccess.WithLabelValues(sensor, "ok").Inc()
}
