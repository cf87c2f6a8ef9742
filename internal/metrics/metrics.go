// Package metrics holds process-local lifecycle counters. The counters themselves are
// lock-free atomics with relaxed ordering (monotonic per-counter is sufficient for
// observability, per SPEC_FULL.md §5); a Prometheus exporter mirrors them for scrape-based
// monitoring without becoming the system of record.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Counters tracks session lifecycle events. Zero value is ready to use.
type Counters struct {
	sessionsCreated   atomic.Uint64
	sessionsCompleted atomic.Uint64
	sessionsPlaying   atomic.Uint64
}

func New() *Counters { return &Counters{} }

func (c *Counters) IncSessionsCreated()   { c.sessionsCreated.Add(1) }
func (c *Counters) IncSessionsCompleted() { c.sessionsCompleted.Add(1) }
func (c *Counters) IncSessionsPlaying()   { c.sessionsPlaying.Add(1) }

// Snapshot is the JSON-serialisable view returned by GET /v1/metrics.
type Snapshot struct {
	SessionsCreated   uint64 `json:"sessionsCreated"`
	SessionsCompleted uint64 `json:"sessionsCompleted"`
	SessionsPlaying   uint64 `json:"sessionsPlaying"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		SessionsCreated:   c.sessionsCreated.Load(),
		SessionsCompleted: c.sessionsCompleted.Load(),
		SessionsPlaying:   c.sessionsPlaying.Load(),
	}
}

// PrometheusExporter mirrors Counters onto Prometheus gauges on demand (Collect reads the
// atomics at scrape time rather than keeping a second source of truth).
type PrometheusExporter struct {
	counters          *Counters
	sessionsCreated   prometheus.GaugeFunc
	sessionsCompleted prometheus.GaugeFunc
	sessionsPlaying   prometheus.GaugeFunc

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewPrometheusExporter registers a set of collectors against registry that mirror
// counters at scrape time, plus HTTP request counters/duration histograms for the ambient
// observability layer. RequestsTotal and RequestDuration are only registered here; no
// middleware in this module records into them, so they stay at zero.
func NewPrometheusExporter(counters *Counters, registry prometheus.Registerer) *PrometheusExporter {
	e := &PrometheusExporter{counters: counters}

	e.sessionsCreated = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "rgs_sessions_created_total", Help: "Total sessions created."},
		func() float64 { return float64(counters.sessionsCreated.Load()) },
	)
	e.sessionsCompleted = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "rgs_sessions_completed_total", Help: "Total sessions completed."},
		func() float64 { return float64(counters.sessionsCompleted.Load()) },
	)
	e.sessionsPlaying = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "rgs_sessions_playing_total", Help: "Total sessions that entered Playing."},
		func() float64 { return float64(counters.sessionsPlaying.Load()) },
	)

	e.RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rgs_http_requests_total", Help: "HTTP requests by route and status."},
		[]string{"route", "status"},
	)
	e.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "rgs_http_request_duration_seconds", Help: "HTTP request latency."},
		[]string{"route"},
	)

	registry.MustRegister(e.sessionsCreated, e.sessionsCompleted, e.sessionsPlaying, e.RequestsTotal, e.RequestDuration)
	return e
}
