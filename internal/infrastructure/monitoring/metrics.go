package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec

	// Copy metrics
	CopiedFiles    *prometheus.CounterVec
	CopiedBytes    *prometheus.CounterVec
	SkippedEntries *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Front-end log lines forwarded to the backend
	FrontendLogs *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON health API
type Snapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	TotalErrors    int64   `json:"total_errors"`
	TotalCommands  int64   `json:"total_commands"`
	FailedCommands int64   `json:"failed_commands"`
	SkippedEntries int64   `json:"skipped_entries"`
	AvgLatencyMs   float64 `json:"avg_latency_ms"`
	UptimeSeconds  float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aiop_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aiop_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aiop_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Command metrics
		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_command_calls_total",
				Help: "Total number of bridge commands",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aiop_command_duration_seconds",
				Help:    "Bridge command duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 30},
			},
			[]string{"command"},
		),
		CommandErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_command_errors_total",
				Help: "Total number of failed bridge commands",
			},
			[]string{"command", "kind"},
		),

		// Copy metrics
		CopiedFiles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_copy_files_total",
				Help: "Files copied by tree copies",
			},
			[]string{"op"},
		),
		CopiedBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_copy_bytes_total",
				Help: "Bytes copied by tree copies",
			},
			[]string{"op"},
		),
		SkippedEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_copy_skipped_entries_total",
				Help: "Entries skipped by tree copies",
			},
			[]string{"op"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aiop_ws_connections",
				Help: "Number of active IPC WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_ws_messages_total",
				Help: "Total number of IPC WebSocket messages",
			},
			[]string{"direction"},
		),

		FrontendLogs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aiop_frontend_log_entries_total",
				Help: "Front-end log entries accepted, by level",
			},
			[]string{"level"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "aiop_uptime_seconds",
			Help: "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCommand records a bridge command and its outcome.
// kind is the error kind of a failed command and empty on success.
func (m *Metrics) RecordCommand(command string, success bool, kind string, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
		if kind == "" {
			kind = "unknown"
		}
		m.CommandErrors.WithLabelValues(command, kind).Inc()
	}
	m.CommandCalls.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalCommands++
	if !success {
		m.snapshot.FailedCommands++
	}
	m.mu.Unlock()
}

// RecordFrontendLog counts one accepted front-end log entry
func (m *Metrics) RecordFrontendLog(level string) {
	m.FrontendLogs.WithLabelValues(level).Inc()
}

// RecordCopy records the outcome of a tree copy
func (m *Metrics) RecordCopy(op string, report *filesystem.CopyReport) {
	m.CopiedFiles.WithLabelValues(op).Add(float64(report.Files))
	m.CopiedBytes.WithLabelValues(op).Add(float64(report.Bytes))
	m.SkippedEntries.WithLabelValues(op).Add(float64(len(report.Skipped)))

	m.mu.Lock()
	m.snapshot.SkippedEntries += int64(len(report.Skipped))
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction string) {
	m.WSMessages.WithLabelValues(direction).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns current totals
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMs = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
