package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "condmon_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	snapshotRefreshTotal   *prometheus.CounterVec
	snapshotRefreshLatency *prometheus.HistogramVec
	snapshotReadings       prometheus.Gauge

	dashboardRenderTotal   *prometheus.CounterVec
	dashboardRenderLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		snapshotRefreshTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "snapshot_refresh_total",
				Help: "Total snapshot refreshes by result",
			},
			[]string{"result"},
		)
		snapshotRefreshLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "snapshot_refresh_latency_seconds",
				Help:    "Snapshot refresh latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		snapshotReadings = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "snapshot_readings",
				Help: "Readings in the current snapshot",
			},
		)

		dashboardRenderTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dashboard_render_total",
				Help: "Total dashboard renders by view state",
			},
			[]string{"state"},
		)
		dashboardRenderLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dashboard_render_latency_seconds",
				Help:    "Dashboard render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			snapshotRefreshTotal,
			snapshotRefreshLatency,
			snapshotReadings,
			dashboardRenderTotal,
			dashboardRenderLatency,
			exportTotal,
			exportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveSnapshotRefresh records refresh latency and result.
func ObserveSnapshotRefresh(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if snapshotRefreshTotal != nil {
		snapshotRefreshTotal.WithLabelValues(result).Inc()
	}
	if snapshotRefreshLatency != nil {
		snapshotRefreshLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// SetSnapshotReadings sets the current snapshot size gauge.
func SetSnapshotReadings(count int) {
	if count < 0 {
		count = 0
	}
	if snapshotReadings != nil {
		snapshotReadings.Set(float64(count))
	}
}

// ObserveDashboardRender records render latency by view state.
func ObserveDashboardRender(state string, duration time.Duration) {
	if state == "" {
		state = "unknown"
	}
	if dashboardRenderTotal != nil {
		dashboardRenderTotal.WithLabelValues(state).Inc()
	}
	if dashboardRenderLatency != nil {
		dashboardRenderLatency.WithLabelValues(state).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency by format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
