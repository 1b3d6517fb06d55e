// Package metrics provides Prometheus metrics for scans and tree model rebuilds.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sjzsdu/projview/project/scan"
)

var (
	// Scan metrics
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projview_scans_total",
			Help: "Total number of finished scans",
		},
		[]string{"status"},
	)

	scansInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "projview_scans_in_flight",
			Help: "Number of scans currently running",
		},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "projview_scan_duration_seconds",
			Help:    "Scan duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	scannedFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projview_scanned_files_total",
			Help: "Total files produced by scans",
		},
	)

	scannedDirectoriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projview_scanned_directories_total",
			Help: "Total directories expanded by scans",
		},
	)

	skippedEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projview_skipped_entries_total",
			Help: "Total entries skipped by filters, ignore rules and cycle protection",
		},
	)

	// Model metrics
	modelRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projview_model_rebuilds_total",
			Help: "Total number of project wrapper rebuilds",
		},
	)

	modelRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "projview_model_rebuild_duration_seconds",
			Help:    "Project wrapper rebuild duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	modelNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "projview_model_nodes",
			Help: "Number of presentation nodes per project",
		},
		[]string{"project"},
	)

	// Watch metrics
	watchEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projview_watch_events_total",
			Help: "Total file system events received by watch",
		},
		[]string{"op"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Recorder 实现扫描器和展示模型的指标回调
type Recorder struct{}

// NewRecorder creates a recorder backed by the default registry.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) ScanStarted(string) {
	scansInFlight.Inc()
}

func (r *Recorder) ScanFinished(stats scan.Stats) {
	scansInFlight.Dec()
	status := "completed"
	if stats.Canceled {
		status = "canceled"
	}
	scansTotal.WithLabelValues(status).Inc()
	scanDuration.Observe(stats.Duration.Seconds())
	scannedFilesTotal.Add(float64(stats.Files))
	scannedDirectoriesTotal.Add(float64(stats.Directories))
	skippedEntriesTotal.Add(float64(stats.Skipped))
}

func (r *Recorder) ModelRebuilt(projectName string, nodes int, duration time.Duration) {
	modelRebuildsTotal.Inc()
	modelRebuildDuration.Observe(duration.Seconds())
	modelNodes.WithLabelValues(projectName).Set(float64(nodes))
}

// RecordWatchEvent records a file system event seen by the watch command.
func RecordWatchEvent(op string) {
	watchEventsTotal.WithLabelValues(op).Inc()
}
