// Package metrics exposes Prometheus counters and histograms for
// signature builds, diff plans, and patch applies, so a long-running
// sync service can be scraped rather than only logged.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrexox/godsync/internal/delta"
)

// Recorder wraps a dedicated Prometheus registry with the counters and
// histograms this package's operations drive. Using a private registry
// rather than the global default lets a caller embed more than one
// Recorder in a process (e.g. one per sync-tree job) without collisions.
type Recorder struct {
	registry *prometheus.Registry

	signaturesBuilt  prometheus.Counter
	signatureSeconds prometheus.Histogram

	chunksCopied   prometheus.Counter
	chunksInserted prometheus.Counter
	bytesCopied    prometheus.Counter
	bytesInserted  prometheus.Counter
	dedupRatio     prometheus.Gauge

	applySeconds prometheus.Histogram
	applyErrors  *prometheus.CounterVec

	fetchSeconds *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,

		signaturesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "godsync_signatures_built_total",
			Help: "Total number of signatures built.",
		}),
		signatureSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "godsync_signature_build_seconds",
			Help:    "Time spent building a signature.",
			Buckets: prometheus.DefBuckets,
		}),

		chunksCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "godsync_chunks_copied_total",
			Help: "Total number of target chunks resolved as Copy operations.",
		}),
		chunksInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "godsync_chunks_inserted_total",
			Help: "Total number of target chunks resolved as Insert operations.",
		}),
		bytesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "godsync_bytes_copied_total",
			Help: "Total number of bytes resolved as Copy operations.",
		}),
		bytesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "godsync_bytes_inserted_total",
			Help: "Total number of bytes resolved as Insert operations.",
		}),
		dedupRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "godsync_dedup_ratio_percent",
			Help: "Percentage of the most recent target's chunks found in its source.",
		}),

		applySeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "godsync_apply_seconds",
			Help:    "Time spent applying a patch.",
			Buckets: prometheus.DefBuckets,
		}),
		applyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "godsync_apply_errors_total",
			Help: "Total number of failed patch applies, by error kind.",
		}, []string{"kind"}),

		fetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "godsync_range_fetch_seconds",
			Help:    "Time spent fetching one Insert range in pull mode.",
			Buckets: prometheus.DefBuckets,
		}, []string{"origin"}),
	}

	registry.MustRegister(
		r.signaturesBuilt, r.signatureSeconds,
		r.chunksCopied, r.chunksInserted, r.bytesCopied, r.bytesInserted, r.dedupRatio,
		r.applySeconds, r.applyErrors,
		r.fetchSeconds,
	)

	return r
}

// Registry returns the Recorder's private registry, for wiring into an
// HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveSignatureBuild records one signature build's duration.
func (r *Recorder) ObserveSignatureBuild(d time.Duration) {
	r.signaturesBuilt.Inc()
	r.signatureSeconds.Observe(d.Seconds())
}

// ObservePlan records a planner run's Stats.
func (r *Recorder) ObservePlan(stats delta.Stats) {
	r.chunksCopied.Add(float64(stats.ChunksCopied))
	r.chunksInserted.Add(float64(stats.ChunksInserted))
	r.bytesCopied.Add(float64(stats.BytesCopied))
	r.bytesInserted.Add(float64(stats.BytesInserted))
	r.dedupRatio.Set(stats.DedupRatio())
}

// ObserveApply records one patch apply's duration and, if err is
// non-nil, counts it against kind.
func (r *Recorder) ObserveApply(d time.Duration, kind string, err error) {
	r.applySeconds.Observe(d.Seconds())
	if err != nil {
		r.applyErrors.WithLabelValues(kind).Inc()
	}
}

// ObserveRangeFetch records one pull-mode range fetch's duration.
func (r *Recorder) ObserveRangeFetch(origin string, d time.Duration) {
	r.fetchSeconds.WithLabelValues(origin).Observe(d.Seconds())
}
