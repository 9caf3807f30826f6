package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics tracks the catalog import pipeline.
type ImportMetrics struct {
	rows          *prometheus.CounterVec
	chunks        prometheus.Counter
	chunkFailures prometheus.Counter
	runDuration   prometheus.Histogram
}

// NewImportMetrics registers the import metrics on the provided registerer.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Feed rows seen by the import pipeline, by outcome.",
	}, []string{"outcome"})
	chunks := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_chunks_total",
		Help:      "Chunks processed by the import pipeline.",
	})
	chunkFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_chunk_failures_total",
		Help:      "Chunks that failed and were skipped.",
	})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "import_run_duration_seconds",
		Help:      "Wall-clock duration of full import runs.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
	reg.MustRegister(rows, chunks, chunkFailures, runDuration)
	return &ImportMetrics{
		rows:          rows,
		chunks:        chunks,
		chunkFailures: chunkFailures,
		runDuration:   runDuration,
	}
}

// Row outcomes used with AddRows.
const (
	RowOutcomeProcessed = "processed"
	RowOutcomeSkipped   = "skipped"
	RowOutcomeDropped   = "dropped"
)

// AddRows adds n rows with the given outcome.
func (m *ImportMetrics) AddRows(outcome string, n int) {
	if m == nil || m.rows == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(outcome).Add(float64(n))
}

// IncChunk counts one processed chunk.
func (m *ImportMetrics) IncChunk() {
	if m == nil || m.chunks == nil {
		return
	}
	m.chunks.Inc()
}

// IncChunkFailure counts one failed chunk.
func (m *ImportMetrics) IncChunkFailure() {
	if m == nil || m.chunkFailures == nil {
		return
	}
	m.chunkFailures.Inc()
}

// ObserveRunDuration records a completed run's duration.
func (m *ImportMetrics) ObserveRunDuration(d time.Duration) {
	if m == nil || m.runDuration == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}
