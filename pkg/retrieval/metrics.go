package retrieval

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects counters and latency histograms for index operations.
// All methods are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	documentsIndexed *prometheus.CounterVec
	chunksIndexed    *prometheus.CounterVec
	indexErrors      *prometheus.CounterVec
	searches         *prometheus.CounterVec
	searchDuration   *prometheus.HistogramVec
	searchResults    *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector on its own registry, with the Go
// runtime and process collectors registered alongside the index metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		documentsIndexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ragline_documents_indexed_total",
			Help: "Documents accepted into the vector index",
		}, []string{"backend"}),
		chunksIndexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ragline_chunks_indexed_total",
			Help: "Chunks upserted into the vector index",
		}, []string{"backend"}),
		indexErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ragline_index_errors_total",
			Help: "Failed index operations by stage",
		}, []string{"backend", "stage"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ragline_searches_total",
			Help: "Similarity searches issued against the index",
		}, []string{"backend"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragline_search_duration_seconds",
			Help:    "End to end similarity search latency",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"backend"}),
		searchResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ragline_search_results",
			Help:    "Result count per similarity search after threshold filtering",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		}, []string{"backend"}),
	}

	registry.MustRegister(
		m.documentsIndexed,
		m.chunksIndexed,
		m.indexErrors,
		m.searches,
		m.searchDuration,
		m.searchResults,
	)
	return m
}

// Handler returns an HTTP handler for Prometheus scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeIndexed(backend string, documents, chunks int) {
	m.documentsIndexed.WithLabelValues(backend).Add(float64(documents))
	m.chunksIndexed.WithLabelValues(backend).Add(float64(chunks))
}

func (m *Metrics) observeError(backend, stage string) {
	m.indexErrors.WithLabelValues(backend, stage).Inc()
}

func (m *Metrics) observeSearch(backend string, duration time.Duration, results int) {
	m.searches.WithLabelValues(backend).Inc()
	m.searchDuration.WithLabelValues(backend).Observe(duration.Seconds())
	m.searchResults.WithLabelValues(backend).Observe(float64(results))
}
