package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flashcard"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	stepSeconds    *prometheus.HistogramVec
	decksGenerated *prometheus.CounterVec
	eventsConsumed *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache lookups that returned a value.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache lookups that found nothing usable.",
		}, []string{"cache"}),
		stepSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_step_seconds",
			Help:      "Duration of each generation pipeline step.",
			Buckets:   []float64{.005, .025, .1, .5, 1, 2.5, 5, 15, 30, 60, 120},
		}, []string{"step"}),
		decksGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decks_generated_total",
			Help:      "Generated decks by source.",
		}, []string{"source"}),
		eventsConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "Domain events received from the broker.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.cacheHits,
		m.cacheMisses,
		m.stepSeconds,
		m.decksGenerated,
		m.eventsConsumed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) CacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

func (m *Metrics) ObserveStep(step string, d time.Duration) {
	m.stepSeconds.WithLabelValues(step).Observe(d.Seconds())
}

// DeckGenerated counts a finished generation; fromCache selects the label.
func (m *Metrics) DeckGenerated(fromCache bool) {
	source := "pipeline"
	if fromCache {
		source = "cache"
	}
	m.decksGenerated.WithLabelValues(source).Inc()
}

func (m *Metrics) EventConsumed(eventType string) {
	m.eventsConsumed.WithLabelValues(eventType).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
