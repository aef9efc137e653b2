package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors registered with a single Registerer.
type PrometheusHooks struct {
	rounds        *prometheus.CounterVec
	roundDuration *prometheus.HistogramVec
	frontier      prometheus.Gauge
	records       *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewPrometheusHooks registers the shapereach collectors with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusHooks{
		rounds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapereach",
			Name:      "enumeration_rounds_total",
			Help:      "Enumeration rounds completed, by outcome.",
		}, []string{"status"}),
		roundDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shapereach",
			Name:      "enumeration_round_duration_seconds",
			Help:      "Wall time of one enumeration round.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		frontier: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "shapereach",
			Name:      "enumeration_frontier_size",
			Help:      "Number of shapes expanded by the current round.",
		}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapereach",
			Name:      "enumeration_records_total",
			Help:      "Table entries produced, by method.",
		}, []string{"method"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapereach",
			Name:      "cache_hits_total",
			Help:      "Cache hits by key type.",
		}, []string{"type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapereach",
			Name:      "cache_misses_total",
			Help:      "Cache misses by key type.",
		}, []string{"type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapereach",
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapereach",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shapereach",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *PrometheusHooks) OnRoundStart(_ context.Context, _ string, _ int, frontier int) {
	p.frontier.Set(float64(frontier))
}

func (p *PrometheusHooks) OnRoundComplete(_ context.Context, _ string, round, _ int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	phase := "expand"
	if round == 0 {
		phase = "seed"
	}
	p.rounds.WithLabelValues(status).Inc()
	p.roundDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnRecord(_ context.Context, _ string, method string) {
	p.records.WithLabelValues(method).Inc()
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.cacheHits.WithLabelValues(keyType).Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheMisses.WithLabelValues(keyType).Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, statusCode int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ EnumerationHooks = (*PrometheusHooks)(nil)
	_ CacheHooks       = (*PrometheusHooks)(nil)
	_ HTTPHooks        = (*PrometheusHooks)(nil)
)
