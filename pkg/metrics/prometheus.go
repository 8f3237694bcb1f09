package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	ticks           prometheus.Counter
	seriesGenerated *prometheus.CounterVec
	advisorRequests *prometheus.CounterVec
	quotesPublished *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastBid         *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg. Collectors that are
// already registered are reused.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flowshift_ticker_ticks_total",
			Help: "Total number of quote ticker steps",
		}),
		seriesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowshift_series_generated_total",
				Help: "Total number of price series generated",
			},
			[]string{"regime"},
		),
		advisorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowshift_advisor_requests_total",
				Help: "Chat/analysis bridge calls by operation and result",
			},
			[]string{"op", "result"},
		),
		quotesPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowshift_quotes_published_total",
				Help: "Quote updates handed to the publisher",
			},
			[]string{"symbol"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowshift_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastBid: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flowshift_last_bid",
				Help: "Last simulated bid for a symbol",
			},
			[]string{"symbol"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowshift_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	r.ticks = register(reg, r.ticks)
	r.seriesGenerated = register(reg, r.seriesGenerated)
	r.advisorRequests = register(reg, r.advisorRequests)
	r.quotesPublished = register(reg, r.quotesPublished)
	r.errorsTotal = register(reg, r.errorsTotal)
	r.lastBid = register(reg, r.lastBid)
	r.latency = register(reg, r.latency)
	return r
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// RecordTick counts one ticker step.
func (r *Recorder) RecordTick() {
	r.ticks.Inc()
}

// RecordSeries counts a generated series for regime.
func (r *Recorder) RecordSeries(regime string) {
	r.seriesGenerated.WithLabelValues(regime).Inc()
}

// RecordAdvisor counts a bridge call; result is "ok" or "fallback".
func (r *Recorder) RecordAdvisor(op, result string) {
	r.advisorRequests.WithLabelValues(op, result).Inc()
}

// RecordQuotePublished counts a quote handed to the publisher.
func (r *Recorder) RecordQuotePublished(symbol string) {
	r.quotesPublished.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastBid records the last bid for a symbol.
func (r *Recorder) RecordLastBid(symbol string, bid float64) {
	r.lastBid.WithLabelValues(symbol).Set(bid)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
