package rates

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-currency-ledger"
)

const (
	resultHit         = "hit"
	resultMiss        = "miss"
	resultStale       = "stale"
	resultUnavailable = "unavailable"
)

// CacheMetrics counts cache lookups by result: hit, miss (fetched), stale (fallback) or unavailable.
type CacheMetrics struct {
	lookups *prometheus.CounterVec
}

// NewCacheMetrics registers the cache counters with reg.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ledger",
				Subsystem: "rates_cache",
				Name:      "lookups_total",
				Help:      "Rate table lookups by result.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.lookups)
	return m
}

func (m *CacheMetrics) observe(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

// instrumentingService decorates a rates.Service with prometheus metrics
type instrumentingService struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
	next     Service
}

// NewInstrumentingService returns a Service recording fetch outcomes and latency in reg.
func NewInstrumentingService(reg prometheus.Registerer, s Service) Service {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "rates_source",
			Name:      "requests_total",
			Help:      "Requests to the rate source by outcome.",
		},
		[]string{"outcome"},
	)
	latency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Subsystem: "rates_source",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests to the rate source.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	reg.MustRegister(requests, latency)
	return &instrumentingService{
		requests: requests,
		latency:  latency,
		next:     s,
	}
}

func (s *instrumentingService) Rates(ctx context.Context) (rates ledger.Rates, err error) {
	defer func(begin time.Time) {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.requests.WithLabelValues(outcome).Inc()
		s.latency.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return s.next.Rates(ctx)
}
