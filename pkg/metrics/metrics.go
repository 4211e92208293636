package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus series exported by the service.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamRetries  prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	relaxations      prometheus.Counter
	plans            *prometheus.CounterVec
	planDuration     prometheus.Histogram
}

// NewCollector registers the service metrics on a private registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealweek_upstream_requests_total",
			Help: "Recipe search attempts by outcome class.",
		}, []string{"outcome"}),
		upstreamRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealweek_upstream_retries_total",
			Help: "Recipe search retries scheduled after a transient failure.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealweek_pool_cache_lookups_total",
			Help: "Recipe pool cache lookups by result.",
		}, []string{"result"}),
		relaxations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mealweek_slot_relaxations_total",
			Help: "Slots refetched with the generic search term after an empty pool.",
		}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mealweek_plans_total",
			Help: "Plan generations by outcome.",
		}, []string{"outcome"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealweek_plan_duration_seconds",
			Help:    "Wall time spent assembling a weekly plan.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
	}
	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamRetries,
		c.cacheLookups,
		c.relaxations,
		c.plans,
		c.planDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// UpstreamRequest counts one fetch attempt; outcome is success, retryable, terminal or network.
func (c *Collector) UpstreamRequest(outcome string) {
	if c == nil {
		return
	}
	c.upstreamRequests.WithLabelValues(outcome).Inc()
}

func (c *Collector) UpstreamRetry() {
	if c == nil {
		return
	}
	c.upstreamRetries.Inc()
}

// CacheLookup counts a pool cache lookup; result is hit, miss, stale or error.
func (c *Collector) CacheLookup(result string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) Relaxation() {
	if c == nil {
		return
	}
	c.relaxations.Inc()
}

// PlanCompleted records the outcome code and elapsed time of one plan generation.
func (c *Collector) PlanCompleted(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.plans.WithLabelValues(outcome).Inc()
	c.planDuration.Observe(elapsed.Seconds())
}
