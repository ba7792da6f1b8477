package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/docval/pkg/cache"
	"github.com/dmitrymomot/docval/pkg/validator"
)

const namespace = "docval"

// InlineRuleset labels validations whose rules came with the request.
const InlineRuleset = "_inline"

// Collector records validation metrics in its own registry.
//
// Metrics:
//   - docval_validations_total{ruleset, outcome}: outcome is "valid" or "invalid"
//   - docval_validation_duration_seconds{ruleset}
//   - docval_rule_failures_total{ruleset, rule}
//   - docval_compile_errors_total{ruleset}
//   - docval_cache_{hits,misses,evictions}_total{cache} and docval_cache_entries{cache}
type Collector struct {
	registry *prometheus.Registry

	validations   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	ruleFailures  *prometheus.CounterVec
	compileErrors *prometheus.CounterVec
}

// New builds a collector. The registry also carries the Go runtime and
// process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Documents validated, by rule set and outcome.",
		}, []string{"ruleset", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating one document.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"ruleset"}),
		ruleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_failures_total",
			Help:      "Rule failures, by rule set and rule name.",
		}, []string{"ruleset", "rule"}),
		compileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_errors_total",
			Help:      "Rule sets that failed to compile.",
		}, []string{"ruleset"}),
	}

	c.registry.MustRegister(
		c.validations,
		c.duration,
		c.ruleFailures,
		c.compileErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveValidation records one validation of a document against ruleset.
func (c *Collector) ObserveValidation(ruleset string, res *validator.Result, took time.Duration) {
	ruleset = label(ruleset)

	outcome := "valid"
	if res.Failed() {
		outcome = "invalid"
	}
	c.validations.WithLabelValues(ruleset, outcome).Inc()
	c.duration.WithLabelValues(ruleset).Observe(took.Seconds())

	for _, errs := range res.Errors() {
		for _, e := range errs {
			c.ruleFailures.WithLabelValues(ruleset, e.Rule).Inc()
		}
	}
}

// CompileError records a rule set that did not compile.
func (c *Collector) CompileError(ruleset string) {
	c.compileErrors.WithLabelValues(label(ruleset)).Inc()
}

// StatsSource is anything exposing cache counters, such as a ruleset Catalog.
type StatsSource interface {
	Stats() cache.Stats
	Len() int
}

// RegisterCache exposes the counters of src under the cache label name.
func (c *Collector) RegisterCache(name string, src StatsSource) error {
	labels := prometheus.Labels{"cache": name}
	counter := func(metric, help string, read func(cache.Stats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        metric,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return float64(read(src.Stats())) })
	}

	for _, col := range []prometheus.Collector{
		counter("cache_hits_total", "Cache lookups served from memory.", func(s cache.Stats) uint64 { return s.Hits }),
		counter("cache_misses_total", "Cache lookups that had to load.", func(s cache.Stats) uint64 { return s.Misses }),
		counter("cache_evictions_total", "Entries evicted to stay within capacity.", func(s cache.Stats) uint64 { return s.Evictions }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cache_entries",
			Help:        "Entries currently cached.",
			ConstLabels: labels,
		}, func() float64 { return float64(src.Len()) }),
	} {
		if err := c.registry.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		Registry:      c.registry,
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func label(ruleset string) string {
	if ruleset == "" {
		return InlineRuleset
	}
	return ruleset
}
