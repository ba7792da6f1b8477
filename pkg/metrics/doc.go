// Package metrics exposes docval's Prometheus metrics.
//
// A Collector owns a private prometheus.Registry so that tests and embedded
// uses never collide with the global default registry. The HTTP API calls
// ObserveValidation after each validation and CompileError when a rule set
// is rejected; RegisterCache publishes the hit, miss and eviction counters
// of the compiled-validator cache.
//
//	m := metrics.New()
//	_ = m.RegisterCache("validators", catalog)
//	router.Handle("/metrics", m.Handler())
package metrics
