// Package metrics provides observability hooks for the rebuild pipeline and
// the HTTP layer.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so callers never nil-check; PrometheusRecorder registers its
// collectors on a caller-supplied registry which HTTPHandler then exposes.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	coord := reload.NewCoordinator(slot, builder, reload.WithRecorder(rec))
//	router.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
