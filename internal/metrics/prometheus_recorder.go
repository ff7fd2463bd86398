package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pagesmith"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	rebuildDuration *prom.HistogramVec
	rebuilds        *prom.CounterVec
	pages           prom.Gauge
	staticFiles     prom.Gauge
	watchRetries    prom.Counter
	requests        *prom.CounterVec
	requestDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a private registry, which is useful in tests.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		rebuildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Duration of site rebuilds by scope",
			Buckets:   prom.DefBuckets,
		}, []string{"scope"}),
		rebuilds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Rebuilds by scope and result",
		}, []string{"scope", "result"}),
		pages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pages",
			Help:      "Pages in the current snapshot",
		}),
		staticFiles: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "static_files",
			Help:      "Static files in the current snapshot",
		}),
		watchRetries: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_retries_total",
			Help:      "Times the filesystem watcher was re-established",
		}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status class",
		}, []string{"method", "class"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"method"}),
	}
	reg.MustRegister(pr.rebuildDuration, pr.rebuilds, pr.pages, pr.staticFiles,
		pr.watchRetries, pr.requests, pr.requestDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveRebuild(scope string, result ResultLabel, d time.Duration) {
	if p == nil {
		return
	}
	p.rebuildDuration.WithLabelValues(scope).Observe(d.Seconds())
	p.rebuilds.WithLabelValues(scope, string(result)).Inc()
}

func (p *PrometheusRecorder) SetSiteSize(pages, staticFiles int) {
	if p == nil {
		return
	}
	p.pages.Set(float64(pages))
	p.staticFiles.Set(float64(staticFiles))
}

func (p *PrometheusRecorder) IncWatchRetry() {
	if p == nil {
		return
	}
	p.watchRetries.Inc()
}

func (p *PrometheusRecorder) ObserveRequest(method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(method, strconv.Itoa(status/100)+"xx").Inc()
	p.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}
