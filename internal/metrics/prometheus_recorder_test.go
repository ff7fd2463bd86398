package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RecordsRebuildsAndRequests(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveRebuild("full", ResultSuccess, 120*time.Millisecond)
	pr.ObserveRebuild("full", ResultSuccess, 80*time.Millisecond)
	pr.ObserveRebuild("static", ResultFailed, time.Millisecond)
	pr.SetSiteSize(12, 30)
	pr.IncWatchRetry()
	pr.ObserveRequest("GET", 206, time.Millisecond)

	require.InDelta(t, 2, testutil.ToFloat64(pr.rebuilds.WithLabelValues("full", "success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.rebuilds.WithLabelValues("static", "failed")), 0)
	require.InDelta(t, 12, testutil.ToFloat64(pr.pages), 0)
	require.InDelta(t, 30, testutil.ToFloat64(pr.staticFiles), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.watchRetries), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.requests.WithLabelValues("GET", "2xx")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetSiteSize(3, 4)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "pagesmith_pages 3")
}

func TestNoopRecorder_SatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRebuild("full", ResultSuccess, time.Second)
	r.SetSiteSize(1, 1)
	r.IncWatchRetry()
	r.ObserveRequest("GET", 200, time.Second)
}
