package metrics

import "time"

// ResultLabel enumerates rebuild outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines the metrics surface used by the coordinator and server.
type Recorder interface {
	ObserveRebuild(scope string, result ResultLabel, d time.Duration)
	SetSiteSize(pages, staticFiles int)
	IncWatchRetry()
	ObserveRequest(method string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRebuild(string, ResultLabel, time.Duration) {}
func (NoopRecorder) SetSiteSize(int, int)                              {}
func (NoopRecorder) IncWatchRetry()                                    {}
func (NoopRecorder) ObserveRequest(string, int, time.Duration)         {}
