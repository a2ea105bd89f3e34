package interaction

import "time"

// Metrics is the slice of the application metrics the pipeline reports to.
// *prometheus.AppMetrics satisfies it.
type Metrics interface {
	ObserveFetch(graph string, d time.Duration, err error)
	ObserveNormalize(graph, shape string, nodes, links, dropped int)
	ObserveStage(stage string, d time.Duration)
	ObserveLayout(ticks int)
	ObserveSync(status string, added, removed int)
	ObserveSnapshot(err error)
	ObserveSuperseded()
	SetActiveViews(n int)
	RecordCacheAccess(cache string, hit bool)
	RecordError(component, code string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveFetch(string, time.Duration, error)      {}
func (noopMetrics) ObserveNormalize(string, string, int, int, int) {}
func (noopMetrics) ObserveStage(string, time.Duration)             {}
func (noopMetrics) ObserveLayout(int)                              {}
func (noopMetrics) ObserveSync(string, int, int)                   {}
func (noopMetrics) ObserveSnapshot(error)                          {}
func (noopMetrics) ObserveSuperseded()                             {}
func (noopMetrics) SetActiveViews(int)                             {}
func (noopMetrics) RecordCacheAccess(string, bool)                 {}
func (noopMetrics) RecordError(string, string)                     {}

// NoopMetrics returns a Metrics that records nothing.
func NoopMetrics() Metrics { return noopMetrics{} }

//Personal.AI order the ending
