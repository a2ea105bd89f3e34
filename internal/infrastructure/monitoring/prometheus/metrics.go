package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the metric families of the interaction pipeline.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Upstream fetches
	UpstreamFetchTotal    CounterVec
	UpstreamFetchDuration HistogramVec

	// Pipeline stages
	NormalizeTotal        CounterVec
	NormalizeDroppedLinks CounterVec
	GraphSize             HistogramVec
	StageDuration         HistogramVec
	LayoutTicks           HistogramVec

	// Viewer synchronization
	ViewerSyncTotal       CounterVec
	ViewerRepresentations CounterVec
	ViewerCommandsTotal   CounterVec
	ViewsActive           GaugeVec
	SnapshotExportsTotal  CounterVec
	LoadsSupersededTotal  CounterVec

	// Infrastructure
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	ErrorsTotal      CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultStageDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultGraphSizeBuckets     = []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}
	DefaultTickBuckets          = []float64{0, 10, 50, 100, 200, 300, 500, 1000}
)

// NewAppMetrics registers every family on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.UpstreamFetchTotal = collector.RegisterCounter("upstream_fetch_total", "Upstream interaction fetches", "graph", "status")
	m.UpstreamFetchDuration = collector.RegisterHistogram("upstream_fetch_duration_seconds", "Upstream fetch duration", DefaultHTTPDurationBuckets, "graph")

	m.NormalizeTotal = collector.RegisterCounter("normalize_total", "Normalized payloads by detected shape", "graph", "shape")
	m.NormalizeDroppedLinks = collector.RegisterCounter("normalize_dropped_links_total", "Links dropped for unresolvable endpoints", "graph")
	m.GraphSize = collector.RegisterHistogram("graph_size", "Nodes and links per normalized graph", DefaultGraphSizeBuckets, "graph", "element")
	m.StageDuration = collector.RegisterHistogram("pipeline_stage_duration_seconds", "Pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.LayoutTicks = collector.RegisterHistogram("layout_ticks", "Force simulation ticks per run", DefaultTickBuckets)

	m.ViewerSyncTotal = collector.RegisterCounter("viewer_sync_total", "Viewer synchronizations by outcome", "status")
	m.ViewerRepresentations = collector.RegisterCounter("viewer_representations_total", "Viewer representations installed or retracted", "op")
	m.ViewerCommandsTotal = collector.RegisterCounter("viewer_commands_published_total", "Viewer commands forwarded to the message bus", "status")
	m.ViewsActive = collector.RegisterGauge("views_active", "Open interaction views")
	m.SnapshotExportsTotal = collector.RegisterCounter("snapshot_exports_total", "Layout snapshot exports", "status")
	m.LoadsSupersededTotal = collector.RegisterCounter("loads_superseded_total", "View loads discarded in favour of a newer one")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// NewNoopAppMetrics returns metrics that record nothing.
func NewNoopAppMetrics() *AppMetrics {
	return NewAppMetrics(noopCollector{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveHTTP records one served request.
func (m *AppMetrics) ObserveHTTP(method, path string, statusCode int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveFetch records one upstream fetch of graph.
func (m *AppMetrics) ObserveFetch(graph string, d time.Duration, err error) {
	m.UpstreamFetchTotal.WithLabelValues(graph, status(err)).Inc()
	m.UpstreamFetchDuration.WithLabelValues(graph).Observe(d.Seconds())
}

// ObserveNormalize records the outcome of normalizing one payload.
func (m *AppMetrics) ObserveNormalize(graph, shape string, nodes, links, dropped int) {
	if shape == "" {
		shape = "empty"
	}
	m.NormalizeTotal.WithLabelValues(graph, shape).Inc()
	if dropped > 0 {
		m.NormalizeDroppedLinks.WithLabelValues(graph).Add(float64(dropped))
	}
	m.GraphSize.WithLabelValues(graph, "nodes").Observe(float64(nodes))
	m.GraphSize.WithLabelValues(graph, "links").Observe(float64(links))
}

// ObserveStage records the duration of one pipeline stage.
func (m *AppMetrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveLayout records the ticks one layout run took.
func (m *AppMetrics) ObserveLayout(ticks int) {
	m.LayoutTicks.WithLabelValues().Observe(float64(ticks))
}

// ObserveSync implements the viewer synchronizer's observer.
func (m *AppMetrics) ObserveSync(status string, added, removed int) {
	m.ViewerSyncTotal.WithLabelValues(status).Inc()
	if added > 0 {
		m.ViewerRepresentations.WithLabelValues("added").Add(float64(added))
	}
	if removed > 0 {
		m.ViewerRepresentations.WithLabelValues("removed").Add(float64(removed))
	}
}

// ObservePublish records one viewer command forwarded to the bus.
func (m *AppMetrics) ObservePublish(err error) {
	m.ViewerCommandsTotal.WithLabelValues(status(err)).Inc()
}

// ObserveSnapshot records one snapshot export.
func (m *AppMetrics) ObserveSnapshot(err error) {
	m.SnapshotExportsTotal.WithLabelValues(status(err)).Inc()
}

// ObserveSuperseded counts a discarded load.
func (m *AppMetrics) ObserveSuperseded() {
	m.LoadsSupersededTotal.WithLabelValues().Inc()
}

// SetActiveViews sets the open view gauge.
func (m *AppMetrics) SetActiveViews(n int) {
	m.ViewsActive.WithLabelValues().Set(float64(n))
}

// RecordCacheAccess counts a hit or a miss on cache.
func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordError counts an error of component by code.
func (m *AppMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
