package interaction

import (
	"time"

	"github.com/turtacn/interactome/internal/config"
	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/layout"
	"github.com/turtacn/interactome/internal/domain/selection"
)

// PipelineConfig parameterises one recomputation pass.
type PipelineConfig struct {
	// Ticks is the synchronous layout budget per pass.
	Ticks int
	// EdgeSpacing separates parallel edges.
	EdgeSpacing float64
	Layout      layout.Config
}

// DefaultPipelineConfig mirrors the config package defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Ticks:       config.DefaultLayoutTicks,
		EdgeSpacing: config.DefaultLayoutEdgeSpacing,
		Layout:      layout.DefaultConfig(),
	}
}

// PipelineConfigFrom maps the layout configuration section.
func PipelineConfigFrom(c config.LayoutConfig) PipelineConfig {
	lc := layout.Config{
		Width:          c.Width,
		Height:         c.Height,
		Charge:         c.Charge,
		CollidePadding: c.CollidePad,
		BaseRadius:     c.BaseRadius,
		RadiusScale:    c.RadiusScale,
		MaxRadius:      c.MaxRadius,
	}
	if c.LinkDistance > 0 {
		lc.LinkDistance = layout.TypedLinkDistanceOr(c.LinkDistance)
	}
	pc := PipelineConfig{Ticks: c.Ticks, EdgeSpacing: c.EdgeSpacing, Layout: lc}
	if pc.Ticks <= 0 {
		pc.Ticks = config.DefaultLayoutTicks
	}
	if pc.EdgeSpacing <= 0 {
		pc.EdgeSpacing = config.DefaultLayoutEdgeSpacing
	}
	return pc
}

// FilterStateFrom maps the filter section onto the state new views start
// with.  Every known type starts active.
func FilterStateFrom(c config.FilterConfig) domain.FilterState {
	st := domain.NewFilterState(domain.AllTypes()...)
	st.ShowIsolated = c.ShowIsolated
	if c.ProximalThreshold > 0 {
		p := c.ProximalThreshold
		st.ProximalThreshold = &p
	}
	return st
}

// ServiceConfigFrom builds the service defaults from a loaded Config.  An
// unknown filter.mode falls back to atom mode.
func ServiceConfigFrom(c *config.Config) ServiceConfig {
	mode, err := selection.ParseMode(c.Filter.Mode)
	if err != nil {
		mode = selection.ModeAtom
	}
	return ServiceConfig{
		Pipeline: PipelineConfigFrom(c.Layout),
		Filters:  FilterStateFrom(c.Filter),
		Mode:     mode,
		MaxViews: c.Server.MaxViews,
	}
}

// Frame is the output of one pass up to, but excluding, viewer sync.
type Frame struct {
	Mode    selection.Mode     `json:"mode"`
	Filters domain.FilterState `json:"filters"`
	Census  domain.Census      `json:"census"`

	Nodes             []domain.Node                  `json:"nodes"`
	Links             []domain.Link                  `json:"links"`
	VisibleTypeCounts map[domain.InteractionType]int `json:"visible_type_counts"`
	Positions         []layout.Position              `json:"positions"`
	Edges             []layout.EdgePath              `json:"edges"`
	Ticks             int                            `json:"ticks"`

	Selection    string                `json:"selection,omitempty"`
	HasSelection bool                  `json:"has_selection"`
	Pairs        []selection.TypePairs `json:"pairs"`
}

// stageTimer reports stage durations.
type stageTimer struct {
	metrics Metrics
	start   time.Time
}

func (t *stageTimer) lap(stage string) {
	now := time.Now()
	t.metrics.ObserveStage(stage, now.Sub(t.start))
	t.start = now
}

// computeFrame runs Filter, Layout and Selection over visual, and derives
// distance-line pairs from highlight under the same filter state.  sim keeps
// positions across calls and is advanced by cfg.Ticks.
func computeFrame(visual, highlight *domain.Graph, st domain.FilterState, mode selection.Mode,
	sim *layout.Simulation, cfg PipelineConfig, metrics Metrics) Frame {
	t := &stageTimer{metrics: metrics, start: time.Now()}

	res := domain.Filter(visual, st)
	t.lap("filter")

	sim.Update(res.Graph())
	ticks := sim.Run(cfg.Ticks)
	positions := sim.Snapshot()
	edges := layout.EdgePaths(positions, res.Links, cfg.EdgeSpacing)
	metrics.ObserveLayout(ticks)
	t.lap("layout")

	sel, ok := selection.Compile(res.Nodes, mode)
	var pairs []selection.TypePairs
	if highlight != nil {
		hres := domain.Filter(highlight, st)
		pairs = selection.OrderedPairs(selection.AtomPairs(hres.Nodes, hres.Links))
	}
	if pairs == nil {
		pairs = []selection.TypePairs{}
	}
	t.lap("selection")

	return Frame{
		Mode:              mode,
		Filters:           st.Clone(),
		Census:            domain.TakeCensus(visual),
		Nodes:             res.Nodes,
		Links:             res.Links,
		VisibleTypeCounts: res.VisibleTypeCounts,
		Positions:         positions,
		Edges:             edges,
		Ticks:             ticks,
		Selection:         sel,
		HasSelection:      ok,
		Pairs:             pairs,
	}
}

// AnalyzeInput is a stateless pass over payloads supplied by the caller.
type AnalyzeInput struct {
	// Payload feeds the visual graph.
	Payload []byte
	// ViewerPayload, when set, feeds distance-line pairs in place of Payload.
	ViewerPayload []byte
	// Base is the state Filters apply to.  A nil Types map starts with every
	// known type active.
	Base domain.FilterState
	Filters       *FilterUpdate
	Mode          string
	Ticks         int
}

// AnalyzeResult is the Frame plus normalization diagnostics.
type AnalyzeResult struct {
	Frame
	Report       domain.Report  `json:"report"`
	ViewerReport *domain.Report `json:"viewer_report,omitempty"`
}

// Analyze normalizes, filters, lays out and compiles selections in one call.
// The filter starts from in.Base.  Malformed payloads are an
// error here because the caller supplied them directly.
func Analyze(in AnalyzeInput, cfg PipelineConfig, metrics Metrics) (*AnalyzeResult, error) {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	mode, err := selection.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}
	g, rep, err := domain.NormalizeJSONWithReport(in.Payload)
	if err != nil {
		return nil, err
	}
	metrics.ObserveNormalize("request", rep.Shape, len(g.Nodes), len(g.Links), rep.DroppedLinks)

	out := &AnalyzeResult{Report: rep}
	highlight := g
	if len(in.ViewerPayload) > 0 {
		hg, hrep, err := domain.NormalizeJSONWithReport(in.ViewerPayload)
		if err != nil {
			return nil, err
		}
		highlight = hg
		out.ViewerReport = &hrep
	}

	st := in.Base.Clone()
	if in.Base.Types == nil {
		st = domain.NewFilterState(domain.AllTypes()...)
	}
	if in.Filters != nil {
		if err := in.Filters.Apply(&st, domain.TakeCensus(g)); err != nil {
			return nil, err
		}
	}
	if in.Ticks > 0 {
		cfg.Ticks = in.Ticks
	}
	out.Frame = computeFrame(g, highlight, st, mode, layout.NewSimulation(cfg.Layout), cfg, metrics)
	return out, nil
}

//Personal.AI order the ending
