package interaction

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/layout"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/client"
	"github.com/turtacn/interactome/pkg/errors"
)

// ErrSuperseded is returned by a Load whose result was discarded because a
// newer Load of the same view started before it finished.
var ErrSuperseded = errors.New(errors.CodeLoadSuperseded, "load superseded by a newer request")

// MaxStepTicks bounds one continuous-mode Step.
const MaxStepTicks = 1000

// ViewOptions configures a View.
type ViewOptions struct {
	ID          string
	StructureID string
	Mode        selection.Mode
	Filters     domain.FilterState
	Pipeline    PipelineConfig
	Fetcher     Fetcher
	Locator     StructureLocator
	Metrics     Metrics
	Logger      logging.Logger
}

// ViewerState describes the attached viewer.
type ViewerState struct {
	Mounted bool               `json:"mounted"`
	Sync    viewer.SyncOutcome `json:"sync"`
	Error   string             `json:"error,omitempty"`
}

// State is the externally visible result of the latest recomputation.
type State struct {
	ViewID      string `json:"view_id"`
	StructureID string `json:"structure_id"`
	Generation  uint64 `json:"generation"`
	Frame
	Reports   map[client.Kind]domain.Report `json:"reports"`
	Degraded  map[client.Kind]string        `json:"degraded,omitempty"`
	Viewer    ViewerState                   `json:"viewer"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

// LayoutState is the continuous-mode layout after a Step, Drag or Release.
type LayoutState struct {
	Positions []layout.Position `json:"positions"`
	Edges     []layout.EdgePath `json:"edges"`
	Alpha     float64           `json:"alpha"`
	Settled   bool              `json:"settled"`
	Ticks     int               `json:"ticks"`
}

// View is one interaction graph bound to one structure and at most one
// viewer.  Every mutation triggers a single synchronous recomputation;
// fetches are the only work done outside the view lock.
type View struct {
	id          string
	structureID string
	cfg         PipelineConfig
	fetcher     Fetcher
	locator     StructureLocator
	metrics     Metrics
	logger      logging.Logger
	sync        *viewer.Synchronizer

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	loaded   uint64
	graphs   map[client.Kind]*domain.Graph
	reports  map[client.Kind]domain.Report
	degraded map[client.Kind]string
	filters  domain.FilterState
	mode     selection.Mode
	sims     map[selection.Mode]*layout.Simulation
	frame    Frame
	lastSync viewer.SyncOutcome
	syncErr  string
	updated  time.Time
}

// NewView returns an empty view.  Call Load to populate it.
func NewView(opts ViewOptions) *View {
	if opts.Metrics == nil {
		opts.Metrics = noopMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if !opts.Mode.Valid() {
		opts.Mode = selection.ModeAtom
	}
	if opts.Filters.Types == nil {
		opts.Filters = domain.NewFilterState(domain.AllTypes()...)
	}
	if opts.Pipeline.Ticks == 0 && opts.Pipeline.EdgeSpacing == 0 {
		opts.Pipeline = DefaultPipelineConfig()
	}
	logger := opts.Logger.With(logging.String("view_id", opts.ID), logging.String("structure_id", opts.StructureID))

	v := &View{
		id:          opts.ID,
		structureID: opts.StructureID,
		cfg:         opts.Pipeline,
		fetcher:     opts.Fetcher,
		locator:     opts.Locator,
		metrics:     opts.Metrics,
		logger:      logger,
		sync:        viewer.NewSynchronizer(logger, opts.Metrics),
		graphs:      emptyGraphs(),
		reports:     make(map[client.Kind]domain.Report),
		degraded:    make(map[client.Kind]string),
		filters:     opts.Filters.Clone(),
		mode:        opts.Mode,
		sims:        make(map[selection.Mode]*layout.Simulation),
	}
	v.frame = computeFrame(v.visualLocked(), v.highlightLocked(), v.filters, v.mode, v.simLocked(), v.cfg, noopMetrics{})
	return v
}

func emptyGraphs() map[client.Kind]*domain.Graph {
	out := make(map[client.Kind]*domain.Graph, 3)
	for _, k := range client.Kinds() {
		out[k] = &domain.Graph{Nodes: []domain.Node{}, Links: []domain.Link{}}
	}
	return out
}

// ID returns the view id.
func (v *View) ID() string { return v.id }

// StructureID returns the structure the view shows.
func (v *View) StructureID() string { return v.structureID }

// ─────────────────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────────────────

type fetchResult struct {
	kind client.Kind
	raw  json.RawMessage
	err  error
}

// Load fetches the three payloads concurrently, joins them, and only then
// normalizes and recomputes.  A Load started later cancels this one; the
// stale result is discarded with ErrSuperseded.  Fetch failures degrade the
// affected graph to empty and are reported in State.Degraded.
func (v *View) Load(ctx context.Context) (*State, error) {
	if v.fetcher == nil {
		return nil, errors.New(errors.CodeUpstreamUnavailable, "no upstream configured")
	}

	v.mu.Lock()
	v.gen++
	gen := v.gen
	if v.cancel != nil {
		v.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	start := time.Now()
	results := v.fetchAll(fctx)
	v.metrics.ObserveStage("fetch", time.Since(start))

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.metrics.ObserveSuperseded()
		v.logger.Debug("discarding superseded load", logging.Uint64("generation", gen))
		return nil, ErrSuperseded
	}
	v.cancel = nil
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "load cancelled")
	}

	nstart := time.Now()
	for _, r := range results {
		v.commitLocked(r)
	}
	v.metrics.ObserveStage("normalize", time.Since(nstart))
	v.loaded = gen

	return v.recomputeLocked(ctx), nil
}

func (v *View) fetchAll(ctx context.Context) []fetchResult {
	kinds := client.Kinds()
	results := make([]fetchResult, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		i, k := i, k
		g.Go(func() error {
			start := time.Now()
			raw, err := v.fetcher.Fetch(gctx, k, v.structureID)
			v.metrics.ObserveFetch(string(k), time.Since(start), err)
			results[i] = fetchResult{kind: k, raw: raw, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// commitLocked normalizes one payload, degrading to an empty graph.
func (v *View) commitLocked(r fetchResult) {
	delete(v.degraded, r.kind)
	if r.err != nil {
		v.degradeLocked(r.kind, r.err, "fetch")
		return
	}
	g, rep, err := domain.NormalizeJSONWithReport(r.raw)
	v.graphs[r.kind] = g
	v.reports[r.kind] = rep
	if err != nil {
		v.degradeLocked(r.kind, err, "normalize")
		return
	}
	v.metrics.ObserveNormalize(string(r.kind), rep.Shape, len(g.Nodes), len(g.Links), rep.DroppedLinks)
	if rep.DroppedLinks > 0 {
		v.logger.Debug("links dropped during normalization",
			logging.String("kind", string(r.kind)), logging.Int("dropped", rep.DroppedLinks))
	}
}

func (v *View) degradeLocked(kind client.Kind, err error, stage string) {
	v.graphs[kind] = &domain.Graph{Nodes: []domain.Node{}, Links: []domain.Link{}}
	v.reports[kind] = domain.Report{}
	v.degraded[kind] = err.Error()
	v.metrics.RecordError(stage, string(errors.GetCode(err)))
	v.logger.Warn("interaction payload unavailable, using empty graph",
		logging.String("kind", string(kind)), logging.String("stage", stage), logging.Err(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Recomputation
// ─────────────────────────────────────────────────────────────────────────────

// visualLocked picks the graph for the current mode, falling back to the
// other level when the preferred one is empty.
func (v *View) visualLocked() *domain.Graph {
	primary, secondary := client.KindAtom, client.KindResidue
	if v.mode == selection.ModeResidue {
		primary, secondary = secondary, primary
	}
	if g := v.graphs[primary]; !g.Empty() {
		return g
	}
	if g := v.graphs[secondary]; !g.Empty() {
		return g
	}
	return v.graphs[primary]
}

// highlightLocked is the graph distance lines come from: the viewer payload,
// or the atom graph when the viewer payload is empty.
func (v *View) highlightLocked() *domain.Graph {
	if g := v.graphs[client.KindViewer]; !g.Empty() {
		return g
	}
	return v.graphs[client.KindAtom]
}

func (v *View) simLocked() *layout.Simulation {
	sim, ok := v.sims[v.mode]
	if !ok {
		sim = layout.NewSimulation(v.cfg.Layout)
		v.sims[v.mode] = sim
	}
	return sim
}

func (v *View) recomputeLocked(ctx context.Context) *State {
	v.frame = computeFrame(v.visualLocked(), v.highlightLocked(), v.filters, v.mode, v.simLocked(), v.cfg, v.metrics)
	v.syncLocked(ctx)
	v.updated = time.Now()
	return v.stateLocked()
}

func (v *View) syncLocked(ctx context.Context) {
	start := time.Now()
	sel := ""
	if v.frame.HasSelection {
		sel = v.frame.Selection
	}
	out, err := v.sync.Sync(ctx, viewer.SyncInput{
		Selection: sel,
		Pairs:     v.frame.Pairs,
		Filters:   v.frame.Filters,
		LinkCount: len(v.frame.Links),
		Mode:      v.mode,
	})
	v.metrics.ObserveStage("sync", time.Since(start))
	v.lastSync = out
	v.syncErr = ""
	if err != nil {
		v.syncErr = err.Error()
		v.metrics.RecordError("viewer", string(errors.GetCode(err)))
	}
}

func (v *View) stateLocked() *State {
	reports := make(map[client.Kind]domain.Report, len(v.reports))
	for k, r := range v.reports {
		reports[k] = r
	}
	var degraded map[client.Kind]string
	if len(v.degraded) > 0 {
		degraded = make(map[client.Kind]string, len(v.degraded))
		for k, e := range v.degraded {
			degraded[k] = e
		}
	}
	return &State{
		ViewID:      v.id,
		StructureID: v.structureID,
		Generation:  v.loaded,
		Frame:       v.frame,
		Reports:     reports,
		Degraded:    degraded,
		Viewer: ViewerState{
			Mounted: v.sync.Mounted(),
			Sync:    v.lastSync,
			Error:   v.syncErr,
		},
		UpdatedAt: v.updated,
	}
}

// State returns the latest state without recomputing.
func (v *View) State() *State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// ─────────────────────────────────────────────────────────────────────────────

// UpdateFilter applies u and recomputes.  An invalid update changes nothing.
func (v *View) UpdateFilter(ctx context.Context, u FilterUpdate) (*State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := u.Apply(&v.filters, domain.TakeCensus(v.visualLocked())); err != nil {
		return nil, err
	}
	return v.recomputeLocked(ctx), nil
}

// SetMode switches between atom and residue selection and recomputes.  Each
// mode keeps its own layout.
func (v *View) SetMode(ctx context.Context, mode string) (*State, error) {
	m, err := selection.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = m
	return v.recomputeLocked(ctx), nil
}

// Mount attaches vw, loads the structure into it when a locator is
// configured, and performs a full sync.
func (v *View) Mount(ctx context.Context, vw viewer.Viewer) (*State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sync.Mount(vw)
	if v.locator != nil {
		src := viewer.Source{
			URL:    v.locator.StructureURL(v.structureID),
			Format: v.locator.StructureFormat(),
			Name:   v.structureID,
		}
		if err := v.sync.Load(ctx, src); err != nil {
			v.metrics.RecordError("viewer", string(errors.GetCode(err)))
			v.sync.Unmount()
			v.lastSync = viewer.SyncOutcome{}
			return nil, err
		}
	}
	v.syncLocked(ctx)
	return v.stateLocked(), nil
}

// Unmount detaches the viewer.  Later recomputations do not touch it.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sync.Unmount()
	v.lastSync = viewer.SyncOutcome{}
	v.syncErr = ""
}

// Drag pins node id at (x, y), reheats the layout and advances ticks steps.
func (v *View) Drag(id string, x, y float64, ticks int) (*LayoutState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	sim := v.simLocked()
	if !sim.Pin(id, x, y) {
		return nil, errors.NotFound("node " + id + " is not in the layout")
	}
	sim.Reheat(layout.DragAlphaTarget)
	return v.stepLocked(ticks), nil
}

// Release unpins node id and lets the layout cool.
func (v *View) Release(id string, ticks int) (*LayoutState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	sim := v.simLocked()
	if !sim.Unpin(id) {
		return nil, errors.NotFound("node " + id + " is not in the layout")
	}
	sim.Reheat(0)
	return v.stepLocked(ticks), nil
}

// Step advances the continuous layout by up to ticks steps.
func (v *View) Step(ticks int) *LayoutState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stepLocked(ticks)
}

func (v *View) stepLocked(ticks int) *LayoutState {
	if ticks < 0 {
		ticks = 0
	}
	if ticks > MaxStepTicks {
		ticks = MaxStepTicks
	}
	sim := v.simLocked()
	for i := 0; i < ticks; i++ {
		sim.Tick()
	}
	v.frame.Positions = sim.Snapshot()
	v.frame.Edges = layout.EdgePaths(v.frame.Positions, v.frame.Links, v.cfg.EdgeSpacing)
	return &LayoutState{
		Positions: v.frame.Positions,
		Edges:     v.frame.Edges,
		Alpha:     sim.Alpha(),
		Settled:   sim.Settled(),
		Ticks:     sim.Ticks(),
	}
}

// Close cancels an in-flight Load and detaches the viewer.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.sync.Unmount()
}

//Personal.AI order the ending
