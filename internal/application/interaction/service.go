// Package interaction is the application service of the interaction-graph
// pipeline.  It owns stateful views: each view joins three upstream payloads,
// runs normalize, filter, layout and selection on every change, and keeps at
// most one viewer in sync.
package interaction

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/internal/infrastructure/storage/minio"
	"github.com/turtacn/interactome/pkg/errors"
)

// DefaultMaxViews bounds the number of open views.
const DefaultMaxViews = 256

// Service defines the interaction view operations.
type Service interface {
	Open(ctx context.Context, input *OpenInput) (*State, error)
	Get(id string) (*State, error)
	Reload(ctx context.Context, id string) (*State, error)
	Close(id string) error
	UpdateFilter(ctx context.Context, id string, update FilterUpdate) (*State, error)
	SetMode(ctx context.Context, id string, mode string) (*State, error)
	Mount(ctx context.Context, id string) (*State, error)
	Unmount(id string) error
	Commands(id string) ([]viewer.Command, error)
	Representations(id string) ([]viewer.Representation, error)
	Drag(id string, input *DragInput) (*LayoutState, error)
	Step(id string, ticks int) (*LayoutState, error)
	ExportSnapshot(ctx context.Context, id string) (*minio.SnapshotRef, error)
	ActiveViews() int
}

// OpenInput contains input for opening a view.
type OpenInput struct {
	StructureID string        `json:"structure_id"`
	Mode        string        `json:"mode,omitempty"`
	Filters     *FilterUpdate `json:"filters,omitempty"`
}

// DragInput moves or releases a node.  Release ignores X and Y.
type DragInput struct {
	NodeID  string  `json:"node_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Release bool    `json:"release,omitempty"`
	Ticks   int     `json:"ticks,omitempty"`
}

// ServiceConfig holds the defaults applied to new views.
type ServiceConfig struct {
	Pipeline PipelineConfig
	Filters  domain.FilterState
	Mode     selection.Mode
	MaxViews int
}

// ServiceDeps are the collaborators of the service.  Only Fetcher is
// required.  Invalidator defaults to Fetcher when it implements one.
type ServiceDeps struct {
	Fetcher     Fetcher
	Invalidator Invalidator
	Locator     StructureLocator
	Snapshots   SnapshotStore
	Sink        viewer.CommandSink
	Metrics     Metrics
	Logger      logging.Logger
}

type viewEntry struct {
	view *View
	log  *viewer.CommandLog
}

type serviceImpl struct {
	cfg  ServiceConfig
	deps ServiceDeps

	mu    sync.RWMutex
	views map[string]*viewEntry
}

// NewService creates the interaction application service.
func NewService(cfg ServiceConfig, deps ServiceDeps) Service {
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	deps.Logger = deps.Logger.Named("interaction")
	if deps.Invalidator == nil {
		if inv, ok := deps.Fetcher.(Invalidator); ok {
			deps.Invalidator = inv
		}
	}
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = DefaultMaxViews
	}
	if !cfg.Mode.Valid() {
		cfg.Mode = selection.ModeAtom
	}
	if cfg.Pipeline.Ticks == 0 {
		cfg.Pipeline = DefaultPipelineConfig()
	}
	if cfg.Filters.Types == nil {
		cfg.Filters = domain.NewFilterState(domain.AllTypes()...)
	}
	return &serviceImpl{cfg: cfg, deps: deps, views: make(map[string]*viewEntry)}
}

func (s *serviceImpl) Open(ctx context.Context, input *OpenInput) (*State, error) {
	if input == nil || strings.TrimSpace(input.StructureID) == "" {
		return nil, errors.InvalidParam("structure_id is required")
	}
	mode := s.cfg.Mode
	if input.Mode != "" {
		m, err := selection.ParseMode(input.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	filters := s.cfg.Filters.Clone()
	if input.Filters != nil {
		if err := input.Filters.Apply(&filters, domain.Census{}); err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	v := NewView(ViewOptions{
		ID:          id,
		StructureID: strings.TrimSpace(input.StructureID),
		Mode:        mode,
		Filters:     filters,
		Pipeline:    s.cfg.Pipeline,
		Fetcher:     s.deps.Fetcher,
		Locator:     s.deps.Locator,
		Metrics:     s.deps.Metrics,
		Logger:      s.deps.Logger,
	})

	s.mu.Lock()
	if len(s.views) >= s.cfg.MaxViews {
		s.mu.Unlock()
		return nil, errors.Newf(errors.CodeServiceUnavailable, "view limit %d reached", s.cfg.MaxViews)
	}
	s.views[id] = &viewEntry{view: v}
	n := len(s.views)
	s.mu.Unlock()
	s.deps.Metrics.SetActiveViews(n)

	st, err := v.Load(ctx)
	if err != nil {
		_ = s.Close(id)
		return nil, err
	}
	s.deps.Logger.Info("view opened",
		logging.String("view_id", id),
		logging.String("structure_id", v.StructureID()),
		logging.Int("nodes", len(st.Nodes)),
		logging.Int("links", len(st.Links)))
	return st, nil
}

func (s *serviceImpl) entry(id string) (*viewEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.views[id]
	if !ok {
		return nil, errors.Newf(errors.CodeViewNotFound, "view %s not found", id)
	}
	return e, nil
}

func (s *serviceImpl) Get(id string) (*State, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.view.State(), nil
}

func (s *serviceImpl) Reload(ctx context.Context, id string) (*State, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	if s.deps.Invalidator != nil {
		if err := s.deps.Invalidator.Invalidate(ctx, e.view.StructureID()); err != nil {
			s.deps.Logger.Warn("payload cache invalidation failed",
				logging.String("view_id", id), logging.Err(err))
		}
	}
	return e.view.Load(ctx)
}

func (s *serviceImpl) Close(id string) error {
	s.mu.Lock()
	e, ok := s.views[id]
	delete(s.views, id)
	n := len(s.views)
	s.mu.Unlock()
	if !ok {
		return errors.Newf(errors.CodeViewNotFound, "view %s not found", id)
	}
	e.view.Close()
	s.deps.Metrics.SetActiveViews(n)
	return nil
}

func (s *serviceImpl) UpdateFilter(ctx context.Context, id string, update FilterUpdate) (*State, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.view.UpdateFilter(ctx, update)
}

func (s *serviceImpl) SetMode(ctx context.Context, id string, mode string) (*State, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.view.SetMode(ctx, mode)
}

// Mount attaches a fresh CommandLog viewer to the view.  A previous log is
// discarded; its consumer is expected to reload the structure.
func (s *serviceImpl) Mount(ctx context.Context, id string) (*State, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	var opts []viewer.CommandLogOption
	if s.deps.Sink != nil {
		opts = append(opts, viewer.WithSink(s.deps.Sink))
	}
	log := viewer.NewCommandLog(id, opts...)

	s.mu.Lock()
	e.log = log
	s.mu.Unlock()
	st, err := e.view.Mount(ctx, log)
	if err != nil {
		s.mu.Lock()
		if e.log == log {
			e.log = nil
		}
		s.mu.Unlock()
		return nil, err
	}
	return st, nil
}

func (s *serviceImpl) Unmount(id string) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.view.Unmount()
	s.mu.Lock()
	e.log = nil
	s.mu.Unlock()
	return nil
}

func (s *serviceImpl) commandLog(id string) (*viewer.CommandLog, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	log := e.log
	s.mu.RUnlock()
	if log == nil {
		return nil, errors.Newf(errors.CodeViewerUnavailable, "view %s has no viewer mounted", id)
	}
	return log, nil
}

func (s *serviceImpl) Commands(id string) ([]viewer.Command, error) {
	log, err := s.commandLog(id)
	if err != nil {
		return nil, err
	}
	cmds := log.Drain()
	if cmds == nil {
		cmds = []viewer.Command{}
	}
	return cmds, nil
}

func (s *serviceImpl) Representations(id string) ([]viewer.Representation, error) {
	log, err := s.commandLog(id)
	if err != nil {
		return nil, err
	}
	return log.Live(), nil
}

func (s *serviceImpl) Drag(id string, input *DragInput) (*LayoutState, error) {
	if input == nil || input.NodeID == "" {
		return nil, errors.InvalidParam("node_id is required")
	}
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	ticks := input.Ticks
	if ticks <= 0 {
		ticks = 1
	}
	if input.Release {
		return e.view.Release(input.NodeID, ticks)
	}
	return e.view.Drag(input.NodeID, input.X, input.Y, ticks)
}

func (s *serviceImpl) Step(id string, ticks int) (*LayoutState, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.view.Step(ticks), nil
}

func (s *serviceImpl) ExportSnapshot(ctx context.Context, id string) (*minio.SnapshotRef, error) {
	if s.deps.Snapshots == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "snapshot export is not configured")
	}
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	ref, err := s.deps.Snapshots.Save(ctx, id, e.view.Snapshot())
	s.deps.Metrics.ObserveSnapshot(err)
	if err != nil {
		s.deps.Logger.Error("snapshot export failed", logging.String("view_id", id), logging.Err(err))
		return nil, errors.Wrap(err, errors.CodeSnapshotFailed, "snapshot export failed")
	}
	return ref, nil
}

func (s *serviceImpl) ActiveViews() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

//Personal.AI order the ending
