package viewer

import (
	"context"
	"sync"

	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

// SyncStatus classifies the result of one Sync call.
type SyncStatus string

const (
	// StatusSkipped: no viewer mounted; nothing was done or queued.
	StatusSkipped SyncStatus = "skipped"
	// StatusUnchanged: signature matched the last applied state.
	StatusUnchanged SyncStatus = "unchanged"
	// StatusCleared: empty selection; every representation was retracted.
	StatusCleared SyncStatus = "cleared"
	// StatusApplied: highlight and distance lines were replaced.
	StatusApplied SyncStatus = "applied"
	// StatusFailed: the viewer rejected an install; the next Sync retries.
	StatusFailed SyncStatus = "failed"
)

// SyncOutcome reports what one Sync did to the viewer.
type SyncOutcome struct {
	Status    SyncStatus `json:"status"`
	Signature string     `json:"signature,omitempty"`
	Added     int        `json:"added"`
	Removed   int        `json:"removed"`
}

// Observer receives one call per Sync.
type Observer interface {
	ObserveSync(status string, added, removed int)
}

type noopObserver struct{}

func (noopObserver) ObserveSync(string, int, int) {}

type desiredRep struct {
	kind   Kind
	params Params
}

// Synchronizer reconciles one Viewer's representation set with the latest
// SyncInput.  It is safe for concurrent use; calls are serialized.
type Synchronizer struct {
	mu        sync.Mutex
	logger    logging.Logger
	observer  Observer
	viewer    Viewer
	signature string
	highlight Handle
	lines     []Handle
}

// NewSynchronizer returns an unmounted Synchronizer.  A nil observer is
// allowed.
func NewSynchronizer(logger logging.Logger, observer Observer) *Synchronizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Synchronizer{logger: logger.Named("viewer-sync"), observer: observer}
}

// Mount attaches v.  Tracked state is reset so the next Sync is a full sync.
func (s *Synchronizer) Mount(v Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = v
	s.reset()
	s.logger.Debug("viewer mounted")
}

// Unmount detaches the viewer.  Representations are not retracted; the widget
// that owned them is gone.
func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewer = nil
	s.reset()
	s.logger.Debug("viewer unmounted")
}

// Mounted reports whether a viewer is attached.
func (s *Synchronizer) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer != nil
}

// Installed returns the handles currently tracked as live.
func (s *Synchronizer) Installed() (highlight Handle, lines []Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlight, append([]Handle(nil), s.lines...)
}

// Signature returns the signature of the last applied state.
func (s *Synchronizer) Signature() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signature
}

// Load issues the viewer's structure load.  It is a no-op when unmounted.
func (s *Synchronizer) Load(ctx context.Context, src Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewer == nil {
		return errors.New(errors.CodeViewerUnavailable, "load structure")
	}
	if err := s.viewer.LoadStructure(ctx, src); err != nil {
		return errors.Wrap(err, errors.CodeSyncFailed, "load structure")
	}
	s.logger.Info("structure loaded", logging.String("url", src.URL))
	return nil
}

func (s *Synchronizer) reset() {
	s.signature = ""
	s.highlight = ""
	s.lines = nil
}

// Sync brings the viewer in line with in.  The signature is compared before
// any viewer call, so repeated identical input never touches the viewer.  On
// change the highlight is retracted first; with an empty selection every
// distance line goes too.  Otherwise one highlight is installed, then the
// per-type set (built up front) replaces the previous one.  A failed retract
// aborts the pass with the handle still tracked, so nothing is installed on
// top of it.
func (s *Synchronizer) Sync(ctx context.Context, in SyncInput) (SyncOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.sync(ctx, in)
	s.observer.ObserveSync(string(out.Status), out.Added, out.Removed)
	return out, err
}

func (s *Synchronizer) sync(ctx context.Context, in SyncInput) (SyncOutcome, error) {
	if s.viewer == nil {
		return SyncOutcome{Status: StatusSkipped}, nil
	}

	sig := Signature(in)
	if sig == s.signature {
		return SyncOutcome{Status: StatusUnchanged, Signature: sig}, nil
	}

	var desired []desiredRep
	if in.Selection != "" {
		desired = make([]desiredRep, 0, len(in.Pairs))
		for _, tp := range in.Pairs {
			if len(tp.Pairs) == 0 {
				continue
			}
			desired = append(desired, desiredRep{kind: KindDistance, params: DistanceParams(tp)})
		}
	}

	out := SyncOutcome{Signature: sig}
	if s.highlight != "" {
		if err := s.retract(ctx, s.highlight); err != nil {
			return s.fail(out, err, "retract highlight")
		}
		s.highlight = ""
		out.Removed++
	}

	if in.Selection == "" {
		n, err := s.retractLines(ctx)
		out.Removed += n
		if err != nil {
			return s.fail(out, err, "retract distance lines")
		}
		s.signature = sig
		out.Status = StatusCleared
		s.logger.Debug("viewer cleared", logging.Int("removed", out.Removed))
		return out, nil
	}

	h, err := s.viewer.AddRepresentation(ctx, KindBallAndStick, HighlightParams(in.Selection))
	if err != nil {
		return s.fail(out, err, "install highlight")
	}
	s.highlight = h
	out.Added++

	n, err := s.retractLines(ctx)
	out.Removed += n
	if err != nil {
		return s.fail(out, err, "retract distance lines")
	}
	for _, d := range desired {
		h, err := s.viewer.AddRepresentation(ctx, d.kind, d.params)
		if err != nil {
			return s.fail(out, err, "install "+d.params.Name)
		}
		s.lines = append(s.lines, h)
		out.Added++
	}

	s.signature = sig
	out.Status = StatusApplied
	s.logger.Debug("viewer synchronized",
		logging.String("signature", sig),
		logging.Int("added", out.Added),
		logging.Int("removed", out.Removed))
	return out, nil
}

func (s *Synchronizer) fail(out SyncOutcome, err error, op string) (SyncOutcome, error) {
	s.signature = ""
	out.Status = StatusFailed
	s.logger.Warn("viewer sync failed", logging.String("op", op), logging.Err(err))
	return out, errors.Wrap(err, errors.CodeSyncFailed, op)
}

// retractLines removes every installed distance line.  Handles whose removal
// failed stay tracked so the next Sync retries them.
func (s *Synchronizer) retractLines(ctx context.Context) (int, error) {
	var (
		kept     []Handle
		removed  int
		firstErr error
	)
	for _, h := range s.lines {
		if err := s.retract(ctx, h); err != nil {
			kept = append(kept, h)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	s.lines = kept
	return removed, firstErr
}

// retract removes h.  A handle the viewer no longer knows counts as removed.
func (s *Synchronizer) retract(ctx context.Context, h Handle) error {
	err := s.viewer.RemoveRepresentation(ctx, h)
	if err == nil || errors.IsCode(err, errors.CodeNotFound) {
		return nil
	}
	s.logger.Warn("remove representation failed", logging.String("handle", string(h)), logging.Err(err))
	return err
}

//Personal.AI order the ending
