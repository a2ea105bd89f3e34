package viewer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/interactome/pkg/errors"
)

// Op names a viewer command.
type Op string

const (
	OpLoad   Op = "load"
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Command is one recorded viewer call, in the form a browser-side widget
// replays it.
type Command struct {
	ID        string    `json:"id"`
	ViewID    string    `json:"view_id,omitempty"`
	Seq       uint64    `json:"seq"`
	Op        Op        `json:"op"`
	Handle    Handle    `json:"handle,omitempty"`
	Kind      Kind      `json:"kind,omitempty"`
	Params    *Params   `json:"params,omitempty"`
	Source    *Source   `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandSink forwards commands to another consumer, e.g. a message bus.
type CommandSink interface {
	Publish(ctx context.Context, cmd Command) error
}

// Representation is a live entry of a CommandLog.
type Representation struct {
	Handle Handle `json:"handle"`
	Kind   Kind   `json:"kind"`
	Params Params `json:"params"`
	seq    uint64
}

// CommandLog is a Viewer that records every call for later draining and
// tracks the resulting live representation set.  It stands in for a widget
// that lives in another process.
type CommandLog struct {
	mu      sync.Mutex
	viewID  string
	sink    CommandSink
	seq     uint64
	pending []Command
	live    map[Handle]Representation
	source  *Source
	now     func() time.Time
}

// CommandLogOption configures a CommandLog.
type CommandLogOption func(*CommandLog)

// WithSink forwards every command to sink before it is recorded.
func WithSink(sink CommandSink) CommandLogOption {
	return func(l *CommandLog) { l.sink = sink }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) CommandLogOption {
	return func(l *CommandLog) { l.now = now }
}

// NewCommandLog returns an empty log for viewID.
func NewCommandLog(viewID string, opts ...CommandLogOption) *CommandLog {
	l := &CommandLog{
		viewID: viewID,
		live:   make(map[Handle]Representation),
		now:    time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *CommandLog) LoadStructure(ctx context.Context, src Source) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := src
	if err := l.record(ctx, Command{Op: OpLoad, Source: &s}); err != nil {
		return err
	}
	l.source = &s
	return nil
}

func (l *CommandLog) AddRepresentation(ctx context.Context, kind Kind, params Params) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h := Handle(uuid.NewString())
	p := params
	if err := l.record(ctx, Command{Op: OpAdd, Handle: h, Kind: kind, Params: &p}); err != nil {
		return "", err
	}
	l.live[h] = Representation{Handle: h, Kind: kind, Params: params, seq: l.seq}
	return h, nil
}

func (l *CommandLog) RemoveRepresentation(ctx context.Context, h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[h]; !ok {
		return errors.Newf(errors.CodeNotFound, "representation %s not found", h)
	}
	if err := l.record(ctx, Command{Op: OpRemove, Handle: h}); err != nil {
		return err
	}
	delete(l.live, h)
	return nil
}

func (l *CommandLog) record(ctx context.Context, cmd Command) error {
	cmd.ID = uuid.NewString()
	cmd.ViewID = l.viewID
	cmd.Seq = l.seq + 1
	cmd.Timestamp = l.now().UTC()
	if l.sink != nil {
		if err := l.sink.Publish(ctx, cmd); err != nil {
			return errors.Wrap(err, errors.CodeViewerUnavailable, "publish viewer command")
		}
	}
	l.seq = cmd.Seq
	l.pending = append(l.pending, cmd)
	return nil
}

// Drain returns and forgets the commands recorded since the last Drain.
func (l *CommandLog) Drain() []Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}

// Live returns the installed representations in install order.
func (l *CommandLog) Live() []Representation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Representation, 0, len(l.live))
	for _, r := range l.live {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Structure returns the last loaded source, or nil.
func (l *CommandLog) Structure() *Source {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.source
}

//Personal.AI order the ending
