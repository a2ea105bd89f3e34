package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/pkg/errors"
)

// ViewerCall is one call observed by RecordingViewer.
type ViewerCall struct {
	Method string
	Kind   viewer.Kind
	Params viewer.Params
	Handle viewer.Handle
	Source viewer.Source
}

// RecordingViewer is an in-memory viewer.Viewer that counts calls and tracks
// the live representation set.  FailAdd makes the n-th AddRepresentation
// (1-based, counted from the last Reset) fail; FailRemove does the same for
// RemoveRepresentation.  A non-nil FailLoad is returned by LoadStructure.
// Removing an unknown handle is a NotFound error.
type RecordingViewer struct {
	mu         sync.Mutex
	Calls      []ViewerCall
	live       map[viewer.Handle]viewer.Params
	next       int
	adds       int
	removes    int
	FailAdd    int
	FailRemove int
	FailLoad   error
}

// NewRecordingViewer returns an empty RecordingViewer.
func NewRecordingViewer() *RecordingViewer {
	return &RecordingViewer{live: make(map[viewer.Handle]viewer.Params)}
}

func (v *RecordingViewer) LoadStructure(_ context.Context, src viewer.Source) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.FailLoad != nil {
		v.Calls = append(v.Calls, ViewerCall{Method: "load-failed", Source: src})
		return v.FailLoad
	}
	v.Calls = append(v.Calls, ViewerCall{Method: "load", Source: src})
	return nil
}

func (v *RecordingViewer) AddRepresentation(_ context.Context, kind viewer.Kind, params viewer.Params) (viewer.Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.adds++
	if v.FailAdd > 0 && v.adds == v.FailAdd {
		v.Calls = append(v.Calls, ViewerCall{Method: "add-failed", Kind: kind, Params: params})
		return "", fmt.Errorf("viewer rejected representation %q", params.Name)
	}
	v.next++
	h := viewer.Handle(fmt.Sprintf("rep-%d", v.next))
	v.live[h] = params
	v.Calls = append(v.Calls, ViewerCall{Method: "add", Kind: kind, Params: params, Handle: h})
	return h, nil
}

func (v *RecordingViewer) RemoveRepresentation(_ context.Context, h viewer.Handle) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removes++
	if v.FailRemove > 0 && v.removes == v.FailRemove {
		v.Calls = append(v.Calls, ViewerCall{Method: "remove-failed", Handle: h})
		return fmt.Errorf("viewer could not remove representation %s", h)
	}
	v.Calls = append(v.Calls, ViewerCall{Method: "remove", Handle: h})
	if _, ok := v.live[h]; !ok {
		return errors.Newf(errors.CodeNotFound, "unknown representation %s", h)
	}
	delete(v.live, h)
	return nil
}

// Count returns the number of successful calls of method.
func (v *RecordingViewer) Count(method string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, c := range v.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Live returns a copy of the live representation set.
func (v *RecordingViewer) Live() map[viewer.Handle]viewer.Params {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[viewer.Handle]viewer.Params, len(v.live))
	for h, p := range v.live {
		out[h] = p
	}
	return out
}

// Highlights returns the number of live highlight representations.
func (v *RecordingViewer) Highlights() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, p := range v.live {
		if p.Name == viewer.HighlightName {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls; the live set is kept.
func (v *RecordingViewer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls = nil
	v.adds = 0
	v.removes = 0
}

//Personal.AI order the ending
