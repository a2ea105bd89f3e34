package interaction

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/interactome/internal/infrastructure/storage/minio"
	"github.com/turtacn/interactome/pkg/client"
)

const (
	atomPayload = `[
		{"source":"A/10/LIG/C1/1","target":"R/55/SER/OG/2","type":"hbond","pair":"cross","distance":2.8},
		{"source":"A/10/LIG/C2/3","target":"R/60/PHE/CZ/4","type":"hydrophobic","distance":3.9}
	]`
	residuePayload = `[
		{"source":"A/10/LIG","target":"R/55/SER","type":"hbond"},
		{"source":"A/10/LIG","target":"R/60/PHE","type":"hydrophobic"}
	]`
	viewerPayload = `{"hbond": {"cross": [["A/10/LIG/N1/9","R/55/SER/OG/2",3.0]]}}`
)

// stubFetcher serves fixed payloads.  With block set every Fetch parks until
// its context is cancelled; with gate set it parks until the gate closes.
type stubFetcher struct {
	mu       sync.Mutex
	payloads map[client.Kind]string
	errs     map[client.Kind]error
	calls    map[client.Kind]int
	block    bool
	gate     chan struct{}
	started  chan struct{}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		payloads: map[client.Kind]string{
			client.KindAtom:    atomPayload,
			client.KindResidue: residuePayload,
			client.KindViewer:  viewerPayload,
		},
		errs:    make(map[client.Kind]error),
		calls:   make(map[client.Kind]int),
		started: make(chan struct{}, 8),
	}
}

func (f *stubFetcher) setBlock(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block = on
}

func (f *stubFetcher) setError(kind client.Kind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[kind] = err
}

func (f *stubFetcher) setPayload(kind client.Kind, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[kind] = payload
}

func (f *stubFetcher) setGate(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = gate
}

func (f *stubFetcher) callCount(kind client.Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

func (f *stubFetcher) Fetch(ctx context.Context, kind client.Kind, _ string) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls[kind]++
	block := f.block
	gate := f.gate
	err := f.errs[kind]
	payload := f.payloads[kind]
	f.mu.Unlock()

	if block {
		select {
		case f.started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

type stubLocator struct{}

func (stubLocator) StructureURL(id string) string { return "https://files.example.org/" + id + ".pdb" }
func (stubLocator) StructureFormat() string       { return "pdb" }

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Save(ctx context.Context, viewID string, payload any) (*minio.SnapshotRef, error) {
	args := m.Called(ctx, viewID, payload)
	if ref := args.Get(0); ref != nil {
		return ref.(*minio.SnapshotRef), args.Error(1)
	}
	return nil, args.Error(1)
}

// countingMetrics records the calls the tests assert on.
type countingMetrics struct {
	noopMetrics
	mu          sync.Mutex
	superseded  int
	activeViews int
	cacheHits   int
	cacheMisses int
	snapshots   []error
	fetches     map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{fetches: make(map[string]int)}
}

func (m *countingMetrics) ObserveFetch(graph string, _ time.Duration, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[graph]++
}

func (m *countingMetrics) ObserveSuperseded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.superseded++
}

func (m *countingMetrics) SetActiveViews(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeViews = n
}

func (m *countingMetrics) RecordCacheAccess(_ string, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

func (m *countingMetrics) ObserveSnapshot(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, err)
}

func (m *countingMetrics) get(f func(*countingMetrics) int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return f(m)
}

//Personal.AI order the ending
