package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/internal/testutil"
	"github.com/turtacn/interactome/pkg/client"
	"github.com/turtacn/interactome/pkg/errors"
)

func newTestView(f Fetcher, m Metrics) *View {
	return NewView(ViewOptions{
		ID:          "view-1",
		StructureID: "1abc",
		Fetcher:     f,
		Metrics:     m,
		Pipeline:    PipelineConfig{Ticks: 20, EdgeSpacing: 18},
	})
}

func TestNewView_EmptyUntilLoaded(t *testing.T) {
	v := newTestView(newStubFetcher(), nil)

	st := v.State()
	assert.Equal(t, "view-1", st.ViewID)
	assert.Equal(t, uint64(0), st.Generation)
	assert.Empty(t, st.Nodes)
	assert.False(t, st.HasSelection)
	assert.Equal(t, selection.ModeAtom, st.Mode)
	assert.ElementsMatch(t, domain.AllTypes(), st.Filters.ActiveTypes())
	assert.False(t, st.Viewer.Mounted)
}

func TestView_Load(t *testing.T) {
	f := newStubFetcher()
	m := newCountingMetrics()
	v := newTestView(f, m)

	st, err := v.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), st.Generation)
	assert.Len(t, st.Nodes, 4)
	assert.Equal(t, "@1 or @2 or @3 or @4", st.Selection)
	assert.Empty(t, st.Degraded)
	assert.Len(t, st.Reports, 3)
	// Distance lines come from the viewer payload, not the visual graph.
	assert.Equal(t, []selection.TypePairs{
		{Type: domain.TypeHBond, Pairs: []selection.AtomPair{{"@9", "@2"}}},
	}, st.Pairs)
	assert.Equal(t, viewer.StatusSkipped, st.Viewer.Sync.Status)
	for _, k := range client.Kinds() {
		assert.Equal(t, 1, f.callCount(k), k)
		assert.Equal(t, 1, m.get(func(m *countingMetrics) int { return m.fetches[string(k)] }), k)
	}
}

func TestView_Load_NoFetcher(t *testing.T) {
	v := newTestView(nil, nil)
	_, err := v.Load(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
}

func TestView_Load_DegradesFailedPayloads(t *testing.T) {
	f := newStubFetcher()
	f.setError(client.KindViewer, errors.New(errors.CodeUpstreamUnavailable, "viewer endpoint down"))
	f.payloads[client.KindResidue] = "<html>bad gateway</html>"
	v := newTestView(f, nil)

	st, err := v.Load(context.Background())
	require.NoError(t, err)

	require.Contains(t, st.Degraded, client.KindViewer)
	require.Contains(t, st.Degraded, client.KindResidue)
	assert.Contains(t, st.Degraded[client.KindViewer], "viewer endpoint down")
	assert.NotContains(t, st.Degraded, client.KindAtom)

	// Pairs fall back to the atom graph.
	assert.Equal(t, []selection.TypePairs{
		{Type: domain.TypeHBond, Pairs: []selection.AtomPair{{"@1", "@2"}}},
		{Type: domain.TypeHydrophobic, Pairs: []selection.AtomPair{{"@3", "@4"}}},
	}, st.Pairs)

	// Residue mode falls back to the atom graph when the residue graph is empty.
	st, err = v.SetMode(context.Background(), "residue")
	require.NoError(t, err)
	assert.Len(t, st.Nodes, 4)
	assert.Equal(t, ":A and resi 10 or :R and resi 55 or :R and resi 60", st.Selection)

	// A later successful load clears the degradation.
	f.setError(client.KindViewer, nil)
	st, err = v.Load(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, st.Degraded, client.KindViewer)
	assert.Equal(t, uint64(2), st.Generation)
}

func TestView_Load_Superseded(t *testing.T) {
	f := newStubFetcher()
	m := newCountingMetrics()
	v := newTestView(f, m)
	f.setBlock(true)

	type result struct {
		st  *State
		err error
	}
	first := make(chan result, 1)
	go func() {
		st, err := v.Load(context.Background())
		first <- result{st, err}
	}()

	select {
	case <-f.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first load never reached the fetcher")
	}
	f.setBlock(false)

	st, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), st.Generation)
	assert.Len(t, st.Nodes, 4)

	select {
	case r := <-first:
		assert.Nil(t, r.st)
		assert.ErrorIs(t, r.err, ErrSuperseded)
		assert.True(t, errors.IsCode(r.err, errors.CodeLoadSuperseded))
	case <-time.After(5 * time.Second):
		t.Fatal("first load did not return")
	}

	assert.Equal(t, 1, m.get(func(m *countingMetrics) int { return m.superseded }))
	assert.Equal(t, uint64(2), v.State().Generation)
	assert.Len(t, v.State().Nodes, 4)
}

func TestView_Load_Cancelled(t *testing.T) {
	v := newTestView(newStubFetcher(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))
	assert.Equal(t, uint64(0), v.State().Generation)
}

func TestView_UpdateFilterSyncsViewer(t *testing.T) {
	ctx := context.Background()
	v := newTestView(newStubFetcher(), nil)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	rv := testutil.NewRecordingViewer()
	st, err := v.Mount(ctx, rv)
	require.NoError(t, err)
	assert.True(t, st.Viewer.Mounted)
	assert.Equal(t, viewer.StatusApplied, st.Viewer.Sync.Status)
	assert.Equal(t, 2, st.Viewer.Sync.Added)
	assert.Equal(t, 1, rv.Highlights())
	assert.Len(t, rv.Live(), 2)
	assert.Zero(t, rv.Count("load"))

	// A no-op update leaves the viewer untouched.
	rv.Reset()
	st, err = v.UpdateFilter(ctx, FilterUpdate{})
	require.NoError(t, err)
	assert.Equal(t, viewer.StatusUnchanged, st.Viewer.Sync.Status)
	assert.Empty(t, rv.Calls)

	st, err = v.UpdateFilter(ctx, FilterUpdate{Disable: []string{"hbond"}})
	require.NoError(t, err)
	assert.Equal(t, viewer.StatusApplied, st.Viewer.Sync.Status)
	assert.Equal(t, "@3 or @4", st.Selection)
	assert.Empty(t, st.Pairs)
	assert.Len(t, rv.Live(), 1)
	assert.Equal(t, 1, rv.Highlights())

	st, err = v.UpdateFilter(ctx, FilterUpdate{ClearAll: true})
	require.NoError(t, err)
	assert.Equal(t, viewer.StatusCleared, st.Viewer.Sync.Status)
	assert.False(t, st.HasSelection)
	assert.Empty(t, rv.Live())
}

func TestView_UpdateFilter_InvalidKeepsState(t *testing.T) {
	ctx := context.Background()
	v := newTestView(newStubFetcher(), nil)
	before, err := v.Load(ctx)
	require.NoError(t, err)

	_, err = v.UpdateFilter(ctx, FilterUpdate{Disable: []string{"hbond"}, Tiers: map[string][]string{"hbond": {"nope"}}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
	assert.Equal(t, before.Selection, v.State().Selection)
	assert.True(t, v.State().Filters.Active(domain.TypeHBond))
}

func TestView_SetMode(t *testing.T) {
	ctx := context.Background()
	v := newTestView(newStubFetcher(), nil)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	st, err := v.SetMode(ctx, "residue")
	require.NoError(t, err)
	assert.Equal(t, selection.ModeResidue, st.Mode)
	assert.Equal(t, []string{"A/10/LIG", "R/55/SER", "R/60/PHE"}, nodeIDs(st.Nodes))
	assert.Equal(t, ":A and resi 10 or :R and resi 55 or :R and resi 60", st.Selection)

	_, err = v.SetMode(ctx, "chain")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidMode))
	assert.Equal(t, selection.ModeResidue, v.State().Mode)

	st, err = v.SetMode(ctx, "atom")
	require.NoError(t, err)
	assert.Len(t, st.Nodes, 4)
}

func TestView_MountLoadsStructure(t *testing.T) {
	ctx := context.Background()
	v := NewView(ViewOptions{ID: "v", StructureID: "1abc", Fetcher: newStubFetcher(), Locator: stubLocator{}})
	_, err := v.Load(ctx)
	require.NoError(t, err)

	rv := testutil.NewRecordingViewer()
	_, err = v.Mount(ctx, rv)
	require.NoError(t, err)

	require.NotEmpty(t, rv.Calls)
	assert.Equal(t, "load", rv.Calls[0].Method)
	assert.Equal(t, viewer.Source{URL: "https://files.example.org/1abc.pdb", Format: "pdb", Name: "1abc"}, rv.Calls[0].Source)
}

func TestView_FailedStructureLoadLeavesViewerDetached(t *testing.T) {
	ctx := context.Background()
	v := NewView(ViewOptions{ID: "v", StructureID: "1abc", Fetcher: newStubFetcher(), Locator: stubLocator{}})
	_, err := v.Load(ctx)
	require.NoError(t, err)

	rv := testutil.NewRecordingViewer()
	rv.FailLoad = errors.New(errors.CodeViewerUnavailable, "viewer offline")
	_, err = v.Mount(ctx, rv)
	require.Error(t, err)

	rv.Reset()
	st, err := v.UpdateFilter(ctx, FilterUpdate{Disable: []string{"hbond"}})
	require.NoError(t, err)
	assert.False(t, st.Viewer.Mounted)
	assert.Equal(t, viewer.StatusSkipped, st.Viewer.Sync.Status)
	assert.Empty(t, rv.Calls)

	rv.FailLoad = nil
	st, err = v.Mount(ctx, rv)
	require.NoError(t, err)
	assert.True(t, st.Viewer.Mounted)
	assert.Equal(t, "load", rv.Calls[0].Method)
}

func TestView_UnmountStopsSync(t *testing.T) {
	ctx := context.Background()
	v := newTestView(newStubFetcher(), nil)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	rv := testutil.NewRecordingViewer()
	_, err = v.Mount(ctx, rv)
	require.NoError(t, err)

	v.Unmount()
	rv.Reset()
	st, err := v.UpdateFilter(ctx, FilterUpdate{Disable: []string{"hbond"}})
	require.NoError(t, err)
	assert.False(t, st.Viewer.Mounted)
	assert.Equal(t, viewer.StatusSkipped, st.Viewer.Sync.Status)
	assert.Empty(t, rv.Calls)
}

func TestView_SyncFailureIsReported(t *testing.T) {
	ctx := context.Background()
	v := newTestView(newStubFetcher(), nil)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	rv := testutil.NewRecordingViewer()
	rv.FailAdd = 1
	st, err := v.Mount(ctx, rv)
	require.NoError(t, err)
	assert.Equal(t, viewer.StatusFailed, st.Viewer.Sync.Status)
	assert.NotEmpty(t, st.Viewer.Error)

	// The next recomputation retries the install.
	st, err = v.UpdateFilter(ctx, FilterUpdate{})
	require.NoError(t, err)
	assert.Equal(t, viewer.StatusApplied, st.Viewer.Sync.Status)
	assert.Empty(t, st.Viewer.Error)
}

func TestView_DragReleaseStep(t *testing.T) {
	ctx := context.Background()
	v := newTestView(newStubFetcher(), nil)
	_, err := v.Load(ctx)
	require.NoError(t, err)

	ls, err := v.Drag("A/10/LIG/C1/1", 5, 7, 3)
	require.NoError(t, err)
	require.NotEmpty(t, ls.Positions)
	pinned := ls.Positions[0]
	assert.Equal(t, "A/10/LIG/C1/1", pinned.ID)
	assert.True(t, pinned.Fixed)
	assert.InDelta(t, 5, pinned.X, 1e-9)
	assert.InDelta(t, 7, pinned.Y, 1e-9)
	assert.Len(t, ls.Edges, 2)

	ls, err = v.Release("A/10/LIG/C1/1", 1)
	require.NoError(t, err)
	assert.False(t, ls.Positions[0].Fixed)

	before := ls.Ticks
	ls = v.Step(MaxStepTicks * 5)
	assert.LessOrEqual(t, ls.Ticks-before, MaxStepTicks)
	assert.Equal(t, ls.Positions, v.State().Positions)

	_, err = v.Drag("missing", 0, 0, 1)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	_, err = v.Release("missing", 1)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestView_SnapshotCapturesFrame(t *testing.T) {
	v := newTestView(newStubFetcher(), nil)
	st, err := v.Load(context.Background())
	require.NoError(t, err)

	snap := v.Snapshot()
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, "view-1", snap.ViewID)
	assert.Equal(t, "1abc", snap.StructureID)
	assert.Equal(t, st.Generation, snap.Generation)
	assert.Equal(t, st.Selection, snap.Selection)
	assert.Equal(t, st.Positions, snap.Positions)
	assert.False(t, snap.CreatedAt.IsZero())
}

func TestView_CloseCancelsLoad(t *testing.T) {
	f := newStubFetcher()
	v := newTestView(f, nil)
	f.setBlock(true)

	done := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background())
		done <- err
	}()
	<-f.started
	v.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not observe Close")
	}
}

//Personal.AI order the ending
