package viewer_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/pkg/errors"
)

type sliceSink struct {
	cmds []viewer.Command
	err  error
}

func (s *sliceSink) Publish(_ context.Context, c viewer.Command) error {
	if s.err != nil {
		return s.err
	}
	s.cmds = append(s.cmds, c)
	return nil
}

func TestCommandLog_RecordsAndDrains(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sink := &sliceSink{}
	log := viewer.NewCommandLog("view-1", viewer.WithSink(sink), viewer.WithClock(func() time.Time { return fixed }))

	require.NoError(t, log.LoadStructure(ctx, viewer.Source{URL: "u", Format: "pdb"}))
	h1, err := log.AddRepresentation(ctx, viewer.KindBallAndStick, viewer.HighlightParams("@1"))
	require.NoError(t, err)
	h2, err := log.AddRepresentation(ctx, viewer.KindDistance, viewer.Params{Name: "interaction-hbond"})
	require.NoError(t, err)
	require.NoError(t, log.RemoveRepresentation(ctx, h1))

	cmds := log.Drain()
	require.Len(t, cmds, 4)
	for i, c := range cmds {
		assert.Equal(t, uint64(i+1), c.Seq)
		assert.Equal(t, "view-1", c.ViewID)
		assert.Equal(t, fixed, c.Timestamp)
		assert.NotEmpty(t, c.ID)
	}
	assert.Equal(t, viewer.OpLoad, cmds[0].Op)
	assert.Equal(t, viewer.OpRemove, cmds[3].Op)
	assert.Equal(t, cmds, sink.cmds)
	assert.Empty(t, log.Drain())

	live := log.Live()
	require.Len(t, live, 1)
	assert.Equal(t, h2, live[0].Handle)
	assert.Equal(t, "pdb", log.Structure().Format)
}

func TestCommandLog_RemoveUnknown(t *testing.T) {
	log := viewer.NewCommandLog("v")
	err := log.RemoveRepresentation(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestCommandLog_SinkFailureLeavesStateUntouched(t *testing.T) {
	sink := &sliceSink{err: fmt.Errorf("broker down")}
	log := viewer.NewCommandLog("v", viewer.WithSink(sink))

	_, err := log.AddRepresentation(context.Background(), viewer.KindDistance, viewer.Params{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeViewerUnavailable))
	assert.Empty(t, log.Live())
	assert.Empty(t, log.Drain())
}

//Personal.AI order the ending
