package interaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/interactome/internal/infrastructure/database/redis"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/client"
	"github.com/turtacn/interactome/pkg/errors"
)

func newTestCache(t *testing.T) (redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClientFrom(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), logging.NewNopLogger())
	return redis.NewRedisCache(rc, nil, redis.WithPrefix(""), redis.WithJitter(0), redis.WithDefaultTTL(time.Minute)), mr
}

func TestPayloadKey(t *testing.T) {
	assert.Equal(t, "payload:atom:1abc", PayloadKey(client.KindAtom, "1abc"))
}

func TestCachedFetcher_MissThenHit(t *testing.T) {
	cache, _ := newTestCache(t)
	upstream := newStubFetcher()
	metrics := newCountingMetrics()
	f := NewCachedFetcher(upstream, cache, time.Minute, metrics, nil)
	ctx := context.Background()

	first, err := f.Fetch(ctx, client.KindResidue, "1abc")
	require.NoError(t, err)
	second, err := f.Fetch(ctx, client.KindResidue, "1abc")
	require.NoError(t, err)

	assert.JSONEq(t, residuePayload, string(first))
	assert.JSONEq(t, residuePayload, string(second))
	assert.Equal(t, 1, upstream.callCount(client.KindResidue))
	assert.Equal(t, 1, metrics.get(func(m *countingMetrics) int { return m.cacheMisses }))
	assert.Equal(t, 1, metrics.get(func(m *countingMetrics) int { return m.cacheHits }))
}

func TestCachedFetcher_JoinedLoadsCountAsMisses(t *testing.T) {
	cache, _ := newTestCache(t)
	upstream := newStubFetcher()
	gate := make(chan struct{})
	upstream.setGate(gate)
	metrics := newCountingMetrics()
	f := NewCachedFetcher(upstream, cache, time.Minute, metrics, nil)

	const callers = 4
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.Fetch(context.Background(), client.KindAtom, "1abc")
		}(i)
	}
	require.Eventually(t, func() bool {
		return metrics.get(func(m *countingMetrics) int { return m.cacheMisses }) == callers
	}, time.Second, 5*time.Millisecond)
	close(gate)
	wg.Wait()

	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, upstream.callCount(client.KindAtom))
	assert.Zero(t, metrics.get(func(m *countingMetrics) int { return m.cacheHits }))

	_, err := f.Fetch(context.Background(), client.KindAtom, "1abc")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.get(func(m *countingMetrics) int { return m.cacheHits }))
}

func TestCachedFetcher_ErrorsAreNotCached(t *testing.T) {
	cache, _ := newTestCache(t)
	upstream := newStubFetcher()
	upstream.setError(client.KindAtom, errors.New(errors.CodeUpstreamUnavailable, "upstream down"))
	f := NewCachedFetcher(upstream, cache, 0, nil, nil)
	ctx := context.Background()

	_, err := f.Fetch(ctx, client.KindAtom, "1abc")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamUnavailable))

	upstream.setError(client.KindAtom, nil)
	raw, err := f.Fetch(ctx, client.KindAtom, "1abc")
	require.NoError(t, err)
	assert.JSONEq(t, atomPayload, string(raw))
	assert.Equal(t, 2, upstream.callCount(client.KindAtom))
}

func TestCachedFetcher_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	upstream := newStubFetcher()
	f := NewCachedFetcher(upstream, cache, time.Minute, nil, nil)
	ctx := context.Background()

	for _, k := range client.Kinds() {
		_, err := f.Fetch(ctx, k, "1abc")
		require.NoError(t, err)
	}
	assert.True(t, mr.Exists(PayloadKey(client.KindViewer, "1abc")))

	require.NoError(t, f.Invalidate(ctx, "1abc"))
	for _, k := range client.Kinds() {
		assert.False(t, mr.Exists(PayloadKey(k, "1abc")), k)
	}

	_, err := f.Fetch(ctx, client.KindAtom, "1abc")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.callCount(client.KindAtom))
}

//Personal.AI order the ending
