package cache

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

var samplePoints = []telemetry.Point{
	{Distance: 0, Speed: 250, X: 1, Y: 2},
	{Distance: 12.5, Speed: 252.25, X: 3, Y: 4},
	{Distance: 25, Speed: 255, X: 5, Y: 6},
}

func openTestCache(t *testing.T, path, session string) *Cache {
	t.Helper()
	c, err := Open(path, WithSession(session))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

type countingProvider struct {
	mu     sync.Mutex
	calls  int
	points []telemetry.Point
	err    error
}

func (p *countingProvider) FetchLap(_ context.Context, _ string, _ int) ([]telemetry.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.points, p.err
}

func TestCache_StoreLoad(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t, filepath.Join(t.TempDir(), "cache.db"), "russia")

	_, ok, err := c.Load(ctx, "HAM", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Store(ctx, "HAM", 3, samplePoints))
	got, ok, err := c.Load(ctx, "HAM", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, samplePoints, got)

	// storing again replaces the lap
	require.NoError(t, c.Store(ctx, "HAM", 3, samplePoints[:1]))
	got, _, err = c.Load(ctx, "HAM", 3)
	require.NoError(t, err)
	assert.Equal(t, samplePoints[:1], got)
}

func TestCache_sessionsAreSeparate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	a := openTestCache(t, path, "a")
	require.NoError(t, a.Store(ctx, "HAM", 1, samplePoints))

	b := openTestCache(t, path, "b")
	_, ok, err := b.Load(ctx, "HAM", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_noSession(t *testing.T) {
	c := openTestCache(t, filepath.Join(t.TempDir(), "cache.db"), "")
	_, _, err := c.Load(context.Background(), "HAM", 1)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, c.Store(context.Background(), "HAM", 1, samplePoints), ErrNoSession)
}

func TestCache_Wrap(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t, filepath.Join(t.TempDir(), "cache.db"), "russia")
	upstream := &countingProvider{points: samplePoints}
	p := c.Wrap(upstream)

	for i := 0; i < 3; i++ {
		got, err := p.FetchLap(ctx, "NOR", 10)
		require.NoError(t, err)
		assert.Equal(t, samplePoints, got)
	}
	assert.Equal(t, 1, upstream.calls)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Sessions: 1, Laps: 1, Points: 3, Hits: 2, Misses: 1}, stats)
}

func TestCache_WrapEmptyAndErrors(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t, filepath.Join(t.TempDir(), "cache.db"), "russia")

	empty := &countingProvider{}
	p := c.Wrap(empty)
	for i := 0; i < 2; i++ {
		got, err := p.FetchLap(ctx, "NOR", 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 2, empty.calls, "empty laps are not cached")

	failing := &countingProvider{err: errors.New("offline")}
	_, err := c.Wrap(failing).FetchLap(ctx, "NOR", 2)
	assert.Error(t, err)
	_, ok, err := c.Load(ctx, "NOR", 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")
	a := openTestCache(t, path, "a")
	b := openTestCache(t, path, "b")
	require.NoError(t, a.Store(ctx, "HAM", 1, samplePoints))
	require.NoError(t, b.Store(ctx, "HAM", 1, samplePoints))

	require.NoError(t, a.Clear(ctx))
	_, ok, err := a.Load(ctx, "HAM", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = b.Load(ctx, "HAM", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	all := openTestCache(t, path, "")
	stats, err := all.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Sessions)
	require.NoError(t, all.Clear(ctx))
	stats, err = all.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Laps)
}
