package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshgregory42/f1-analysis-2021/pkg/cache"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
)

func writeDataset(t *testing.T, event string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "session.yml")
	content := "schemaVersion: 1.0.0\nevent: " + event + `
laps:
  - driver: NOR
    lapNumber: 2
    telemetry:
      - {distance: 0, speed: 100, x: 0, y: 0}
`
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func TestOpen_dataset(t *testing.T) {
	ctx := context.Background()
	cfg := &config.CliArgs{
		Dataset:   writeDataset(t, "Test GP"),
		CacheFile: filepath.Join(t.TempDir(), "cache.db"),
	}
	src, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "Test GP", src.Event)
	require.NotNil(t, src.Cache)
	assert.Equal(t, "Test GP", src.Cache.Session())

	points, err := src.Provider.FetchLap(ctx, "NOR", 2)
	require.NoError(t, err)
	assert.Len(t, points, 1)
	_, cached, err := src.Cache.Load(ctx, "NOR", 2)
	require.NoError(t, err)
	assert.True(t, cached)
}

func TestOpen_eventOverride(t *testing.T) {
	src, err := Open(context.Background(), &config.CliArgs{
		Dataset: writeDataset(t, "Test GP"),
		Event:   "Other",
	})
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, "Other", src.Event)
	assert.Nil(t, src.Cache)
}

func TestOpen_errors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func(t *testing.T) *config.CliArgs
		target error
	}{
		{"no source", func(*testing.T) *config.CliArgs { return &config.CliArgs{} }, ErrNoSource},
		{"ambiguous", func(t *testing.T) *config.CliArgs {
			return &config.CliArgs{Dataset: writeDataset(t, "x"), WampURL: "ws://localhost:1/ws"}
		}, ErrAmbiguousSource},
		{"cache without event", func(t *testing.T) *config.CliArgs {
			return &config.CliArgs{
				Dataset:   writeDataset(t, `""`),
				CacheFile: filepath.Join(t.TempDir(), "cache.db"),
			}
		}, cache.ErrNoSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.cfg(t))
			assert.ErrorIs(t, err, tt.target)
		})
	}
}
