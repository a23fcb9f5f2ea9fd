package analyze

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshgregory42/f1-analysis-2021/internal/processor"
	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/dataset"
)

// straight 500m track, the intermediate is faster on the first half
func lapTelemetry(fastFirstHalf bool) []dataset.Point {
	ret := []dataset.Point{}
	for d := 0.0; d <= 500; d += 10 {
		speed := 200.0
		if (d < 250) == fastFirstHalf {
			speed = 220
		}
		ret = append(ret, dataset.Point{Distance: d, Speed: speed, X: d, Y: d / 2})
	}
	return ret
}

func writeDataset(t *testing.T) string {
	t.Helper()
	file := &dataset.File{
		Event: "Test GP",
		Laps: []dataset.Lap{
			{Driver: "NOR", LapNumber: 1, Compound: "SOFT", Stint: 1, Telemetry: lapTelemetry(false)},
			{Driver: "NOR", LapNumber: 2, Compound: "INTERMEDIATE", Stint: 2, Telemetry: lapTelemetry(true)},
			{Driver: "HAM", LapNumber: 2, Compound: "MEDIUM", Stint: 1, Telemetry: lapTelemetry(false)},
			{Driver: "HAM", LapNumber: 3, Compound: "MEDIUM", Stint: 1},
		},
	}
	fn := filepath.Join(t.TempDir(), "session.yml")
	buf := &bytes.Buffer{}
	require.NoError(t, dataset.Write(buf, file))
	require.NoError(t, os.WriteFile(fn, buf.Bytes(), 0o644))
	return fn
}

func testConfig(t *testing.T) *config.CliArgs {
	t.Helper()
	return &config.CliArgs{
		Dataset:     writeDataset(t),
		LapOffset:   1,
		Minisectors: 10,
		Bucketing:   "nearest",
		MaxFetchers: 2,
		OutDir:      filepath.Join(t.TempDir(), "out"),
		Format:      "png",
		Size:        300,
		Details:     true,
	}
}

func testContext() context.Context {
	return log.AddToContext(context.Background(), log.New(&bytes.Buffer{}, log.DebugLevel))
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	report, err := Run(testContext(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "Test GP", report.Event)
	assert.NotEmpty(t, report.RunID)
	// lap number 1 is the formation lap, race lap 2 has no telemetry
	assert.Equal(t, []int{1}, report.Result.Laps())
	assert.Equal(t, []string{filepath.Join(cfg.OutDir, "minisectors_lap_1.png")}, report.Files)
	info, err := os.Stat(report.Files[0])
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	for _, f := range report.Result.Fastest {
		want := telemetry.Slick
		if f.Segment <= 5 {
			want = telemetry.Intermediate
		}
		assert.Equal(t, want, f.Compound, "segment %d", f.Segment)
	}
	for _, m := range report.Result.Merged {
		if m.Fastest == telemetry.Intermediate {
			assert.Equal(t, processor.CodeIntermediate, m.Code)
		} else {
			assert.Equal(t, processor.CodeSlick, m.Code)
		}
	}
}

func TestRun_requestedLapsAndSvg(t *testing.T) {
	cfg := testConfig(t)
	cfg.Format = "svg"
	cfg.Details = false
	cfg.Laps = []int{1, 7}
	report, err := Run(testContext(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(cfg.OutDir, "minisectors_lap_1.svg"),
		filepath.Join(cfg.OutDir, "minisectors_lap_7.svg"),
	}, report.Files)
	content, err := os.ReadFile(report.Files[0])
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Slicks vs. Inters")
}

func TestRun_cached(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheFile = filepath.Join(t.TempDir(), "cache.db")
	first, err := Run(testContext(), cfg)
	require.NoError(t, err)
	second, err := Run(testContext(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first.Result.Fastest, second.Result.Fastest)
}

func TestRun_errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *config.CliArgs)
		target error
	}{
		{"no laps selected", func(cfg *config.CliArgs) { cfg.Drivers = []string{"VER"} }, processor.ErrEmptyInput},
		{"bad bucketing", func(cfg *config.CliArgs) { cfg.Bucketing = "round" }, nil},
		{"bad format", func(cfg *config.CliArgs) { cfg.Format = "gif" }, nil},
		{"missing dataset", func(cfg *config.CliArgs) { cfg.Dataset = "/does/not/exist.yml" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)
			_, err := Run(testContext(), cfg)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Test GP Lap 3 - Slicks vs. Inters", Title("Test GP", 3))
	assert.Equal(t, "Lap 3 - Slicks vs. Inters", Title("", 3))
}
