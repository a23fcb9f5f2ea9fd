package inspect

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
)

var sessionLaps = []telemetry.LapInfo{
	{Driver: "NOR", LapNumber: 1, Compound: "SOFT", Stint: 1},
	{Driver: "NOR", LapNumber: 2, Compound: "SOFT", Stint: 1},
	{Driver: "NOR", LapNumber: 3, Compound: "INTERMEDIATE", Stint: 2},
	{Driver: "HAM", LapNumber: 2, Compound: "MEDIUM", Stint: 1},
}

func TestSummarize(t *testing.T) {
	sel := telemetry.Selection{LapOffset: 1, Stints: []int{1}}
	got := summarize(sessionLaps, sel.Apply(sessionLaps))
	assert.Equal(t, []driverSummary{
		{driver: "HAM", laps: 1, selected: 1, compounds: []string{"SLICK"}, firstLap: 2, lastLap: 2},
		{driver: "NOR", laps: 3, selected: 1, compounds: []string{"SLICK", "INTERMEDIATE"}, firstLap: 1, lastLap: 3},
	}, got)
}

func TestInspectSession(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "session.yml")
	require.NoError(t, os.WriteFile(fn, []byte(`
schemaVersion: 1.0.0
event: Test GP
laps:
  - {driver: NOR, lapNumber: 1, compound: SOFT, stint: 1}
  - {driver: NOR, lapNumber: 2, compound: SOFT, stint: 1}
`), 0o644))
	buf := &bytes.Buffer{}
	err := inspectSession(context.Background(), &config.CliArgs{Dataset: fn, LapOffset: 1}, buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Event         : Test GP")
	assert.Contains(t, buf.String(), "Selected laps : 1")
	assert.Contains(t, buf.String(), "NOR")
}

func TestInspectSession_noSource(t *testing.T) {
	err := inspectSession(context.Background(), &config.CliArgs{}, &bytes.Buffer{})
	assert.Error(t, err)
}
