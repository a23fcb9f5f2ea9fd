package processor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
)

func sample(driver string, lap int, distance, speed float64, compound telemetry.Compound) telemetry.Sample {
	return telemetry.Sample{
		Driver: driver, Lap: lap, Distance: distance, Speed: speed,
		X: distance, Y: -distance, Compound: compound,
	}
}

// lap 10 on a 250m track: segment 3 covers distances in (15, 25]
func scenarioSamples() []telemetry.Sample {
	return []telemetry.Sample{
		sample("HAM", 10, 18, 170, telemetry.Intermediate),
		sample("HAM", 10, 20, 180, telemetry.Intermediate),
		sample("HAM", 10, 22, 190, telemetry.Intermediate),
		sample("VER", 10, 19, 200, telemetry.Slick),
		sample("VER", 10, 21, 221, telemetry.Slick),
		sample("VER", 10, 0, 120, telemetry.Slick),
		sample("HAM", 10, 1, 130, telemetry.Intermediate),
		sample("VER", 11, 250, 150, telemetry.Slick),
	}
}

func testProcessor(opts ...OptionsFunc) *Processor {
	l := log.New(&bytes.Buffer{}, log.DebugLevel)
	return NewProcessor(append([]OptionsFunc{WithLogger(l)}, opts...)...)
}

func TestProcessor_Process(t *testing.T) {
	res, err := testProcessor().Process(scenarioSamples())
	require.NoError(t, err)

	assert.Equal(t, 250.0, res.Boundaries.TotalDistance)
	assert.Contains(t, res.Fastest, FastestCompound{Lap: 10, Segment: 3, Compound: telemetry.Slick})
	assert.Contains(t, res.Fastest, FastestCompound{Lap: 10, Segment: 1, Compound: telemetry.Intermediate})
	assert.Len(t, res.Merged, len(scenarioSamples()))

	for _, m := range res.Lap(10) {
		if m.Segment == 3 {
			assert.Equal(t, CodeSlick, m.Code, "sample at %v (%s)", m.Distance, m.Compound)
		}
	}
	assert.Equal(t, []int{10, 11}, res.Laps())
	assert.Equal(t, map[telemetry.Compound]int{telemetry.Intermediate: 1, telemetry.Slick: 1}, res.WinCounts(10))
}

func TestProcessor_roundTrip(t *testing.T) {
	res, err := testProcessor().Process(scenarioSamples())
	require.NoError(t, err)
	assigned := map[lapSegment]telemetry.Compound{}
	for _, f := range res.Fastest {
		assigned[lapSegment{f.Lap, f.Segment}] = f.Compound
	}
	for _, m := range res.Merged {
		c, ok := assigned[lapSegment{m.Lap, m.Segment}]
		require.True(t, ok, "merged sample without assignment: %+v", m)
		assert.Equal(t, c, m.Fastest)
	}
}

func TestProcessor_emptyInput(t *testing.T) {
	res, err := testProcessor().Process(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, res)
}

func TestProcessor_containment(t *testing.T) {
	res, err := testProcessor(WithBucketing(BucketContainment)).Process(scenarioSamples())
	require.NoError(t, err)
	// 18 and 19 now fall into segment 2, 20..22 into segment 3
	segs := map[float64]int{}
	for _, m := range res.Lap(10) {
		segs[m.Distance] = m.Segment
	}
	assert.Equal(t, 2, segs[18])
	assert.Equal(t, 2, segs[19])
	assert.Equal(t, 3, segs[20])
}

func TestResult_LapWithoutData(t *testing.T) {
	res, err := testProcessor().Process(scenarioSamples())
	require.NoError(t, err)
	assert.Empty(t, res.Lap(12))
	assert.Empty(t, res.WinCounts(12))
}
