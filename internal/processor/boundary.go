package processor

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

// DefaultNumMinisectors is the number of mini-sectors a lap is split into.
const DefaultNumMinisectors = 25

// BoundarySet holds the start markers of the mini-sectors.
// All laps of a run share the same set.
type BoundarySet struct {
	TotalDistance float64
	SegmentLength float64
	Boundaries    []float64
}

// ComputeBoundaries derives the boundary set from the longest distance found
// in any sample of any lap.
func ComputeBoundaries(samples []telemetry.Sample, n int) (*BoundarySet, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("distance normalizer: %w", ErrEmptyInput)
	}
	total := lo.MaxBy(samples, func(a, b telemetry.Sample) bool {
		return a.Distance > b.Distance
	}).Distance
	return NewBoundarySet(total, n)
}

func NewBoundarySet(totalDistance float64, n int) (*BoundarySet, error) {
	if n < 1 {
		return nil, fmt.Errorf("distance normalizer: %w (got %d)", ErrInvalidSegmentCount, n)
	}
	if !(totalDistance > 0) {
		return nil, fmt.Errorf("distance normalizer: %w (total distance %v)",
			ErrEmptyInput, totalDistance)
	}
	segmentLength := totalDistance / float64(n)
	boundaries := make([]float64, n)
	for i := range boundaries {
		boundaries[i] = float64(i) * segmentLength
	}
	return &BoundarySet{
		TotalDistance: totalDistance,
		SegmentLength: segmentLength,
		Boundaries:    boundaries,
	}, nil
}

func (b *BoundarySet) NumSegments() int {
	return len(b.Boundaries)
}
