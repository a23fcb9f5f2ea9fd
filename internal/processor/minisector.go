package processor

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

// Bucketing selects how a distance is mapped onto a mini-sector.
type Bucketing int

const (
	// BucketNearest assigns the mini-sector whose start marker is closest to
	// the distance. A sample just before a marker belongs to the mini-sector
	// starting there.
	BucketNearest Bucketing = iota
	// BucketContainment assigns the mini-sector whose interval contains the
	// distance.
	BucketContainment
)

func (b Bucketing) String() string {
	switch b {
	case BucketNearest:
		return "nearest"
	case BucketContainment:
		return "containment"
	}
	return fmt.Sprintf("Bucketing(%d)", int(b))
}

func ParseBucketing(s string) (Bucketing, error) {
	switch s {
	case "", "nearest":
		return BucketNearest, nil
	case "containment":
		return BucketContainment, nil
	}
	return BucketNearest, fmt.Errorf("unknown bucketing mode %q (nearest, containment)", s)
}

// ClassifiedSample is a sample with its 1-based mini-sector.
type ClassifiedSample struct {
	telemetry.Sample
	Segment int
}

// NearestSegment returns argmin_i |Boundaries[i] - distance| + 1.
// On equal distances the lower index wins.
func (b *BoundarySet) NearestSegment(distance float64) int {
	best := 0
	bestDelta := math.Abs(b.Boundaries[0] - distance)
	for i := 1; i < len(b.Boundaries); i++ {
		if d := math.Abs(b.Boundaries[i] - distance); d < bestDelta {
			best = i
			bestDelta = d
		}
	}
	return best + 1
}

// ContainingSegment returns the mini-sector whose interval contains distance,
// clamped to [1, N].
func (b *BoundarySet) ContainingSegment(distance float64) int {
	idx := int(math.Floor(distance / b.SegmentLength))
	return lo.Clamp(idx, 0, len(b.Boundaries)-1) + 1
}

func (b *BoundarySet) Segment(distance float64, mode Bucketing) int {
	if mode == BucketContainment {
		return b.ContainingSegment(distance)
	}
	return b.NearestSegment(distance)
}

// Classify assigns a mini-sector to every sample.
func Classify(samples []telemetry.Sample, b *BoundarySet, mode Bucketing) []ClassifiedSample {
	return lo.Map(samples, func(s telemetry.Sample, _ int) ClassifiedSample {
		return ClassifiedSample{Sample: s, Segment: b.Segment(s.Distance, mode)}
	})
}
