package processor

import (
	"cmp"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

// MergedSample is a classified sample together with the fastest compound of
// its mini-sector. Fastest may differ from the compound the car was on.
type MergedSample struct {
	ClassifiedSample
	Fastest telemetry.Compound
	Code    ColorCode
}

// Merge attaches the fastest compound to every sample of the same
// (lap, mini-sector). Samples without an assignment are dropped.
// The result is stable sorted by distance.
func Merge(samples []ClassifiedSample, fastest []FastestCompound) []MergedSample {
	lookup := lo.Associate(fastest, func(f FastestCompound) (lapSegment, telemetry.Compound) {
		return lapSegment{Lap: f.Lap, Segment: f.Segment}, f.Compound
	})
	ret := lo.FilterMap(samples, func(s ClassifiedSample, _ int) (MergedSample, bool) {
		c, ok := lookup[lapSegment{Lap: s.Lap, Segment: s.Segment}]
		if !ok {
			return MergedSample{}, false
		}
		return MergedSample{ClassifiedSample: s, Fastest: c}, true
	})
	slices.SortStableFunc(ret, func(a, b MergedSample) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return ret
}
