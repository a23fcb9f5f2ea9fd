package processor

import (
	"cmp"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
)

type (
	lapSegment struct {
		Lap     int
		Segment int
	}
	lapSegmentCompound struct {
		lapSegment
		Compound telemetry.Compound
	}
)

// CompoundStat is the mean speed of one compound in one mini-sector of a lap.
type CompoundStat struct {
	Lap       int
	Segment   int
	Compound  telemetry.Compound
	MeanSpeed float64
	Count     int
}

// FastestCompound is the compound with the highest mean speed in a
// mini-sector of a lap.
type FastestCompound struct {
	Lap      int
	Segment  int
	Compound telemetry.Compound
}

func compareLapSegment(aLap, aSeg, bLap, bSeg int) int {
	if c := cmp.Compare(aLap, bLap); c != 0 {
		return c
	}
	return cmp.Compare(aSeg, bSeg)
}

func compareStats(a, b CompoundStat) int {
	if c := compareLapSegment(a.Lap, a.Segment, b.Lap, b.Segment); c != 0 {
		return c
	}
	return cmp.Compare(a.Compound, b.Compound)
}

// AverageSpeeds groups the samples by (lap, mini-sector, compound) and
// computes the mean speed per group. The result is ordered by
// (lap, mini-sector, compound).
func AverageSpeeds(samples []ClassifiedSample) []CompoundStat {
	groups := lo.GroupBy(samples, func(s ClassifiedSample) lapSegmentCompound {
		return lapSegmentCompound{
			lapSegment: lapSegment{Lap: s.Lap, Segment: s.Segment},
			Compound:   s.Compound,
		}
	})
	ret := make([]CompoundStat, 0, len(groups))
	for k, group := range groups {
		sum := lo.SumBy(group, func(s ClassifiedSample) float64 { return s.Speed })
		ret = append(ret, CompoundStat{
			Lap:       k.Lap,
			Segment:   k.Segment,
			Compound:  k.Compound,
			MeanSpeed: sum / float64(len(group)),
			Count:     len(group),
		})
	}
	slices.SortFunc(ret, compareStats)
	return ret
}

// PickFastest selects the compound with the highest mean speed for every
// (lap, mini-sector) present in stats. On an exact tie the first row in
// (lap, mini-sector, compound) order is kept.
func PickFastest(stats []CompoundStat) []FastestCompound {
	ordered := slices.Clone(stats)
	slices.SortStableFunc(ordered, compareStats)

	ret := make([]FastestCompound, 0)
	var best CompoundStat
	for i, s := range ordered {
		switch {
		case i == 0:
			best = s
		case s.Lap != best.Lap || s.Segment != best.Segment:
			ret = append(ret, FastestCompound{Lap: best.Lap, Segment: best.Segment, Compound: best.Compound})
			best = s
		case s.MeanSpeed > best.MeanSpeed:
			best = s
		}
	}
	if len(ordered) > 0 {
		ret = append(ret, FastestCompound{Lap: best.Lap, Segment: best.Segment, Compound: best.Compound})
	}
	return ret
}
