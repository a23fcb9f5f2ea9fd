package telemetry

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Selection filters the laps of a session down to the laps to analyze.
// Lap numbers given to the filter are race laps, i.e. the lap number minus
// LapOffset (the formation lap is counted as lap 1 by most timing feeds).
type Selection struct {
	Drivers   []string // empty means all drivers
	LapOffset int
	MinLap    int // 0 means no lower bound
	MaxLap    int // 0 means no upper bound
	Stints    []int
}

func (s Selection) RaceLap(lapNumber int) int {
	return lapNumber - s.LapOffset
}

func (s Selection) matches(info LapInfo) bool {
	if len(s.Drivers) > 0 && !slices.Contains(s.Drivers, info.Driver) {
		return false
	}
	if len(s.Stints) > 0 && !slices.Contains(s.Stints, info.Stint) {
		return false
	}
	raceLap := s.RaceLap(info.LapNumber)
	if raceLap < 1 {
		return false
	}
	if s.MinLap > 0 && raceLap < s.MinLap {
		return false
	}
	if s.MaxLap > 0 && raceLap > s.MaxLap {
		return false
	}
	return true
}

// Apply returns the lap references for all matching laps.
func (s Selection) Apply(laps []LapInfo) []LapRef {
	return lo.FilterMap(laps, func(info LapInfo, _ int) (LapRef, bool) {
		if !s.matches(info) {
			return LapRef{}, false
		}
		return LapRef{
			Driver:   info.Driver,
			Lap:      info.LapNumber,
			RaceLap:  s.RaceLap(info.LapNumber),
			Compound: info.Compound,
		}, true
	})
}
