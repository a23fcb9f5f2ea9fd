package render

import (
	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"github.com/joshgregory42/f1-analysis-2021/internal/processor"
)

// Segment is a straight line between two consecutive samples of a lap,
// drawn in the color of its first sample.
type Segment struct {
	From r2.Point
	To   r2.Point
	Code processor.ColorCode
}

type LegendEntry struct {
	Label string
	Code  processor.ColorCode
}

// Scene is the renderable content of one lap.
type Scene struct {
	Lap      int
	Title    string
	Segments []Segment
	Legend   []LegendEntry
	Bounds   r2.Rect
}

type SceneOptions struct {
	Title   string
	Details bool // draw title and legend
}

// DefaultLegend labels the two color codes.
func DefaultLegend() []LegendEntry {
	return []LegendEntry{
		{Label: "Inters", Code: processor.CodeIntermediate},
		{Label: "Slicks", Code: processor.CodeSlick},
	}
}

func (s *Scene) Empty() bool {
	return len(s.Segments) == 0
}

// BuildScene creates the scene of a single lap. merged must be ordered by
// distance. A lap with less than two samples yields an empty scene.
func BuildScene(merged []processor.MergedSample, lap int, opts SceneOptions) *Scene {
	lapSamples := lo.Filter(merged, func(m processor.MergedSample, _ int) bool {
		return m.Lap == lap
	})
	ret := &Scene{Lap: lap, Segments: []Segment{}, Bounds: r2.EmptyRect()}
	if opts.Details {
		ret.Title = opts.Title
		ret.Legend = DefaultLegend()
	}
	if len(lapSamples) < 2 {
		return ret
	}
	points := lo.Map(lapSamples, func(m processor.MergedSample, _ int) r2.Point {
		return r2.Point{X: m.X, Y: m.Y}
	})
	ret.Bounds = r2.RectFromPoints(points...)
	ret.Segments = make([]Segment, len(points)-1)
	for i := range ret.Segments {
		ret.Segments[i] = Segment{From: points[i], To: points[i+1], Code: lapSamples[i].Code}
	}
	return ret
}

// polyline is a run of consecutive segments sharing the same code.
type polyline struct {
	Code   processor.ColorCode
	Points []r2.Point
}

func (s *Scene) polylines() []polyline {
	ret := []polyline{}
	for i, seg := range s.Segments {
		if i == 0 || seg.Code != s.Segments[i-1].Code || seg.From != s.Segments[i-1].To {
			ret = append(ret, polyline{Code: seg.Code, Points: []r2.Point{seg.From}})
		}
		cur := &ret[len(ret)-1]
		cur.Points = append(cur.Points, seg.To)
	}
	return ret
}
