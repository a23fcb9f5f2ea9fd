package processor

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
)

type Options struct {
	NumMinisectors int
	Bucketing      Bucketing
	Logger         *log.Logger
}

func defaultOptions() *Options {
	return &Options{
		NumMinisectors: DefaultNumMinisectors,
		Bucketing:      BucketNearest,
	}
}

// functional options pattern for Options
type OptionsFunc func(*Options)

func WithNumMinisectors(n int) OptionsFunc {
	return func(o *Options) {
		o.NumMinisectors = n
	}
}

func WithBucketing(b Bucketing) OptionsFunc {
	return func(o *Options) {
		o.Bucketing = b
	}
}

func WithLogger(l *log.Logger) OptionsFunc {
	return func(o *Options) {
		o.Logger = l
	}
}

// Processor turns raw samples into per mini-sector fastest compound data.
type Processor struct {
	options *Options
	l       *log.Logger
}

// Result holds the output of all pipeline stages of one run.
type Result struct {
	Boundaries *BoundarySet
	Stats      []CompoundStat
	Fastest    []FastestCompound
	Merged     []MergedSample
}

func NewProcessor(options ...OptionsFunc) *Processor {
	opts := defaultOptions()
	for _, o := range options {
		o(opts)
	}
	l := opts.Logger
	if l == nil {
		l = log.Default().Named("processor")
	}
	return &Processor{options: opts, l: l}
}

// Process runs boundary computation, classification, aggregation, selection,
// merge and color coding on the collected samples.
func (p *Processor) Process(samples []telemetry.Sample) (*Result, error) {
	bs, err := ComputeBoundaries(samples, p.options.NumMinisectors)
	if err != nil {
		return nil, err
	}
	p.l.Debug("computed boundaries",
		log.Float64("totalDistance", bs.TotalDistance),
		log.Float64("segmentLength", bs.SegmentLength),
		log.Int("segments", bs.NumSegments()),
		log.String("bucketing", p.options.Bucketing.String()))

	classified := Classify(samples, bs, p.options.Bucketing)
	stats := AverageSpeeds(classified)
	fastest := PickFastest(stats)
	merged := Merge(classified, fastest)
	if err := EncodeCompounds(merged); err != nil {
		return nil, err
	}
	if dropped := len(classified) - len(merged); dropped > 0 {
		p.l.Debug("samples without fastest compound", log.Int("dropped", dropped))
	}
	p.l.Info("mini-sector analysis done",
		log.Int("samples", len(samples)),
		log.Int("groups", len(stats)),
		log.Int("assignments", len(fastest)))

	return &Result{
		Boundaries: bs,
		Stats:      stats,
		Fastest:    fastest,
		Merged:     merged,
	}, nil
}

// Laps returns the laps with at least one merged sample in ascending order.
func (r *Result) Laps() []int {
	ret := lo.Uniq(lo.Map(r.Merged, func(m MergedSample, _ int) int { return m.Lap }))
	slices.Sort(ret)
	return ret
}

// Lap returns the merged samples of one lap, ordered by distance.
func (r *Result) Lap(lap int) []MergedSample {
	return lo.Filter(r.Merged, func(m MergedSample, _ int) bool { return m.Lap == lap })
}

// WinCounts returns the number of mini-sectors won per compound in a lap.
func (r *Result) WinCounts(lap int) map[telemetry.Compound]int {
	ret := map[telemetry.Compound]int{}
	for _, f := range r.Fastest {
		if f.Lap == lap {
			ret[f.Compound]++
		}
	}
	return ret
}
