package telemetry

import (
	"context"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/iter"

	"github.com/joshgregory42/f1-analysis-2021/log"
)

const defaultMaxFetchers = 4

type (
	// Store collects telemetry samples for a set of laps.
	Store struct {
		provider    Provider
		maxFetchers int
		l           *log.Logger
	}
	StoreOption func(*Store)
)

func WithMaxFetchers(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.maxFetchers = n
		}
	}
}

func WithStoreLogger(l *log.Logger) StoreOption {
	return func(s *Store) { s.l = l }
}

func NewStore(provider Provider, opts ...StoreOption) *Store {
	ret := &Store{
		provider:    provider,
		maxFetchers: defaultMaxFetchers,
		l:           log.Default().Named("store"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Collect fetches all referenced laps and returns their samples as one flat
// collection. Every lap is fetched independently; a lap without data or with
// a failing fetch contributes no samples. The result keeps the order of refs.
func (s *Store) Collect(ctx context.Context, refs []LapRef) []Sample {
	mapper := iter.Mapper[LapRef, []Sample]{MaxGoroutines: s.maxFetchers}
	perLap := mapper.Map(refs, func(ref *LapRef) []Sample {
		return s.collectLap(ctx, *ref)
	})
	ret := lo.Flatten(perLap)
	s.l.Debug("collected telemetry",
		log.Int("laps", len(refs)),
		log.Int("samples", len(ret)))
	return ret
}

func (s *Store) collectLap(ctx context.Context, ref LapRef) []Sample {
	points, err := s.provider.FetchLap(ctx, ref.Driver, ref.Lap)
	if err != nil {
		s.l.Warn("could not fetch lap telemetry, skipping lap",
			log.String("driver", ref.Driver),
			log.Int("lap", ref.Lap),
			log.ErrorField(err))
		return nil
	}
	if len(points) == 0 {
		s.l.Debug("no telemetry for lap",
			log.String("driver", ref.Driver),
			log.Int("lap", ref.Lap))
		return nil
	}
	return TagPoints(points, ref)
}

// TagPoints converts the raw points of a lap into samples.
func TagPoints(points []Point, ref LapRef) []Sample {
	compound := NormalizeCompound(ref.Compound)
	lap := ref.RaceLap
	if lap == 0 {
		lap = ref.Lap
	}
	return lo.Map(points, func(p Point, _ int) Sample {
		return Sample{
			Driver:   ref.Driver,
			Lap:      lap,
			Distance: p.Distance,
			Speed:    p.Speed,
			X:        p.X,
			Y:        p.Y,
			Compound: compound,
		}
	})
}
