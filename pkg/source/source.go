// Package source opens the telemetry source selected on the command line.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
	"github.com/joshgregory42/f1-analysis-2021/pkg/cache"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/dataset"
	"github.com/joshgregory42/f1-analysis-2021/pkg/util"
	"github.com/joshgregory42/f1-analysis-2021/pkg/wamp"
)

var (
	ErrNoSource            = errors.New("either --dataset or --wamp-url is required")
	ErrAmbiguousSource     = errors.New("--dataset and --wamp-url are mutually exclusive")
	ErrIncompatibleVersion = errors.New("telemetry provider version not supported")
)

// Source bundles the telemetry provider, the lap table and the event name.
// Provider is wrapped by the cache when a cache file is configured.
type Source struct {
	Provider telemetry.Provider
	Laps     telemetry.LapSource
	Event    string
	Cache    *cache.Cache
	closers  []func() error
}

func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// Open creates the source described by cfg.
func Open(ctx context.Context, cfg *config.CliArgs) (*Source, error) {
	var (
		ret *Source
		err error
	)
	switch {
	case cfg.Dataset != "" && cfg.WampURL != "":
		return nil, ErrAmbiguousSource
	case cfg.Dataset != "":
		ret, err = openDataset(cfg)
	case cfg.WampURL != "":
		ret, err = openWamp(ctx, cfg)
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, err
	}
	if cfg.Event != "" {
		ret.Event = cfg.Event
	}
	if cfg.CacheFile != "" {
		if err := ret.attachCache(cfg.CacheFile); err != nil {
			ret.Close()
			return nil, err
		}
	}
	return ret, nil
}

func openDataset(cfg *config.CliArgs) (*Source, error) {
	ds, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.Dataset, err)
	}
	log.Debug("Dataset loaded",
		log.String("file", cfg.Dataset),
		log.String("event", ds.Event()),
		log.Int("laps", len(ds.File().Laps)))
	return &Source{Provider: ds, Laps: ds, Event: ds.Event()}, nil
}

func openWamp(ctx context.Context, cfg *config.CliArgs) (*Source, error) {
	opts := []wamp.ConnectFunc{wamp.WithLogger(log.Default().Named("wamp"))}
	if cfg.Ticket != "" {
		opts = append(opts, wamp.WithAuth(cfg.AuthID, cfg.Ticket))
	}
	c, err := wamp.Connect(ctx, cfg.WampURL, cfg.Realm, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.WampURL, err)
	}
	tc := wamp.NewTelemetryClient(c)
	info, err := tc.GetInfo(ctx)
	if err != nil {
		tc.Close()
		return nil, err
	}
	if !util.CheckProviderVersion(info.Version) {
		tc.Close()
		return nil, fmt.Errorf("%w: %s (required: %s)",
			ErrIncompatibleVersion, info.Version, util.RequiredProviderVersion)
	}
	log.Debug("Telemetry provider connected",
		log.String("version", info.Version),
		log.String("event", info.Event))
	return &Source{Provider: tc, Laps: tc, Event: info.Event, closers: []func() error{tc.Close}}, nil
}

func (s *Source) attachCache(path string) error {
	if s.Event == "" {
		return fmt.Errorf("cache %s: %w (use --event)", path, cache.ErrNoSession)
	}
	c, err := cache.Open(path, cache.WithSession(s.Event))
	if err != nil {
		return err
	}
	s.Cache = c
	s.Provider = c.Wrap(s.Provider)
	s.closers = append(s.closers, c.Close)
	return nil
}
