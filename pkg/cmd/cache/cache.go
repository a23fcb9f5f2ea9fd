package cache

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshgregory42/f1-analysis-2021/log"
	owncache "github.com/joshgregory42/f1-analysis-2021/pkg/cache"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/dataset"
)

var allSessions = false

func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "manage the telemetry cache",
	}
	cmd.AddCommand(newImportCmd(), newClearCmd(), newStatsCmd())
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset>",
		Short: "store all laps of a dataset file in the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := importDataset(cmd.Context(), config.DefaultCliArgs(), args[0])
			if err == nil {
				fmt.Fprintf(os.Stdout, "imported %d laps\n", n)
			}
			return err
		},
	}
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "remove cached telemetry of the event (or everything with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(cmd.Context(), config.DefaultCliArgs())
		},
	}
	cmd.Flags().BoolVar(&allSessions, "all", false, "remove the entries of all events")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "show the content of the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStats(cmd.Context(), config.DefaultCliArgs(), os.Stdout)
		},
	}
}

func openCache(cfg *config.CliArgs, session string) (*owncache.Cache, error) {
	if cfg.CacheFile == "" {
		return nil, fmt.Errorf("--cache-file is required")
	}
	return owncache.Open(cfg.CacheFile, owncache.WithSession(session))
}

func importDataset(ctx context.Context, cfg *config.CliArgs, fn string) (int, error) {
	ds, err := dataset.Load(fn)
	if err != nil {
		return 0, err
	}
	session := ds.Event()
	if cfg.Event != "" {
		session = cfg.Event
	}
	c, err := openCache(cfg, session)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	logger := log.FromContextOrDefault(ctx)
	n := 0
	for _, l := range ds.File().Laps {
		if len(l.Telemetry) == 0 {
			continue
		}
		points, err := ds.FetchLap(ctx, l.Driver, l.LapNumber)
		if err != nil {
			return n, err
		}
		if err := c.Store(ctx, l.Driver, l.LapNumber, points); err != nil {
			return n, err
		}
		logger.Debug("lap imported",
			log.String("driver", l.Driver),
			log.Int("lap", l.LapNumber),
			log.Int("points", len(points)))
		n++
	}
	return n, nil
}

func clearCache(ctx context.Context, cfg *config.CliArgs) error {
	session := cfg.Event
	if allSessions {
		session = ""
	} else if session == "" {
		return fmt.Errorf("--event is required (or use --all)")
	}
	c, err := openCache(cfg, session)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Clear(ctx)
}

func printStats(ctx context.Context, cfg *config.CliArgs, w io.Writer) error {
	c, err := openCache(cfg, cfg.Event)
	if err != nil {
		return err
	}
	defer c.Close()
	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, `Cache file : %s
Events     : %d
Laps       : %d
Points     : %d
`, cfg.CacheFile, stats.Sessions, stats.Laps, stats.Points)
	return nil
}
