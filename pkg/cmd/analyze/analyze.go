package analyze

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joshgregory42/f1-analysis-2021/internal/processor"
	"github.com/joshgregory42/f1-analysis-2021/internal/render"
	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/source"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "render the fastest tire compound per minisector",
		Long: `Collects the telemetry of the selected laps, splits the track into
minisectors and renders one image per lap where each part of the track is
colored by the compound that was faster in that minisector.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := Run(cmd.Context(), config.DefaultCliArgs())
			return err
		},
	}
	AddSelectionFlags(cmd, config.DefaultCliArgs())

	cmd.Flags().IntVar(&config.DefaultCliArgs().Minisectors,
		"minisectors",
		processor.DefaultNumMinisectors,
		"number of minisectors per lap")
	cmd.Flags().StringVar(&config.DefaultCliArgs().Bucketing,
		"bucketing",
		processor.BucketNearest.String(),
		"how samples are assigned to minisectors (nearest, containment)")
	cmd.Flags().IntVar(&config.DefaultCliArgs().MaxFetchers,
		"max-fetchers",
		4,
		"number of laps fetched concurrently")
	cmd.Flags().IntSliceVar(&config.DefaultCliArgs().Laps,
		"laps",
		[]int{},
		"race laps to render (default: all analyzed laps)")
	cmd.Flags().StringVarP(&config.DefaultCliArgs().OutDir,
		"out-dir",
		"o",
		".",
		"directory for the rendered images")
	cmd.Flags().StringVar(&config.DefaultCliArgs().Format,
		"format",
		string(render.FormatPNG),
		"image format (png, svg)")
	cmd.Flags().IntVar(&config.DefaultCliArgs().Size,
		"size",
		render.DefaultOptions().Size,
		"width and height of the images in pixels")
	cmd.Flags().Float64Var(&config.DefaultCliArgs().DPI,
		"dpi",
		render.DefaultOptions().DPI,
		"resolution of the images")
	cmd.Flags().BoolVar(&config.DefaultCliArgs().Details,
		"details",
		true,
		"draw title and legend")
	return cmd
}

// AddSelectionFlags registers the flags of the lap selection.
func AddSelectionFlags(cmd *cobra.Command, cfg *config.CliArgs) {
	cmd.Flags().StringSliceVar(&cfg.Drivers,
		"drivers",
		[]string{},
		"only use laps of these drivers (default: all)")
	cmd.Flags().IntVar(&cfg.LapOffset,
		"lap-offset",
		1,
		"subtracted from the lap number to get the race lap")
	cmd.Flags().IntVar(&cfg.MinLap,
		"min-lap",
		0,
		"first race lap to use (0: no limit)")
	cmd.Flags().IntVar(&cfg.MaxLap,
		"max-lap",
		0,
		"last race lap to use (0: no limit)")
	cmd.Flags().IntSliceVar(&cfg.Stints,
		"stints",
		[]int{},
		"only use laps of these stints (default: all)")
}

// SelectionFrom builds the lap selection from the cli args.
func SelectionFrom(cfg *config.CliArgs) telemetry.Selection {
	return telemetry.Selection{
		Drivers:   cfg.Drivers,
		LapOffset: cfg.LapOffset,
		MinLap:    cfg.MinLap,
		MaxLap:    cfg.MaxLap,
		Stints:    cfg.Stints,
	}
}

// Report summarizes a run.
type Report struct {
	RunID  string
	Event  string
	Result *processor.Result
	Files  []string
}

// Run executes the whole pipeline and writes one image per lap.
func Run(ctx context.Context, cfg *config.CliArgs) (*Report, error) {
	bucketing, err := processor.ParseBucketing(cfg.Bucketing)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := log.FromContextOrDefault(ctx).With(log.String("run", runID))

	src, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lapInfos, err := src.Laps.Laps(ctx)
	if err != nil {
		return nil, fmt.Errorf("read laps: %w", err)
	}
	refs := SelectionFrom(cfg).Apply(lapInfos)
	logger.Info("laps selected",
		log.String("event", src.Event),
		log.Int("available", len(lapInfos)),
		log.Int("selected", len(refs)))

	store := telemetry.NewStore(src.Provider,
		telemetry.WithMaxFetchers(cfg.MaxFetchers),
		telemetry.WithStoreLogger(logger.Named("store")))
	samples := store.Collect(ctx, refs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Cache != nil {
		if stats, err := src.Cache.Stats(ctx); err == nil {
			logger.Debug("cache usage",
				log.Int64("hits", stats.Hits),
				log.Int64("misses", stats.Misses))
		}
	}

	proc := processor.NewProcessor(
		processor.WithNumMinisectors(cfg.Minisectors),
		processor.WithBucketing(bucketing),
		processor.WithLogger(logger.Named("processor")))
	result, err := proc.Process(samples)
	if err != nil {
		return nil, err
	}

	laps := cfg.Laps
	if len(laps) == 0 {
		laps = result.Laps()
	}
	s := &sink{
		outDir: cfg.OutDir,
		opts: render.Options{
			Format: format,
			Size:   cfg.Size,
			DPI:    cfg.DPI,
		},
	}
	report := &Report{RunID: runID, Event: src.Event, Result: result}
	for _, lap := range laps {
		scene := render.BuildScene(result.Merged, lap, render.SceneOptions{
			Title:   Title(src.Event, lap),
			Details: cfg.Details,
		})
		if scene.Empty() {
			logger.Warn("lap has nothing to draw", log.Int("lap", lap))
		}
		fn, err := s.write(scene)
		if err != nil {
			return nil, err
		}
		wins := result.WinCounts(lap)
		logger.Info("lap rendered",
			log.Int("lap", lap),
			log.String("file", fn),
			log.Int("inters", wins[telemetry.Intermediate]),
			log.Int("slicks", wins[telemetry.Slick]))
		report.Files = append(report.Files, fn)
	}
	return report, nil
}

// Title is the default chart title of a lap.
func Title(event string, lap int) string {
	if event == "" {
		return fmt.Sprintf("Lap %d - Slicks vs. Inters", lap)
	}
	return fmt.Sprintf("%s Lap %d - Slicks vs. Inters", event, lap)
}
