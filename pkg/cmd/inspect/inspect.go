package inspect

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/joshgregory42/f1-analysis-2021/internal/telemetry"
	"github.com/joshgregory42/f1-analysis-2021/log"
	"github.com/joshgregory42/f1-analysis-2021/pkg/cmd/analyze"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/source"
)

func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "show the laps of a session and which of them would be analyzed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectSession(cmd.Context(), config.DefaultCliArgs(), os.Stdout)
		},
	}
	analyze.AddSelectionFlags(cmd, config.DefaultCliArgs())
	return cmd
}

func inspectSession(ctx context.Context, cfg *config.CliArgs, w io.Writer) error {
	src, err := source.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	laps, err := src.Laps.Laps(ctx)
	if err != nil {
		return err
	}
	refs := analyze.SelectionFrom(cfg).Apply(laps)
	log.FromContextOrDefault(ctx).Debug("session inspected",
		log.Int("laps", len(laps)), log.Int("selected", len(refs)))
	printSummary(w, src.Event, laps, refs)
	return nil
}

type driverSummary struct {
	driver    string
	laps      int
	selected  int
	compounds []string
	firstLap  int
	lastLap   int
}

func summarize(laps []telemetry.LapInfo, refs []telemetry.LapRef) []driverSummary {
	selected := map[string]int{}
	for _, r := range refs {
		selected[r.Driver]++
	}
	ret := lo.MapToSlice(lo.GroupBy(laps, func(l telemetry.LapInfo) string { return l.Driver }),
		func(driver string, dl []telemetry.LapInfo) driverSummary {
			nums := lo.Map(dl, func(l telemetry.LapInfo, _ int) int { return l.LapNumber })
			return driverSummary{
				driver:   driver,
				laps:     len(dl),
				selected: selected[driver],
				compounds: lo.Uniq(lo.Map(dl, func(l telemetry.LapInfo, _ int) string {
					return telemetry.NormalizeCompound(l.Compound).String()
				})),
				firstLap: lo.Min(nums),
				lastLap:  lo.Max(nums),
			}
		})
	sort.Slice(ret, func(i, j int) bool { return ret[i].driver < ret[j].driver })
	return ret
}

func printSummary(w io.Writer, event string, laps []telemetry.LapInfo, refs []telemetry.LapRef) {
	fmt.Fprintf(w, "Event         : %s\n", event)
	fmt.Fprintf(w, "Laps          : %d\n", len(laps))
	fmt.Fprintf(w, "Selected laps : %d\n\n", len(refs))
	fmt.Fprintf(w, "%-8s %5s %8s %6s %6s  %s\n",
		"Driver", "Laps", "Selected", "First", "Last", "Compounds")
	for _, s := range summarize(laps, refs) {
		fmt.Fprintf(w, "%-8s %5d %8d %6d %6d  %s\n",
			s.driver, s.laps, s.selected, s.firstLap, s.lastLap,
			strings.Join(s.compounds, ","))
	}
}
