package check

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshgregory42/f1-analysis-2021/log"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/dataset"
	"github.com/joshgregory42/f1-analysis-2021/pkg/util"
	"github.com/joshgregory42/f1-analysis-2021/pkg/wamp"
	"github.com/joshgregory42/f1-analysis-2021/version"
)

func NewVersionCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "check if the telemetry source is compatible with this version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCompatibility(cmd.Context(), config.DefaultCliArgs(), os.Stdout)
		},
	}
	return cmd
}

func checkCompatibility(ctx context.Context, cfg *config.CliArgs, w io.Writer) error {
	logger := log.FromContextOrDefault(ctx)
	switch {
	case cfg.WampURL != "":
		return checkProvider(ctx, cfg, w, logger)
	case cfg.Dataset != "":
		return checkDataset(cfg, w, logger)
	}
	fmt.Fprintf(w, "minisector version : v%s\n", version.Version)
	return nil
}

func checkProvider(ctx context.Context, cfg *config.CliArgs, w io.Writer, logger *log.Logger) error {
	opts := []wamp.ConnectFunc{wamp.WithLogger(logger.Named("wamp"))}
	if cfg.Ticket != "" {
		opts = append(opts, wamp.WithAuth(cfg.AuthID, cfg.Ticket))
	}
	c, err := wamp.Connect(ctx, cfg.WampURL, cfg.Realm, opts...)
	if err != nil {
		return err
	}
	tc := wamp.NewTelemetryClient(c)
	defer tc.Close()
	return printProviderInfo(ctx, tc, w, logger)
}

func printProviderInfo(ctx context.Context, tc *wamp.TelemetryClient, w io.Writer, logger *log.Logger) error {
	info, err := tc.GetInfo(ctx)
	if err != nil {
		logger.Error("error checking compatibility", log.ErrorField(err))
		return err
	}
	compatible := util.CheckProviderVersion(info.Version)
	logger.Debug("Compatibility check successful",
		log.String("provider-version", info.Version),
		log.String("required-provider-version", util.RequiredProviderVersion),
		log.Bool("compatible", compatible))
	fmt.Fprintf(w, `minisector version : v%s
Provider version   : %s
Minimum provider   : %s
Event              : %s
Compatible         : %t
`,
		version.Version,
		info.Version,
		util.RequiredProviderVersion,
		info.Event,
		compatible)
	return nil
}

func checkDataset(cfg *config.CliArgs, w io.Writer, logger *log.Logger) error {
	ds, err := dataset.Load(cfg.Dataset)
	compatible := err == nil
	schema := ""
	if compatible {
		schema = ds.File().SchemaVersion
	} else {
		logger.Debug("dataset not readable", log.ErrorField(err))
	}
	fmt.Fprintf(w, `minisector version : v%s
Dataset            : %s
Schema version     : %s
Supported schema   : %s.x
Compatible         : %t
`,
		version.Version,
		cfg.Dataset,
		schema,
		util.SupportedSchemaMajor,
		compatible)
	return err
}
