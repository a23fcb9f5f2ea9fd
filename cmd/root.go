package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshgregory42/f1-analysis-2021/log"
	analyzeCmd "github.com/joshgregory42/f1-analysis-2021/pkg/cmd/analyze"
	cacheCmd "github.com/joshgregory42/f1-analysis-2021/pkg/cmd/cache"
	"github.com/joshgregory42/f1-analysis-2021/pkg/cmd/check"
	inspectCmd "github.com/joshgregory42/f1-analysis-2021/pkg/cmd/inspect"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
	"github.com/joshgregory42/f1-analysis-2021/pkg/util"
	"github.com/joshgregory42/f1-analysis-2021/version"
)

const envPrefix = "minisector"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minisector",
	Short: "Compare tire compounds per minisector",
	Long: `Splits the track into minisectors and shows for every lap which tire
compound (intermediate or slick) was faster in each of them.`,
	Version:       version.FullVersion,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := util.SetupLogger(config.DefaultCliArgs())
		if err != nil {
			return err
		}
		cmd.SetContext(log.AddToContext(cmd.Context(), logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.minisector.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().LogFormat,
		"log-format",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().LogFile,
		"log-file",
		"",
		"if present logs are written to this file, otherwise to stderr")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().LogConfig,
		"log-config",
		"",
		"yaml file with log configuration (overrides log-format and log-file)")

	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().Dataset,
		"dataset",
		"",
		"dataset file (yaml or json) with the session telemetry")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().WampURL,
		"wamp-url",
		"",
		"url of a remote telemetry provider (e.g. ws://localhost:8080/ws)")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().Realm,
		"realm",
		"racelog",
		"realm of the remote telemetry provider")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().AuthID,
		"auth-id",
		"",
		"authid used with --ticket")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().Ticket,
		"ticket",
		"",
		"ticket for the remote telemetry provider")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().CacheFile,
		"cache-file",
		"",
		"sqlite file used to cache fetched telemetry")
	rootCmd.PersistentFlags().StringVar(&config.DefaultCliArgs().Event,
		"event",
		"",
		"event name (default: name delivered by the telemetry source)")

	rootCmd.AddCommand(analyzeCmd.NewAnalyzeCmd())
	rootCmd.AddCommand(inspectCmd.NewInspectCmd())
	rootCmd.AddCommand(check.NewVersionCheckCmd())
	rootCmd.AddCommand(cacheCmd.NewCacheCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".minisector" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".minisector")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindAll(rootCmd, viper.GetViper())
}

func bindAll(cmd *cobra.Command, v *viper.Viper) {
	bindFlags(cmd, v)
	for _, sub := range cmd.Commands() {
		bindAll(sub, v)
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --cache-file to MINISECTOR_CACHE_FILE
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			if err := setFlag(cmd, f, v.Get(f.Name)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

// setFlag applies a config value. Lists from the config file are set element
// wise since their fmt representation is not a valid flag value.
func setFlag(cmd *cobra.Command, f *pflag.Flag, val any) error {
	if items, ok := val.([]any); ok {
		for _, item := range items {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", item)); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
}
