package util

import (
	"fmt"
	"io"
	"os"

	"github.com/joshgregory42/f1-analysis-2021/log"
	"github.com/joshgregory42/f1-analysis-2021/pkg/config"
)

// SetupLogger creates the process wide logger from the cli args and
// installs it as default.
func SetupLogger(cfg *config.CliArgs) (*log.Logger, error) {
	var logger *log.Logger
	if cfg.LogConfig != "" {
		logCfg, err := log.LoadConfig(cfg.LogConfig)
		if err != nil {
			return nil, fmt.Errorf("load log config: %w", err)
		}
		logger, err = log.NewWithConfig(logCfg,
			parseLogLevel(cfg.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		if err != nil {
			return nil, err
		}
		log.ResetDefault(logger)
		return logger, nil
	}

	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	switch cfg.LogFormat {
	case "json":
		logger = log.New(
			w,
			parseLogLevel(cfg.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			w,
			parseLogLevel(cfg.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}

	log.ResetDefault(logger)
	return logger, nil
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}
