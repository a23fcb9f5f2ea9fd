package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the content of an optional log config file (--log-config).
//
// Example:
//
//	defaultLevel: info
//	loggers:
//	  store: debug
//	  processor: warn
//	zap:
//	  encoding: console
type Config struct {
	DefaultLevel string            `yaml:"defaultLevel"`
	Loggers      map[string]string `yaml:"loggers"`
	Zap          zap.Config        `yaml:"zap"`
}

func DefaultDevConfig() *Config {
	z := zap.NewDevelopmentConfig()
	z.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return &Config{
		DefaultLevel: "info",
		Loggers:      map[string]string{},
		Zap:          z,
	}
}

func DefaultProdConfig() *Config {
	return &Config{
		DefaultLevel: "info",
		Loggers:      map[string]string{},
		Zap:          zap.NewProductionConfig(),
	}
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	cfg := Config{
		Zap: zap.NewProductionConfig(),
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Loggers == nil {
		cfg.Loggers = map[string]string{}
	}
	return &cfg, nil
}
