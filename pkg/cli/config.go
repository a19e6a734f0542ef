package cli

import (
	"io"

	"github.com/poltergeist/diner/pkg/config"
	"github.com/poltergeist/diner/pkg/logger"
)

// Config holds all CLI configuration, making it testable and eliminating globals
type Config struct {
	ConfigFile string
	Verbosity  string
	Version    string
	CPUProfile string
}

// NewConfig creates a new CLI configuration with defaults
func NewConfig() *Config {
	return &Config{
		Verbosity: config.Default().LogLevel,
		Version:   "dev",
	}
}

// LoggerFactory builds the run logger from the effective configuration
type LoggerFactory func(cfg *config.Config) logger.Logger

func defaultLoggerFactory(cfg *config.Config) logger.Logger {
	return logger.CreateLogger(cfg.LogFile, cfg.LogLevel)
}

func writerLoggerFactory(out io.Writer) LoggerFactory {
	return func(cfg *config.Config) logger.Logger {
		return logger.CreateLoggerWithOutput(cfg.LogLevel, out)
	}
}
