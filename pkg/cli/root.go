// Package cli provides the command-line interface for the diner simulation
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/poltergeist/diner/pkg/config"
	"github.com/spf13/cobra"
)

// CLI encapsulates the command-line interface without global state
type CLI struct {
	config    *Config
	rootCmd   *cobra.Command
	manager   *config.Manager
	newLogger LoggerFactory
	output    io.Writer
	errorOut  io.Writer
}

// flag name -> configuration key
var boundFlags = map[string]string{
	"verbosity": "logLevel",
	"time-unit": "timeUnit",
	"seed":      "seed",
	"threshold": "deliveryThreshold",
	"desktop":   "notifications.desktop",
	"log-file":  "logFile",
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(cfg *Config) *CLI {
	if cfg == nil {
		cfg = NewConfig()
	}

	c := &CLI{
		config:    cfg,
		newLogger: defaultLoggerFactory,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}

	c.setupCommands()
	return c
}

// NewCLIWithOutput creates a CLI with custom output writers (for testing).
// Log lines go to errorOut.
func NewCLIWithOutput(cfg *Config, output, errorOut io.Writer) *CLI {
	c := NewCLI(cfg)
	c.output = output
	c.errorOut = errorOut
	c.newLogger = writerLoggerFactory(errorOut)
	c.rootCmd.SetOut(output)
	c.rootCmd.SetErr(errorOut)
	return c
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.Execute()
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "diner",
		Short: "Simulate a restaurant order pipeline",
		Long: `🍽 diner - a three-stage restaurant simulation

Orders arrive at random intervals, a single kitchen cooks them one at a time
and a courier periodically picks up every finished dish. The run ends once the
courier has delivered enough orders.`,

		SilenceUsage:      true,
		PersistentPreRunE: c.initializeConfig,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulation(cmd.Context())
		},
	}

	c.setupFlags()

	c.rootCmd.Version = c.config.Version
	c.rootCmd.SetVersionTemplate("🍽 diner v{{.Version}}\n")

	c.rootCmd.AddCommand(c.newConfigCmd())
	c.rootCmd.AddCommand(c.newValidateCmd())
	c.rootCmd.AddCommand(c.newVersionCmd())
}

func (c *CLI) setupFlags() {
	defaults := config.Default()
	flags := c.rootCmd.PersistentFlags()

	flags.StringVar(&c.config.ConfigFile, "config", "", "config file (default: ./diner.config.{yaml,json})")
	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.Duration("time-unit", defaults.TimeUnit, "wall-clock length of one simulated time unit")
	flags.Uint64("seed", defaults.Seed, "random seed (0 picks one from the clock)")
	flags.Int("threshold", defaults.DeliveryThreshold, "deliveries after which the run ends")
	flags.Bool("desktop", defaults.Notifications.Desktop, "raise desktop notifications")
	flags.String("log-file", defaults.LogFile, "also append log lines to this file")

	c.rootCmd.Flags().StringVar(&c.config.CPUProfile, "cpu-profile", "", "write a CPU profile of the run to this file")
}

// initializeConfig loads the effective configuration: defaults, then the
// config file, then DINER_* environment variables, then flags
func (c *CLI) initializeConfig(cmd *cobra.Command, args []string) error {
	c.manager = config.NewManager()

	flags := cmd.Flags()
	for name, key := range boundFlags {
		if err := c.manager.BindFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	if c.manager == nil {
		c.manager = config.NewManager()
	}
	cfg, err := c.manager.Load(c.config.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// Helper methods for user-facing status lines

func (c *CLI) printSuccess(message string) {
	fmt.Fprintf(c.output, "🍽 %s %s\n", color.GreenString("[diner]"), message)
}

func (c *CLI) printError(message string) {
	fmt.Fprintf(c.errorOut, "🍽 %s %s\n", color.RedString("[diner]"), message)
}

func (c *CLI) printInfo(message string) {
	fmt.Fprintf(c.output, "🍽 %s %s\n", color.CyanString("[diner]"), message)
}

func (c *CLI) printWarning(message string) {
	fmt.Fprintf(c.output, "🍽 %s %s\n", color.YellowString("[diner]"), message)
}
