package cli

import (
	"fmt"
	"strings"

	"github.com/poltergeist/diner/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration a run would use, after merging defaults, the
config file, DINER_* environment variables and flags. The output is YAML and
can be saved as diner.config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConfig()
		},
	}
}

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Check that the configuration is valid and report settings that make for an odd simulation.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate()
		},
	}
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of diner",
		Long:  `Print the version number of diner`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.output, "🍽 diner v%s\n", c.config.Version)
		},
	}
}

// Implementation functions

func (c *CLI) runConfig() error {
	cfg, err := c.loadConfig()
	if err != nil {
		c.printError(err.Error())
		return err
	}

	enc := yaml.NewEncoder(c.output)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

func (c *CLI) runValidate() error {
	cfg, err := c.loadConfig()
	if err != nil {
		c.printError(fmt.Sprintf("Configuration is invalid: %v", err))
		return err
	}

	var warnings []string
	if cfg.CourierInterval <= cfg.IntakeDelay.Min {
		warnings = append(warnings, fmt.Sprintf(
			"courier runs every %d units but orders arrive at most every %d; many pickups will be empty",
			cfg.CourierInterval, cfg.IntakeDelay.Min))
	}
	if cfg.PollInterval >= cfg.TimeUnit {
		warnings = append(warnings, fmt.Sprintf(
			"poll interval %s is not shorter than the time unit %s", cfg.PollInterval, cfg.TimeUnit))
	}
	if cfg.CookTime.Max == 0 {
		warnings = append(warnings, "cooking takes no time")
	}
	if !cfg.Notifications.Console && !cfg.Notifications.Log && !cfg.Notifications.Desktop {
		warnings = append(warnings, "every notification sink is disabled; the run will be silent")
	}

	if len(warnings) > 0 {
		c.printWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Fprintf(c.output, "  ⚠ %s\n", w)
		}
	}

	dishes := make([]string, 0, len(types.Menu()))
	for _, d := range types.Menu() {
		dishes = append(dishes, d.String())
	}
	c.printInfo("Menu: " + strings.Join(dishes, ", "))

	if used := c.manager.ConfigFileUsed(); used != "" {
		c.printSuccess(fmt.Sprintf("Configuration %s is valid", used))
	} else {
		c.printSuccess("Default configuration is valid")
	}
	return nil
}
