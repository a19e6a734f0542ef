// Package config handles simulation configuration loading and validation
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is the prefix for environment overrides, e.g. DINER_TIMEUNIT=100ms
const EnvPrefix = "DINER"

// DefaultConfigName is searched for in the working directory when no file is given
const DefaultConfigName = "diner.config"

// Range is an inclusive range of time units
type Range struct {
	Min int `mapstructure:"min" yaml:"min" json:"min"`
	Max int `mapstructure:"max" yaml:"max" json:"max"`
}

// NotificationConfig selects the notification sinks
type NotificationConfig struct {
	Console bool `mapstructure:"console" yaml:"console" json:"console"`
	Colors  bool `mapstructure:"colors" yaml:"colors" json:"colors"`
	Log     bool `mapstructure:"log" yaml:"log" json:"log"`
	Desktop bool `mapstructure:"desktop" yaml:"desktop" json:"desktop"`
	Sound   bool `mapstructure:"sound" yaml:"sound" json:"sound"`
}

// Config holds the simulation parameters. Delays are expressed in time
// units; TimeUnit converts them into wall-clock time.
type Config struct {
	TimeUnit          time.Duration      `mapstructure:"timeUnit" yaml:"timeUnit" json:"timeUnit"`
	IntakeDelay       Range              `mapstructure:"intakeDelay" yaml:"intakeDelay" json:"intakeDelay"`
	CookTime          Range              `mapstructure:"cookTime" yaml:"cookTime" json:"cookTime"`
	CourierInterval   int                `mapstructure:"courierInterval" yaml:"courierInterval" json:"courierInterval"`
	PollInterval      time.Duration      `mapstructure:"pollInterval" yaml:"pollInterval" json:"pollInterval"`
	DeliveryThreshold int                `mapstructure:"deliveryThreshold" yaml:"deliveryThreshold" json:"deliveryThreshold"`
	Seed              uint64             `mapstructure:"seed" yaml:"seed" json:"seed"`
	LogLevel          string             `mapstructure:"logLevel" yaml:"logLevel" json:"logLevel"`
	LogFile           string             `mapstructure:"logFile" yaml:"logFile" json:"logFile"`
	Notifications     NotificationConfig `mapstructure:"notifications" yaml:"notifications" json:"notifications"`
}

// Default returns the reference timings: orders every 5-10s, cooking
// 5-15s, a courier every 30s, kitchen polling every 100ms and shutdown
// after 10 deliveries.
func Default() *Config {
	return &Config{
		TimeUnit:          time.Second,
		IntakeDelay:       Range{Min: 5, Max: 10},
		CookTime:          Range{Min: 5, Max: 15},
		CourierInterval:   30,
		PollInterval:      100 * time.Millisecond,
		DeliveryThreshold: 10,
		LogLevel:          "warn",
		Notifications: NotificationConfig{
			Console: true,
			Colors:  true,
		},
	}
}

// Units converts a count of time units into a duration
func (c *Config) Units(n int) time.Duration {
	return time.Duration(n) * c.TimeUnit
}

// Validate checks the configuration
func (c *Config) Validate() error {
	var problems []string

	if c.TimeUnit <= 0 {
		problems = append(problems, "timeUnit must be positive")
	}
	if err := c.IntakeDelay.validate("intakeDelay"); err != "" {
		problems = append(problems, err)
	}
	if err := c.CookTime.validate("cookTime"); err != "" {
		problems = append(problems, err)
	}
	if c.CourierInterval <= 0 {
		problems = append(problems, "courierInterval must be positive")
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "pollInterval must be positive")
	}
	if c.DeliveryThreshold <= 0 {
		problems = append(problems, "deliveryThreshold must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("logLevel %q is not a level", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (r Range) validate(name string) string {
	if r.Min < 0 {
		return fmt.Sprintf("%s.min must not be negative", name)
	}
	if r.Min > r.Max {
		return fmt.Sprintf("%s.min %d exceeds max %d", name, r.Min, r.Max)
	}
	return ""
}

// Manager loads configuration from defaults, an optional file, the
// environment and bound command-line flags, in increasing precedence.
type Manager struct {
	v *viper.Viper
}

// NewManager creates a new configuration manager seeded with defaults
func NewManager() *Manager {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Manager{v: v}
}

// BindFlag binds a command-line flag to a configuration key
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for %s", key)
	}
	return m.v.BindPFlag(key, flag)
}

// Load reads the given file, or diner.config.{yaml,json} from the working
// directory when path is empty. A missing default file is not an error.
func (m *Manager) Load(path string) (*Config, error) {
	if path != "" {
		m.v.SetConfigFile(path)
	} else {
		m.v.AddConfigPath(".")
		m.v.SetConfigName(DefaultConfigName)
	}

	if err := m.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the file Load read, if any
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// LoadFile is a convenience wrapper around a fresh Manager
func LoadFile(path string) (*Config, error) {
	return NewManager().Load(path)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("timeUnit", d.TimeUnit)
	v.SetDefault("intakeDelay.min", d.IntakeDelay.Min)
	v.SetDefault("intakeDelay.max", d.IntakeDelay.Max)
	v.SetDefault("cookTime.min", d.CookTime.Min)
	v.SetDefault("cookTime.max", d.CookTime.Max)
	v.SetDefault("courierInterval", d.CourierInterval)
	v.SetDefault("pollInterval", d.PollInterval)
	v.SetDefault("deliveryThreshold", d.DeliveryThreshold)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("logLevel", d.LogLevel)
	v.SetDefault("logFile", d.LogFile)
	v.SetDefault("notifications.console", d.Notifications.Console)
	v.SetDefault("notifications.colors", d.Notifications.Colors)
	v.SetDefault("notifications.log", d.Notifications.Log)
	v.SetDefault("notifications.desktop", d.Notifications.Desktop)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
}
