// Package config provides configuration management for herobook using Viper
// for loading from files, environment variables and command-line flags.
//
// The configuration covers the preview server, where story fixtures come
// from, the Hero display budget, snapshot capture and logging. Values are
// validated after defaults are applied.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/herobook/internal/validation"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Stories  StoriesConfig  `mapstructure:"stories" yaml:"stories"`
	Hero     HeroConfig     `mapstructure:"hero" yaml:"hero"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	Host           string   `mapstructure:"host" yaml:"host"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	NoOpen         bool     `mapstructure:"no-open" yaml:"no-open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	Environment    string   `mapstructure:"environment" yaml:"environment"`
}

type StoriesConfig struct {
	// Fixtures is a YAML fixtures file; empty means the built-in fixtures.
	Fixtures string `mapstructure:"fixtures" yaml:"fixtures"`
	// Watch reloads the catalog when the fixtures file changes.
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

type HeroConfig struct {
	DisplayBudget int `mapstructure:"display_budget" yaml:"display_budget"`
}

type SnapshotConfig struct {
	OutputDir string        `mapstructure:"output_dir" yaml:"output_dir"`
	Widths    []int         `mapstructure:"widths" yaml:"widths"`
	Height    int           `mapstructure:"height" yaml:"height"`
	Browser   string        `mapstructure:"browser" yaml:"browser"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

const (
	DefaultPort          = 6006
	DefaultHost          = "localhost"
	DefaultDisplayBudget = 2
	DefaultSnapshotDir   = ".herobook/snapshots"
	DefaultSnapshotWait  = 30 * time.Second
)

// DefaultSnapshotWidths are phone, tablet and desktop viewport widths.
var DefaultSnapshotWidths = []int{375, 768, 1280}

// Default returns the configuration Load produces when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        DefaultPort,
			Host:        DefaultHost,
			Open:        true,
			Environment: "development",
		},
		Stories: StoriesConfig{Watch: true},
		Hero:    HeroConfig{DisplayBudget: DefaultDisplayBudget},
		Snapshot: SnapshotConfig{
			OutputDir: DefaultSnapshotDir,
			Widths:    append([]int(nil), DefaultSnapshotWidths...),
			Height:    800,
			Timeout:   DefaultSnapshotWait,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration from viper, applies defaults and validates
// the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Server defaults
	if !viper.IsSet("server.port") {
		config.Server.Port = DefaultPort
	}
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if !viper.IsSet("server.open") {
		config.Server.Open = true
	}
	if config.Server.Environment == "" {
		config.Server.Environment = "development"
	}

	// Override open if no-open was passed on the command line
	if viper.IsSet("server.no-open") && viper.GetBool("server.no-open") {
		config.Server.Open = false
	}

	// Handle allowed origins set via environment (comma separated)
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	if !viper.IsSet("stories.watch") {
		config.Stories.Watch = true
	}

	if !viper.IsSet("hero.display_budget") {
		config.Hero.DisplayBudget = DefaultDisplayBudget
	}

	if config.Snapshot.OutputDir == "" {
		config.Snapshot.OutputDir = DefaultSnapshotDir
	}
	if len(config.Snapshot.Widths) == 0 {
		config.Snapshot.Widths = append([]int(nil), DefaultSnapshotWidths...)
	}
	if config.Snapshot.Height == 0 {
		config.Snapshot.Height = 800
	}
	if config.Snapshot.Timeout == 0 {
		config.Snapshot.Timeout = DefaultSnapshotWait
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if config.Stories.Fixtures != "" {
		if err := validation.ValidatePath(config.Stories.Fixtures); err != nil {
			return fmt.Errorf("stories config: invalid fixtures path '%s': %w", config.Stories.Fixtures, err)
		}
	}

	if config.Hero.DisplayBudget < 1 {
		return fmt.Errorf("hero config: display_budget must be at least 1, got %d", config.Hero.DisplayBudget)
	}

	if err := validateSnapshotConfig(&config.Snapshot); err != nil {
		return fmt.Errorf("snapshot config: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if i := strings.IndexAny(config.Host, ";&|$`()<>\"'\\/ "); i >= 0 {
		return fmt.Errorf("host contains dangerous character: %c", config.Host[i])
	}

	switch config.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("unknown environment %q", config.Environment)
	}

	return nil
}

func validateSnapshotConfig(config *SnapshotConfig) error {
	if err := validation.ValidatePath(config.OutputDir); err != nil {
		return fmt.Errorf("invalid output_dir: %w", err)
	}

	for _, w := range config.Widths {
		if w <= 0 {
			return fmt.Errorf("viewport width must be positive, got %d", w)
		}
	}
	if config.Height <= 0 {
		return fmt.Errorf("viewport height must be positive, got %d", config.Height)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", config.Timeout)
	}

	return nil
}

func validateLogConfig(config *LogConfig) error {
	switch strings.ToLower(config.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.Level)
	}

	switch config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.Format)
	}

	return nil
}
