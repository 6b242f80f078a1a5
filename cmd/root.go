// Package cmd provides the herobook command-line interface.
//
// Configuration comes from several sources, highest priority first:
//
//  1. Command-line flags (--config, --port, --fixtures, ...)
//  2. HEROBOOK_CONFIG_FILE: path to a configuration file
//  3. HEROBOOK_<SECTION>_<OPTION> environment variables, e.g. HEROBOOK_SERVER_PORT
//  4. .herobook.yml in the current directory
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/herobook/internal/config"
	"github.com/conneroisu/herobook/internal/errors"
	"github.com/conneroisu/herobook/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "herobook",
	Short: "Preview and verify the GuideScreen Hero stories",
	Long: `herobook renders the GuideScreen Hero banner in each of its catalog
stories so it can be reviewed, checked and snapshotted in isolation.

Quick Start:
  herobook serve                  Start the live preview server
  herobook list                   List the stories
  herobook render default         Print a story's HTML
  herobook verify                 Check every story renders correctly
  herobook snapshot               Capture screenshots of every story

Command Aliases:
  serve (s), list (l)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .herobook.yml, can also use HEROBOOK_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("fixtures", "", "story fixtures YAML file (default: built-in fixtures)")
	rootCmd.PersistentFlags().Int("display-budget", config.DefaultDisplayBudget, "languages shown before the remainder indicator")

	AddFlagValidation(rootCmd, "fixtures", ValidateFileExists)

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("stories.fixtures", rootCmd.PersistentFlags().Lookup("fixtures"))
	viper.BindPFlag("hero.display_budget", rootCmd.PersistentFlags().Lookup("display-budget"))
}

// initConfig points viper at the configuration file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("HEROBOOK_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".herobook")
	}

	viper.SetEnvPrefix("HEROBOOK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// A missing or unreadable file falls back to defaults.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration, turning failures into errors that
// tell the user where to look.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = ".herobook.yml"
		}
		ctx := &errors.SuggestionContext{
			ConfigPath:   path,
			FixturesPath: viper.GetString("stories.fixtures"),
		}
		return nil, errors.NewEnhancedError(
			"Failed to load configuration",
			err,
			errors.ConfigurationError(err.Error(), path, ctx),
		)
	}
	return cfg, nil
}

// newLogger builds the command's logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.Log.Format
	lc.Output = w
	return logging.NewLogger(lc), nil
}
