package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "defaults",
			setup: func() {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPort, cfg.Server.Port)
				assert.Equal(t, DefaultHost, cfg.Server.Host)
				assert.True(t, cfg.Server.Open)
				assert.Equal(t, "development", cfg.Server.Environment)
				assert.Empty(t, cfg.Stories.Fixtures)
				assert.True(t, cfg.Stories.Watch)
				assert.Equal(t, DefaultDisplayBudget, cfg.Hero.DisplayBudget)
				assert.Equal(t, DefaultSnapshotDir, cfg.Snapshot.OutputDir)
				assert.Equal(t, []int{375, 768, 1280}, cfg.Snapshot.Widths)
				assert.Equal(t, 800, cfg.Snapshot.Height)
				assert.Equal(t, DefaultSnapshotWait, cfg.Snapshot.Timeout)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, "text", cfg.Log.Format)
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "custom values",
			setup: func() {
				viper.Set("server.port", 3000)
				viper.Set("server.host", "0.0.0.0")
				viper.Set("stories.fixtures", "./stories/fixtures.yaml")
				viper.Set("stories.watch", false)
				viper.Set("hero.display_budget", 4)
				viper.Set("snapshot.widths", []int{320})
				viper.Set("snapshot.timeout", "5s")
				viper.Set("log.format", "json")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3000, cfg.Server.Port)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, "./stories/fixtures.yaml", cfg.Stories.Fixtures)
				assert.False(t, cfg.Stories.Watch)
				assert.Equal(t, 4, cfg.Hero.DisplayBudget)
				assert.Equal(t, []int{320}, cfg.Snapshot.Widths)
				assert.Equal(t, 5*time.Second, cfg.Snapshot.Timeout)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
		{
			name: "port zero is allowed",
			setup: func() {
				viper.Set("server.port", 0)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.Server.Port)
			},
		},
		{
			name: "no-open flag override",
			setup: func() {
				viper.Set("server.open", true)
				viper.Set("server.no-open", true)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Server.Open)
			},
		},
		{
			name: "log level override",
			setup: func() {
				viper.Set("log.level", "debug")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Log.Level)
			},
		},
		{
			name: "invalid port type",
			setup: func() {
				viper.Set("server.port", "invalid_port")
			},
			expectError: true,
		},
		{
			name: "port out of range",
			setup: func() {
				viper.Set("server.port", 70000)
			},
			expectError: true,
		},
		{
			name: "zero display budget",
			setup: func() {
				viper.Set("hero.display_budget", 0)
			},
			expectError: true,
		},
		{
			name: "fixtures path traversal",
			setup: func() {
				viper.Set("stories.fixtures", "../../etc/passwd")
			},
			expectError: true,
		},
		{
			name: "negative snapshot width",
			setup: func() {
				viper.Set("snapshot.widths", []int{375, -1})
			},
			expectError: true,
		},
		{
			name: "unknown log level",
			setup: func() {
				viper.Set("log.level", "verbose")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			tt.setup()

			cfg, err := Load()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFlagsOverrideConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(strings.NewReader("log:\n  level: info\nhero:\n  display_budget: 3\n")))

	flags := pflag.NewFlagSet("herobook", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Int("display-budget", DefaultDisplayBudget, "")
	require.NoError(t, viper.BindPFlag("log.level", flags.Lookup("log-level")))
	require.NoError(t, viper.BindPFlag("hero.display_budget", flags.Lookup("display-budget")))

	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Flags left unset do not mask the file.
	assert.Equal(t, 3, cfg.Hero.DisplayBudget)
}

func TestValidateServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr bool
	}{
		{"valid", ServerConfig{Port: 6006, Host: "localhost", Environment: "development"}, false},
		{"production", ServerConfig{Port: 80, Host: "0.0.0.0", Environment: "production"}, false},
		{"negative port", ServerConfig{Port: -1, Environment: "development"}, true},
		{"command injection in host", ServerConfig{Port: 6006, Host: "localhost; rm -rf /", Environment: "development"}, true},
		{"unknown environment", ServerConfig{Port: 6006, Host: "localhost", Environment: "staging"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateServerConfig(&tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
