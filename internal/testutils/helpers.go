// Package testutils holds helpers shared by the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/herobook/internal/config"
	"github.com/conneroisu/herobook/internal/registry"
	"github.com/conneroisu/herobook/internal/stories"
)

// SmallFixtures is a fixtures file with a three language pool.
const SmallFixtures = `
base:
  title: Testing Handbook
  description: A short guide.
  cta_href: /start
  image_path: /cover.svg
contributor_count: "3"
chapter_count: 4
languages:
  - {name: English, tutorial: /en/}
  - {name: Deutsch, tutorial: /de/}
  - {name: Français, tutorial: /fr/}
`

// CreateTestConfig returns the default configuration bound to an ephemeral
// loopback port with browser opening off.
func CreateTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.Open = false
	return cfg
}

// WriteFixtures writes content to a fixtures file in a fresh temp directory
func WriteFixtures(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// CreateTestRegistry creates a registry over the built-in fixtures
func CreateTestRegistry(t *testing.T) *registry.StoryRegistry {
	t.Helper()
	f, err := stories.DefaultFixtures()
	require.NoError(t, err)
	return registry.NewStoryRegistry(stories.Build(f))
}
