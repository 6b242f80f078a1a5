package cmd

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/herobook/internal/inspect"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/testutils"
	"github.com/conneroisu/herobook/internal/ui"
)

// executeCommand runs the root command with args and returns its output.
// Flag values are reset afterwards since cobra keeps them between runs.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)

		listFlags.Format = "table"
		verifyFlags.Format = "table"
		renderOut = ""
		renderBare = false
		versionFormat = "text"
		versionShort = false
		versionDetailed = false
		_ = rootCmd.PersistentFlags().Set("fixtures", "")
		resetChanged(snapshotCmd, "out", "width", "browser")
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetChanged restores the named flags to their defaults and clears their
// Changed mark.
func resetChanged(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
}

func TestListCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := executeCommand(t, "list")
		require.NoError(t, err)

		assert.Contains(t, out, stories.Group)
		assert.Contains(t, out, "SLUG")
		for _, slug := range []string{"default", "with-contributor-count", "with-20-languages"} {
			assert.Contains(t, out, slug)
		}
		assert.Contains(t, out, "Total: 7 stories")
	})

	t.Run("json", func(t *testing.T) {
		out, err := executeCommand(t, "list", "--format", "json")
		require.NoError(t, err)

		var entries []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 7)

		assert.Equal(t, "default", entries[0]["slug"])
		assert.Nil(t, entries[0]["contributor_count"])
		assert.Equal(t, "34+", entries[1]["contributor_count"])
		assert.EqualValues(t, 9, entries[2]["chapter_count"])
		assert.EqualValues(t, 1, entries[3]["languages"])
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := executeCommand(t, "list", "-f", "yaml")
		require.NoError(t, err)

		var entries []map[string]interface{}
		require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 7)
		assert.Equal(t, "with-20-languages", entries[6]["slug"])
		assert.NotContains(t, entries[0], "contributor_count")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := executeCommand(t, "list", "--format", "jsn")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("custom fixtures", func(t *testing.T) {
		path := testutils.WriteFixtures(t, testutils.SmallFixtures)

		out, err := executeCommand(t, "list", "--fixtures", path, "-f", "json")
		require.NoError(t, err)

		var entries []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 7)
		// The pool only holds three languages.
		assert.EqualValues(t, 3, entries[0]["languages"])
		assert.EqualValues(t, 3, entries[6]["languages"])
		assert.Equal(t, "3", entries[1]["contributor_count"])
	})
}

func TestRenderCommand(t *testing.T) {
	t.Run("page", func(t *testing.T) {
		out, err := executeCommand(t, "render", "default")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out, "<!doctype html>"), "got %q", out[:min(len(out), 40)])
		assert.Contains(t, out, "<title>Default - herobook</title>")
		assert.Contains(t, out, `data-hero="root"`)
	})

	t.Run("bare", func(t *testing.T) {
		out, err := executeCommand(t, "render", "with-chapter-count", "--bare")
		require.NoError(t, err)

		assert.NotContains(t, out, "<html")
		summary, err := inspect.ParseString(out)
		require.NoError(t, err)
		assert.True(t, summary.Found)
		assert.Equal(t, []string{"English", "Español"}, summary.Languages)
		assert.Equal(t, 3, summary.Remainder)
		assert.Equal(t, "+3 more", summary.RemainderText)
	})

	t.Run("story name", func(t *testing.T) {
		out, err := executeCommand(t, "render", "with +5 languages", "--bare")
		require.NoError(t, err)
		assert.Contains(t, out, "+5 more")
	})

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hero.html")

		out, err := executeCommand(t, "render", "with-only-one-language", "--out", path)
		require.NoError(t, err)
		assert.Contains(t, out, path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `data-hero="root"`)
	})

	t.Run("unknown story", func(t *testing.T) {
		_, err := executeCommand(t, "render", "nope")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, stories.ErrStoryNotFound))
		assert.Contains(t, err.Error(), "herobook list")
	})

	t.Run("no story without a terminal", func(t *testing.T) {
		if ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout) {
			t.Skip("would prompt for a story")
		}
		_, err := executeCommand(t, "render")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "render needs a story name")
	})
}

func TestVerifyCommand(t *testing.T) {
	t.Run("all stories pass", func(t *testing.T) {
		out, err := executeCommand(t, "verify")
		require.NoError(t, err)

		for _, slug := range []string{"default", "with-only-one-language", "with-20-languages"} {
			assert.Contains(t, out, "✔ "+slug)
		}
		assert.Contains(t, out, "7/7 stories passed")
	})

	t.Run("selected stories as json", func(t *testing.T) {
		out, err := executeCommand(t, "verify", "default", "with +10 languages", "-f", "json")
		require.NoError(t, err)

		var reports []storyReport
		require.NoError(t, json.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 2)
		assert.Equal(t, "with-10-languages", reports[1].Slug)
		for _, r := range reports {
			assert.True(t, r.Passed(), "%s: %v", r.Slug, r.Violations)
		}
	})

	t.Run("custom budget", func(t *testing.T) {
		viper.Set("hero.display_budget", 4)
		t.Cleanup(func() { viper.Set("hero.display_budget", 2) })

		out, err := executeCommand(t, "verify", "-f", "yaml")
		require.NoError(t, err)
		assert.NotContains(t, out, "violations:")
	})

	t.Run("unknown story", func(t *testing.T) {
		_, err := executeCommand(t, "verify", "missing")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, stories.ErrStoryNotFound))
	})
}

func TestHelpExamplesNameRealStories(t *testing.T) {
	f, err := stories.DefaultFixtures()
	require.NoError(t, err)
	catalog := stories.Build(f)

	for _, cmd := range []*cobra.Command{renderCmd, verifyCmd} {
		prefix := "herobook " + cmd.Name()
		var named []string
		for _, line := range strings.Split(cmd.Long, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			example, _, _ := strings.Cut(line, "#")
			fields := strings.Fields(strings.TrimPrefix(example, prefix))
			for i := 0; i < len(fields); i++ {
				if strings.HasPrefix(fields[i], "-") {
					// Flags other than --bare take a value.
					if !strings.Contains(fields[i], "=") && fields[i] != "--bare" {
						i++
					}
					continue
				}
				named = append(named, fields[i])
			}
		}

		require.NotEmpty(t, named, cmd.Name())
		for _, slug := range named {
			_, err := catalog.Lookup(slug)
			assert.NoError(t, err, "%s example names %q", cmd.Name(), slug)
		}
	}

	out, err := executeCommand(t, "render", "with-20-languages", "--bare")
	require.NoError(t, err)
	assert.Contains(t, out, `data-hero="root"`)

	out, err = executeCommand(t, "verify", "default", "with-only-one-language")
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 stories passed")
}

func TestSnapshotRejectsBadOutputDir(t *testing.T) {
	for _, out := range []string{"", "../shots", "shots;rm"} {
		_, err := executeCommand(t, "snapshot", "--out", out)
		require.Error(t, err, "out=%q", out)
		assert.Contains(t, err.Error(), "invalid --out")
	}
}

func TestOutputVerifyReport(t *testing.T) {
	reports := []storyReport{
		{Slug: "default", Title: "Default", Deterministic: true},
		{
			Slug:          "broken",
			Title:         "Broken",
			Deterministic: false,
			Violations:    []inspect.Violation{{Rule: "title", Message: `got "", want "x"`}},
		},
	}

	assert.True(t, reports[0].Passed())
	assert.False(t, reports[1].Passed())

	var buf bytes.Buffer
	outputVerifyReport(&buf, reports)
	out := buf.String()

	assert.Contains(t, out, "✔ default")
	assert.Contains(t, out, "✘ broken")
	assert.Contains(t, out, "determinism: output differs between renders")
	assert.Contains(t, out, `title: got "", want "x"`)
	assert.Contains(t, out, "1/2 stories passed")
}

func TestVersionCommand(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := executeCommand(t, "version")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "herobook "))
		assert.Contains(t, out, "Platform: ")
	})

	t.Run("short", func(t *testing.T) {
		out, err := executeCommand(t, "version", "--short")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})

	t.Run("json", func(t *testing.T) {
		out, err := executeCommand(t, "version", "-f", "json")
		require.NoError(t, err)

		var info map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		assert.NotEmpty(t, info["version"])
		assert.NotEmpty(t, info["go_version"])
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := executeCommand(t, "version", "-f", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

func TestValidateFormatWithSuggestion(t *testing.T) {
	tests := []struct {
		format  string
		wantErr string
	}{
		{format: "table"},
		{format: "JSON"},
		{format: "yaml"},
		{format: "ya", wantErr: `did you mean "yaml"`},
		{format: "tab", wantErr: `did you mean "table"`},
		{format: "xml", wantErr: "valid: table, json, yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := ValidateFormatWithSuggestion(tt.format, outputFormats)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("0"))
	assert.NoError(t, ValidatePort("6006"))
	assert.NoError(t, ValidatePort("65535"))
	assert.Error(t, ValidatePort("-1"))
	assert.Error(t, ValidatePort("65536"))
	assert.Error(t, ValidatePort("http"))
}

func TestValidateFileExists(t *testing.T) {
	assert.NoError(t, ValidateFileExists(""))
	assert.NoError(t, ValidateFileExists(testutils.WriteFixtures(t, testutils.SmallFixtures)))
	assert.Error(t, ValidateFileExists(filepath.Join(t.TempDir(), "missing.yaml")))
}
