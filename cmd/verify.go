package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/herobook/internal/errors"
	"github.com/conneroisu/herobook/internal/inspect"
	"github.com/conneroisu/herobook/internal/registry"
	"github.com/conneroisu/herobook/internal/renderer"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [story...]",
	Short: "Check that every story renders its props faithfully",
	Long: `Render each story, read the markup back and compare it with the story's
props:

- title, description, call to action and image
- the first languages up to the display budget, then "+N more"
- the contributor and chapter badges, present only when set
- identical output across repeated renders

The command fails when any story has a violation.

Examples:
  herobook verify                                   # Every story
  herobook verify default with-only-one-language    # Only these stories
  herobook verify -f json                           # Machine-readable report`,
	RunE: runVerify,
}

var verifyFlags *StandardFlags

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyFlags = AddStandardFlags(verifyCmd, "output")

	AddFlagValidation(verifyCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, outputFormats)
	})
}

// storyReport is the verification outcome of one story
type storyReport struct {
	Slug          string              `json:"slug" yaml:"slug"`
	Title         string              `json:"title" yaml:"title"`
	Deterministic bool                `json:"deterministic" yaml:"deterministic"`
	Violations    []inspect.Violation `json:"violations" yaml:"violations,omitempty"`
}

func (r storyReport) Passed() bool {
	return r.Deterministic && len(r.Violations) == 0
}

func runVerify(cmd *cobra.Command, args []string) error {
	if err := verifyFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fixtures, err := stories.LoadFixtures(cfg.Stories.Fixtures)
	if err != nil {
		return err
	}
	catalog := stories.Build(fixtures)

	selected := catalog.Stories
	if len(args) > 0 {
		selected = make([]stories.Story, 0, len(args))
		for _, arg := range args {
			story, err := catalog.Lookup(stories.Slugify(arg))
			if err != nil {
				return errors.NewEnhancedError("Story not found", err,
					errors.StoryNotFoundError(arg, &errors.SuggestionContext{AvailableStories: catalog.Slugs()}))
			}
			selected = append(selected, story)
		}
	}

	r := renderer.NewStoryRenderer(registry.NewStoryRegistry(catalog), cfg.Hero.DisplayBudget)

	reports := make([]storyReport, 0, len(selected))
	for _, story := range selected {
		report, err := verifyStory(cmd, r, story, cfg.Hero.DisplayBudget)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(verifyFlags.Format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(reports)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		err = encoder.Encode(reports)
		if cerr := encoder.Close(); err == nil {
			err = cerr
		}
	default:
		outputVerifyReport(out, reports)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, report := range reports {
		if !report.Passed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d stories failed verification", failed, len(reports))
	}
	return nil
}

func verifyStory(cmd *cobra.Command, r *renderer.StoryRenderer, story stories.Story, budget int) (storyReport, error) {
	first, err := r.RenderStoryString(cmd.Context(), story.Slug)
	if err != nil {
		return storyReport{}, fmt.Errorf("rendering %s: %w", story.Slug, err)
	}
	second, err := r.RenderStoryString(cmd.Context(), story.Slug)
	if err != nil {
		return storyReport{}, fmt.Errorf("rendering %s: %w", story.Slug, err)
	}

	summary, err := inspect.ParseString(first)
	if err != nil {
		return storyReport{}, fmt.Errorf("parsing %s: %w", story.Slug, err)
	}

	return storyReport{
		Slug:          story.Slug,
		Title:         story.Title,
		Deterministic: first == second,
		Violations:    inspect.Check(story.Props, summary, budget),
	}, nil
}

func outputVerifyReport(w io.Writer, reports []storyReport) {
	fmt.Fprintln(w, ui.HeadingStyle.Render(stories.Group))

	passed := 0
	for _, report := range reports {
		if report.Passed() {
			passed++
			fmt.Fprintln(w, ui.Pass(report.Slug))
			continue
		}

		fmt.Fprintln(w, ui.Fail(report.Slug))
		if !report.Deterministic {
			fmt.Fprintln(w, ui.MutedStyle.Render("    determinism: output differs between renders"))
		}
		for _, v := range report.Violations {
			fmt.Fprintln(w, ui.MutedStyle.Render("    "+v.String()))
		}
	}

	fmt.Fprintln(w, ui.BoxStyle.Render(fmt.Sprintf("%d/%d stories passed", passed, len(reports))))
}
