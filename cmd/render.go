package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/herobook/internal/errors"
	"github.com/conneroisu/herobook/internal/registry"
	"github.com/conneroisu/herobook/internal/renderer"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/ui"
)

var (
	renderOut  string
	renderBare bool
)

var renderCmd = &cobra.Command{
	Use:   "render [story]",
	Short: "Render a story to HTML",
	Long: `Render one story of the catalog as a standalone HTML page, or as the
bare Hero markup with --bare. Without a story name, an interactive terminal
offers a picker.

Examples:
  herobook render default                            # Page HTML on stdout
  herobook render with-20-languages --bare           # Only the Hero markup
  herobook render with-only-one-language -o one.html # Write to a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "write the HTML to a file instead of stdout")
	renderCmd.Flags().BoolVar(&renderBare, "bare", false, "render only the Hero markup, without the page layout")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fixtures, err := stories.LoadFixtures(cfg.Stories.Fixtures)
	if err != nil {
		return err
	}
	catalog := stories.Build(fixtures)

	slug, err := resolveStory(catalog, args)
	if err != nil {
		return err
	}

	// Story names are accepted too: "with +5 languages" finds with-5-languages.
	story, err := catalog.Lookup(stories.Slugify(slug))
	if err != nil {
		return errors.NewEnhancedError("Story not found", err,
			errors.StoryNotFoundError(slug, &errors.SuggestionContext{AvailableStories: catalog.Slugs()}))
	}

	r := renderer.NewStoryRenderer(registry.NewStoryRegistry(catalog), cfg.Hero.DisplayBudget)

	var out io.Writer = cmd.OutOrStdout()
	if renderOut != "" {
		f, err := os.Create(renderOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", renderOut, err)
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	if renderBare {
		err = r.RenderStory(cmd.Context(), bw, story.Slug)
	} else {
		err = r.RenderPage(cmd.Context(), bw, story.Slug)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", story.Slug, err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if renderOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s\n", story.Title, renderOut)
	}
	return nil
}

// resolveStory picks the story named on the command line, or asks for one
// when running in a terminal.
func resolveStory(catalog stories.Catalog, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	if !ui.IsTerminal(os.Stdin) || !ui.IsTerminal(os.Stdout) {
		return "", errors.NewEnhancedError("No story given", fmt.Errorf("render needs a story name"),
			errors.StoryNotFoundError("", &errors.SuggestionContext{AvailableStories: catalog.Slugs()}))
	}

	story, err := ui.PromptStory(catalog)
	if err != nil {
		return "", err
	}
	return story.Slug, nil
}
