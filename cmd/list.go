package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List the Hero stories",
	Long: `List the stories of the catalog in order, with the number of languages
each one shows and its optional contributor and chapter counts.

Examples:
  herobook list               # Table
  herobook list -f json       # JSON
  herobook list --format yaml # YAML`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")

	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, outputFormats)
	})
}

// listEntry is one story as printed by list
type listEntry struct {
	Name             string                 `json:"name" yaml:"name"`
	Slug             string                 `json:"slug" yaml:"slug"`
	Title            string                 `json:"title" yaml:"title"`
	Languages        int                    `json:"languages" yaml:"languages"`
	ContributorCount types.Optional[string] `json:"contributor_count" yaml:"contributor_count,omitempty"`
	ChapterCount     types.Optional[int]    `json:"chapter_count" yaml:"chapter_count,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
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

	entries := make([]listEntry, 0, len(catalog.Stories))
	for _, s := range catalog.Stories {
		entries = append(entries, listEntry{
			Name:             s.Name,
			Slug:             s.Slug,
			Title:            s.Title,
			Languages:        len(s.Props.Languages),
			ContributorCount: s.Props.ContributorCount,
			ChapterCount:     s.Props.ChapterCount,
		})
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(listFlags.Format) {
	case "json":
		return outputListJSON(out, entries)
	case "yaml":
		return outputListYAML(out, entries)
	default:
		return outputListTable(out, catalog.Group, entries)
	}
}

func outputListJSON(w io.Writer, entries []listEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputListYAML(w io.Writer, entries []listEntry) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(entries)
}

func outputListTable(out io.Writer, group string, entries []listEntry) error {
	fmt.Fprintln(out, group)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tTITLE\tLANGUAGES\tCONTRIBUTORS\tCHAPTERS")
	fmt.Fprintln(w, "----\t-----\t---------\t------------\t--------")

	for _, e := range entries {
		chapters := "-"
		if n, ok := e.ChapterCount.Get(); ok {
			chapters = fmt.Sprint(n)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			e.Slug, e.Title, e.Languages, e.ContributorCount.OrElse("-"), chapters)
	}

	fmt.Fprintf(w, "\nTotal: %d stories\n", len(entries))
	return w.Flush()
}
