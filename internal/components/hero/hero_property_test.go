//go:build property

package hero_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/herobook/internal/components/hero"
	"github.com/conneroisu/herobook/internal/inspect"
	"github.com/conneroisu/herobook/internal/types"
)

func TestHeroProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("render matches props for any list length and budget", prop.ForAll(
		func(length, budget int, contributors string, chapters int, withCounts bool) bool {
			props := types.HeroProps{
				Title:      "Guide",
				CTAHref:    "/get-started",
				ImagePath:  "/cover.svg",
				ThemeColor: "#000",
				Languages:  makeLanguages(length),
			}
			if withCounts {
				props = props.WithContributorCount(contributors).WithChapterCount(chapters)
			}

			var b strings.Builder
			if err := hero.Hero(props, hero.WithDisplayBudget(budget)).Render(context.Background(), &b); err != nil {
				return false
			}
			s, err := inspect.ParseString(b.String())
			if err != nil {
				return false
			}
			return len(inspect.Check(props, s, budget)) == 0
		},
		gen.IntRange(0, 40),
		gen.IntRange(1, 12),
		gen.AlphaString(),
		gen.IntRange(0, 500),
		gen.Bool(),
	))

	properties.Property("partition keeps every language accounted for", prop.ForAll(
		func(length, budget int) bool {
			shown, hidden := hero.Partition(makeLanguages(length), budget)
			return len(shown)+hidden == length && (hidden == 0 || len(shown) == budget)
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 20),
	))

	properties.Property("rendering is idempotent", prop.ForAll(
		func(length int) bool {
			props := types.HeroProps{Title: "Guide", Languages: makeLanguages(length)}
			var a, b strings.Builder
			_ = hero.Hero(props).Render(context.Background(), &a)
			_ = hero.Hero(props).Render(context.Background(), &b)
			return a.String() == b.String()
		},
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

func makeLanguages(n int) []types.LanguageEntry {
	out := make([]types.LanguageEntry, n)
	for i := range out {
		out[i] = types.LanguageEntry{
			Name:     fmt.Sprintf("Language %d", i),
			Tutorial: fmt.Sprintf("/guide/%d/", i),
		}
	}
	return out
}
