package hero

import (
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/conneroisu/herobook/internal/types"
)

// DefaultDisplayBudget is the number of languages shown before the rest
// collapse into the remainder indicator. With it the catalog's "+5", "+10"
// and "+20" stories show exactly that many hidden languages.
const DefaultDisplayBudget = 2

func clampBudget(budget int) int {
	if budget < 1 {
		return 1
	}
	return budget
}

// Partition splits languages into the entries that are displayed and the
// count of entries hidden behind the remainder indicator. Order is kept.
func Partition(languages []types.LanguageEntry, budget int) ([]types.LanguageEntry, int) {
	budget = clampBudget(budget)
	if len(languages) <= budget {
		return languages, 0
	}
	return languages[:budget], len(languages) - budget
}

// RemainderLabel is the text of the remainder indicator.
func RemainderLabel(hidden int) string {
	return "+" + strconv.Itoa(hidden) + " more"
}

func languageStrip(languages []types.LanguageEntry, budget int) g.Node {
	if len(languages) == 0 {
		return nil
	}

	shown, hidden := Partition(languages, budget)

	return h.Nav(
		marker(MarkerLanguages),
		h.Class("hero-languages"),
		h.Aria("label", "Available languages"),
		h.Ul(
			g.Map(shown, func(l types.LanguageEntry) g.Node {
				return h.Li(
					h.A(marker(MarkerLanguage), h.Href(SafeURL(l.Tutorial)), g.Text(l.Name)),
				)
			}),
			g.If(hidden > 0, h.Li(
				h.Span(
					marker(MarkerRemainder),
					h.Class("hero-remainder"),
					g.Attr("title", strconv.Itoa(hidden)+" more languages"),
					g.Text(RemainderLabel(hidden)),
				),
			)),
		),
	)
}
