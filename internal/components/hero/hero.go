// Package hero implements the GuideScreen Hero banner: the title,
// description and call to action of a guide, an illustration, optional
// contributor and chapter badges, and an overflow-aware language strip.
//
// The component is a pure function of its props. It keeps no state, has no
// side effects and never fails on odd input: empty strings render as empty
// text and absent optional props simply omit their part of the banner.
package hero

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/conneroisu/herobook/internal/types"
)

// Marker values of the data-hero attribute.
const (
	MarkerRoot             = "root"
	MarkerTitle            = "title"
	MarkerDescription      = "description"
	MarkerCTA              = "cta"
	MarkerImage            = "image"
	MarkerContributors     = "contributors"
	MarkerContributorCount = "contributor-count"
	MarkerChapters         = "chapters"
	MarkerChapterCount     = "chapter-count"
	MarkerLanguages        = "languages"
	MarkerLanguage         = "language"
	MarkerRemainder        = "remainder"
)

// MarkerAttr is the attribute carrying the markers above.
const MarkerAttr = "data-hero"

// DefaultCTALabel is the text of the call-to-action link.
const DefaultCTALabel = "Get started"

type renderOptions struct {
	budget   int
	ctaLabel string
}

// Option customises a single render.
type Option func(*renderOptions)

// WithDisplayBudget sets how many languages are shown before the remainder
// indicator. Values below 1 are clamped to 1.
func WithDisplayBudget(budget int) Option {
	return func(o *renderOptions) {
		o.budget = clampBudget(budget)
	}
}

// WithCTALabel replaces the call-to-action text.
func WithCTALabel(label string) Option {
	return func(o *renderOptions) {
		o.ctaLabel = label
	}
}

func newRenderOptions(opts []Option) renderOptions {
	o := renderOptions{budget: DefaultDisplayBudget, ctaLabel: DefaultCTALabel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Hero renders props as a templ component.
func Hero(props types.HeroProps, opts ...Option) templ.Component {
	node := Node(props, opts...)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return node.Render(w)
	})
}

// Node builds the Hero render tree. Hero wraps it for templ callers; page
// layouts built with gomponents embed it directly.
func Node(props types.HeroProps, opts ...Option) g.Node {
	o := newRenderOptions(opts)

	return h.Section(
		marker(MarkerRoot),
		h.Class("hero"),
		g.Attr("style", "--hero-theme: "+props.ThemeColor),
		h.Div(
			h.Class("hero-copy"),
			h.H1(marker(MarkerTitle), h.Class("hero-title"), g.Text(props.Title)),
			h.P(marker(MarkerDescription), h.Class("hero-description"), g.Text(props.Description)),
			h.A(
				marker(MarkerCTA),
				h.Class("hero-cta"),
				h.Href(SafeURL(props.CTAHref)),
				g.Attr("style", "background-color: "+props.ThemeColor),
				g.Text(o.ctaLabel),
			),
			meta(props, o),
		),
		h.Div(
			h.Class("hero-media"),
			h.Img(
				marker(MarkerImage),
				h.Class("hero-image"),
				h.Src(props.ImagePath),
				h.Alt(props.Title),
			),
		),
	)
}

func meta(props types.HeroProps, o renderOptions) g.Node {
	contributors, hasContributors := props.ContributorCount.Get()
	chapters, hasChapters := props.ChapterCount.Get()
	if !hasContributors && !hasChapters && len(props.Languages) == 0 {
		return nil
	}

	return h.Div(
		h.Class("hero-meta"),
		g.If(hasContributors, badge(MarkerContributors, MarkerContributorCount, contributors, "contributors")),
		g.If(hasChapters, badge(MarkerChapters, MarkerChapterCount, strconv.Itoa(chapters), chapterNoun(chapters))),
		languageStrip(props.Languages, o.budget),
	)
}

func badge(wrapper, count, value, label string) g.Node {
	return h.Span(
		marker(wrapper),
		h.Class("hero-badge"),
		h.Strong(marker(count), g.Text(value)),
		g.Text(" "+label),
	)
}

func chapterNoun(n int) string {
	if n == 1 {
		return "chapter"
	}
	return "chapters"
}

func marker(name string) g.Node {
	return g.Attr(MarkerAttr, name)
}

// SafeURL drops script URLs the same way generated templ code does.
func SafeURL(u string) string {
	return string(templ.URL(u))
}
