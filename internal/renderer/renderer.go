// Package renderer renders catalog stories to HTML, either as the bare Hero
// fragment or wrapped in a preview page with a live-reload script.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	"github.com/conneroisu/herobook/internal/components/hero"
	"github.com/conneroisu/herobook/internal/registry"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/validation"
)

// StoryRenderer handles rendering of catalog stories
type StoryRenderer struct {
	registry *registry.StoryRegistry
	budget   int
}

// NewStoryRenderer creates a renderer over the registry's current stories.
// budget is the Hero display budget.
func NewStoryRenderer(reg *registry.StoryRegistry, budget int) *StoryRenderer {
	return &StoryRenderer{registry: reg, budget: budget}
}

// Component resolves a slug to its story and Hero component
func (r *StoryRenderer) Component(slug string) (stories.Story, templ.Component, error) {
	if err := validation.ValidateStoryName(slug); err != nil {
		return stories.Story{}, nil, fmt.Errorf("invalid story name: %w", err)
	}

	story, err := r.registry.Lookup(slug)
	if err != nil {
		return stories.Story{}, nil, err
	}

	return story, hero.Hero(story.Props, hero.WithDisplayBudget(r.budget)), nil
}

// RenderStory writes the bare Hero fragment of a story
func (r *StoryRenderer) RenderStory(ctx context.Context, w io.Writer, slug string) error {
	_, component, err := r.Component(slug)
	if err != nil {
		return err
	}
	return component.Render(ctx, w)
}

// RenderStoryString is RenderStory into a string
func (r *StoryRenderer) RenderStoryString(ctx context.Context, slug string) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderStory(ctx, &buf, slug); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPage writes a full preview page for a story
func (r *StoryRenderer) RenderPage(ctx context.Context, w io.Writer, slug string) error {
	story, _, err := r.Component(slug)
	if err != nil {
		return err
	}

	page := layout(story.Title+" - herobook",
		h.Header(h.Class("herobook-bar"),
			h.A(h.Href("/"), g.Text(stories.Group)),
			g.Text(" / "),
			h.Strong(g.Text(story.Title)),
		),
		h.Main(h.Class("herobook-stage"),
			hero.Node(story.Props, hero.WithDisplayBudget(r.budget)),
		),
	)
	return page.Render(w)
}

// RenderIndex writes the catalog index page
func (r *StoryRenderer) RenderIndex(ctx context.Context, w io.Writer) error {
	catalog := r.registry.Catalog()

	page := layout("herobook",
		h.Header(h.Class("herobook-bar"), h.Strong(g.Text(catalog.Group))),
		h.Main(h.Class("herobook-index"),
			h.Ul(
				g.Map(catalog.Stories, func(s stories.Story) g.Node {
					return h.Li(
						h.A(h.Href("/render/"+s.Slug), g.Text(s.Title)),
						h.Span(h.Class("herobook-meta"),
							g.Textf(" %d languages", len(s.Props.Languages)),
						),
					)
				}),
			),
		),
	)
	return page.Render(w)
}

func layout(title string, body ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    title,
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.StyleEl(g.Raw(hero.Stylesheet + pageStylesheet)),
		},
		Body: append(body, h.Script(g.Raw(liveReloadScript))),
	})
}

const pageStylesheet = `
body { margin: 0; font-family: system-ui, sans-serif; background: #f7f7f9; color: #1d1d1f; }
.herobook-bar { padding: 0.75rem 1.5rem; background: #fff; border-bottom: 1px solid #e3e3e8; font-size: 0.875rem; }
.herobook-bar a { color: inherit; }
.herobook-stage { padding: 2rem; }
.herobook-index { padding: 1rem 1.5rem; }
.herobook-index li { margin: 0.5rem 0; }
.herobook-meta { color: #6e6e73; font-size: 0.8125rem; }
`

const liveReloadScript = `
(function () {
  var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var ws = new WebSocket(scheme + location.host + '/ws');
  ws.onmessage = function (event) {
    var message = JSON.parse(event.data);
    if (message.type === 'full_reload' || message.type === 'catalog_update') {
      window.location.reload();
    }
  };
})();
`
