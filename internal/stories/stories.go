// Package stories is the Hero story catalog: a fixed, ordered list of named
// prop sets, each rendered on its own for visual review.
//
// The catalog is built explicitly from Fixtures by Build. Nothing registers
// itself at load time.
package stories

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/herobook/internal/types"
)

// Group is the catalog path the Hero stories are filed under.
const Group = "Screens|GuideScreen/Hero"

// ErrStoryNotFound is returned by Lookup for an unknown slug.
var ErrStoryNotFound = errors.New("story not found")

// Story is one named scenario.
type Story struct {
	Name  string          `json:"name" yaml:"name"`
	Slug  string          `json:"slug" yaml:"slug"`
	Title string          `json:"title" yaml:"title"`
	Props types.HeroProps `json:"props" yaml:"props"`
}

// Catalog is the ordered list of stories of one component.
type Catalog struct {
	Group   string  `json:"group" yaml:"group"`
	Stories []Story `json:"stories" yaml:"stories"`
}

// scenario describes a story relative to the fixtures. languages < 0 means
// the whole pool.
type scenario struct {
	name         string
	languages    int
	contributors bool
	chapters     bool
}

var scenarios = []scenario{
	{name: "default", languages: 5},
	{name: "with contributor count", languages: 5, contributors: true},
	{name: "with chapter count", languages: 5, contributors: true, chapters: true},
	{name: "with only one language", languages: 1, contributors: true, chapters: true},
	{name: "with +5 languages", languages: 7, contributors: true, chapters: true},
	{name: "with +10 languages", languages: 12, contributors: true, chapters: true},
	{name: "with +20 languages", languages: -1, contributors: true, chapters: true},
}

// Build assembles the catalog from fixtures. A scenario asking for more
// languages than the pool holds takes the whole pool.
func Build(f Fixtures) Catalog {
	base := f.Base
	base.ContributorCount = types.None[string]()
	base.ChapterCount = types.None[int]()

	catalog := Catalog{Group: Group, Stories: make([]Story, 0, len(scenarios))}
	for _, sc := range scenarios {
		n := sc.languages
		if n < 0 || n > len(f.Languages) {
			n = len(f.Languages)
		}

		props := base.WithLanguages(f.Languages[:n])
		if sc.contributors {
			props = props.WithContributorCount(f.ContributorCount)
		}
		if sc.chapters {
			props = props.WithChapterCount(f.ChapterCount)
		}

		catalog.Stories = append(catalog.Stories, Story{
			Name:  sc.name,
			Slug:  Slugify(sc.name),
			Title: TitleFor(sc.name),
			Props: props,
		})
	}
	return catalog
}

// Lookup returns the story with the given slug.
func (c Catalog) Lookup(slug string) (Story, error) {
	for _, s := range c.Stories {
		if s.Slug == slug {
			return s, nil
		}
	}
	return Story{}, fmt.Errorf("%w: %s", ErrStoryNotFound, slug)
}

// Slugs lists story slugs in catalog order.
func (c Catalog) Slugs() []string {
	slugs := make([]string, len(c.Stories))
	for i, s := range c.Stories {
		slugs[i] = s.Slug
	}
	return slugs
}

// Slugify turns a story name into its URL form: "with +5 languages"
// becomes "with-5-languages".
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// TitleFor is the display title of a story name.
func TitleFor(name string) string {
	return cases.Title(language.English).String(name)
}
