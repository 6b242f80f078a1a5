// Package inspect reads rendered Hero markup back into a summary and checks
// it against the props it was rendered from.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/herobook/internal/components/hero"
	"github.com/conneroisu/herobook/internal/types"
)

// Summary is what a reader of the rendered banner can observe.
type Summary struct {
	Found       bool
	Title       string
	Description string
	CTAHref     string
	ImageSrc    string

	HasLanguages  bool
	Languages     []string
	HasRemainder  bool
	Remainder     int
	RemainderText string

	ContributorCount types.Optional[string]
	ChapterCount     types.Optional[string]
	// Badge wrappers present without a count element.
	ContributorBadge bool
	ChapterBadge     bool
}

// ParseString parses a rendered document or fragment.
func ParseString(markup string) (*Summary, error) {
	return Parse(strings.NewReader(markup))
}

// Parse walks the HTML and collects every data-hero marker.
func Parse(r io.Reader) (*Summary, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	s := &Summary{}
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			s.visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return s, nil
}

func (s *Summary) visit(n *html.Node) {
	switch attr(n, hero.MarkerAttr) {
	case hero.MarkerRoot:
		s.Found = true
	case hero.MarkerTitle:
		s.Title = text(n)
	case hero.MarkerDescription:
		s.Description = text(n)
	case hero.MarkerCTA:
		s.CTAHref = attr(n, "href")
	case hero.MarkerImage:
		s.ImageSrc = attr(n, "src")
	case hero.MarkerContributors:
		s.ContributorBadge = true
	case hero.MarkerContributorCount:
		s.ContributorCount = types.Some(text(n))
	case hero.MarkerChapters:
		s.ChapterBadge = true
	case hero.MarkerChapterCount:
		s.ChapterCount = types.Some(text(n))
	case hero.MarkerLanguages:
		s.HasLanguages = true
	case hero.MarkerLanguage:
		s.Languages = append(s.Languages, text(n))
	case hero.MarkerRemainder:
		s.HasRemainder = true
		s.RemainderText = text(n)
		if _, err := fmt.Sscanf(s.RemainderText, "+%d", &s.Remainder); err != nil {
			s.Remainder = -1
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
