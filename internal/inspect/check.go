package inspect

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/conneroisu/herobook/internal/components/hero"
	"github.com/conneroisu/herobook/internal/types"
)

// Violation is one observable difference between props and their render.
type Violation struct {
	Rule    string `json:"rule" yaml:"rule"`
	Message string `json:"message" yaml:"message"`
}

func (v Violation) String() string {
	return v.Rule + ": " + v.Message
}

// Check compares a rendered summary with the props and display budget it was
// rendered with. An empty result means the render is faithful.
func Check(props types.HeroProps, s *Summary, budget int) []Violation {
	var out []Violation
	fail := func(rule, format string, args ...interface{}) {
		out = append(out, Violation{Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	if !s.Found {
		fail("hero-root", "no hero root element in output")
		return out
	}
	if s.Title != props.Title {
		fail("title", "got %q, want %q", s.Title, props.Title)
	}
	if s.Description != props.Description {
		fail("description", "got %q, want %q", s.Description, props.Description)
	}
	if want := hero.SafeURL(props.CTAHref); s.CTAHref != want {
		fail("cta-href", "got %q, want %q", s.CTAHref, want)
	}
	if s.ImageSrc != props.ImagePath {
		fail("image", "got %q, want %q", s.ImageSrc, props.ImagePath)
	}

	checkLanguages(props.Languages, s, budget, fail)

	if want, ok := props.ContributorCount.Get(); ok {
		if got, present := s.ContributorCount.Get(); !present || got != want {
			fail("contributor-count", "got %s, want %q", s.ContributorCount, want)
		}
	} else if s.ContributorCount.IsSet() || s.ContributorBadge {
		fail("contributor-count", "badge rendered without a contributor count")
	}

	if want, ok := props.ChapterCount.Get(); ok {
		if got, present := s.ChapterCount.Get(); !present || got != strconv.Itoa(want) {
			fail("chapter-count", "got %s, want %d", s.ChapterCount, want)
		}
	} else if s.ChapterCount.IsSet() || s.ChapterBadge {
		fail("chapter-count", "badge rendered without a chapter count")
	}

	return out
}

func checkLanguages(languages []types.LanguageEntry, s *Summary, budget int, fail func(string, string, ...interface{})) {
	if len(languages) == 0 {
		if s.HasLanguages || len(s.Languages) > 0 || s.HasRemainder {
			fail("languages-empty", "language strip rendered for an empty list")
		}
		return
	}
	if !s.HasLanguages {
		fail("languages-missing", "no language strip for %d languages", len(languages))
		return
	}

	// A budget below one still shows one language.
	n := min(len(languages), max(budget, 1))
	hidden := len(languages) - n
	want := make([]string, n)
	for i, l := range languages[:n] {
		want[i] = l.Name
	}
	if !slices.Equal(s.Languages, want) {
		fail("languages-shown", "got %q, want %q", s.Languages, want)
	}

	switch {
	case hidden == 0 && s.HasRemainder:
		fail("languages-remainder", "remainder %q rendered with nothing hidden", s.RemainderText)
	case hidden > 0 && !s.HasRemainder:
		fail("languages-remainder", "no remainder for %d hidden languages", hidden)
	case hidden > 0 && s.Remainder != hidden:
		fail("languages-remainder", "got %q, want %d hidden", s.RemainderText, hidden)
	}
}
