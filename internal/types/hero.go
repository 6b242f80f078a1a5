// Package types provides the value model shared by the Hero component, the
// story catalog and the preview tooling. Values are built by the caller,
// passed by value and never mutated by the packages that receive them.
package types

// LanguageEntry is one available translation of the guide.
type LanguageEntry struct {
	// Name is the display label (e.g. "Español")
	Name string `yaml:"name" json:"name"`
	// Tutorial is the relative URL of the translated guide
	Tutorial string `yaml:"tutorial" json:"tutorial"`
}

// HeroProps is the complete input of a single Hero render.
type HeroProps struct {
	Title            string           `yaml:"title" json:"title"`
	Description      string           `yaml:"description" json:"description"`
	CTAHref          string           `yaml:"cta_href" json:"cta_href"`
	ImagePath        string           `yaml:"image_path" json:"image_path"`
	ThemeColor       string           `yaml:"theme_color" json:"theme_color"`
	ContributorCount Optional[string] `yaml:"contributor_count,omitempty" json:"contributor_count"`
	ChapterCount     Optional[int]    `yaml:"chapter_count,omitempty" json:"chapter_count"`
	// Languages is in display order.
	Languages []LanguageEntry `yaml:"languages" json:"languages"`
}

// WithContributorCount returns a copy of p with the contributor count set.
func (p HeroProps) WithContributorCount(count string) HeroProps {
	p.ContributorCount = Some(count)
	return p
}

// WithChapterCount returns a copy of p with the chapter count set.
func (p HeroProps) WithChapterCount(count int) HeroProps {
	p.ChapterCount = Some(count)
	return p
}

// WithLanguages returns a copy of p using a copy of languages.
func (p HeroProps) WithLanguages(languages []LanguageEntry) HeroProps {
	p.Languages = append([]LanguageEntry(nil), languages...)
	return p
}
