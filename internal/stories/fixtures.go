package stories

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/herobook/internal/types"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the data every story is built from.
type Fixtures struct {
	// Base holds the props shared by all stories. Its optional counts and
	// languages are ignored; each story sets its own.
	Base             types.HeroProps       `yaml:"base"`
	ContributorCount string                `yaml:"contributor_count"`
	ChapterCount     int                   `yaml:"chapter_count"`
	Languages        []types.LanguageEntry `yaml:"languages"`
}

// DefaultFixtures returns the fixtures compiled into the binary.
func DefaultFixtures() (Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads fixtures from a YAML file. An empty path yields the
// default fixtures.
func LoadFixtures(path string) (Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("reading fixtures %s: %w", path, err)
	}

	f, err := ParseFixtures(data)
	if err != nil {
		return Fixtures{}, fmt.Errorf("fixtures %s: %w", path, err)
	}
	return f, nil
}

// ParseFixtures decodes YAML fixtures. Unknown keys are rejected so typos
// surface instead of silently producing a bare story.
func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("decoding fixtures: %w", err)
	}

	for i, l := range f.Languages {
		if l.Name == "" {
			return Fixtures{}, fmt.Errorf("language %d has no name", i)
		}
	}
	return f, nil
}
