package ui

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/conneroisu/herobook/internal/stories"
)

// PromptStory asks the user to pick a story from the catalog
func PromptStory(catalog stories.Catalog) (stories.Story, error) {
	if len(catalog.Stories) == 0 {
		return stories.Story{}, fmt.Errorf("no stories to choose from")
	}

	prompt := promptui.Select{
		Label: "Select Story",
		Items: catalog.Stories,
		Size:  len(catalog.Stories),
		Templates: &promptui.SelectTemplates{
			Active:   `▸ {{ .Title | underline }} {{ .Slug | faint }}`,
			Inactive: `  {{ .Title }} {{ .Slug | faint }}`,
			Selected: `{{ "✔" | green }} Story: {{ .Title | magenta | bold }}`,
		},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return stories.Story{}, err
	}
	return catalog.Stories[i], nil
}
