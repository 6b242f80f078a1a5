// Package errors turns failures users can fix themselves into messages that
// say how: an EnhancedError carries the original error plus numbered
// suggestions with commands and examples.
package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext provides context for generating suggestions
type SuggestionContext struct {
	// AvailableStories lists known story slugs, if any are loaded
	AvailableStories []string
	ConfigPath       string
	FixturesPath     string
}

// StoryNotFoundError generates suggestions for an unknown story slug
func StoryNotFoundError(slug string, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "List the available stories",
			Description: "Story slugs are the story names in lower case with dashes",
			Command:     "herobook list",
			Example:     "with +5 languages -> with-5-languages",
		},
	}

	if ctx == nil || len(ctx.AvailableStories) == 0 {
		return suggestions
	}

	var similar []string
	needle := strings.ToLower(slug)
	for _, s := range ctx.AvailableStories {
		if needle != "" && (strings.Contains(s, needle) || strings.Contains(needle, s)) {
			similar = append(similar, s)
		}
	}

	if len(similar) > 0 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Did you mean",
			Description: strings.Join(similar, ", "),
			Command:     "herobook render " + similar[0],
		})
	} else {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Available stories",
			Description: strings.Join(ctx.AvailableStories, ", "),
		})
	}

	return suggestions
}

// ServerStartError generates suggestions for a server that failed to bind
func ServerStartError(err error, port int, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{}

	errStr := err.Error()

	if strings.Contains(errStr, "address already in use") || strings.Contains(errStr, "bind") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Port already in use",
			Description: fmt.Sprintf("Port %d is already being used by another process", port),
			Command:     fmt.Sprintf("lsof -i :%d", port),
		})

		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use a different port",
			Description: "Start the server on a different port",
			Command:     fmt.Sprintf("herobook serve --port %d", port+1),
		})
	}

	if strings.Contains(errStr, "permission denied") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Permission denied",
			Description: "You don't have permission to bind to this port",
		})

		if port < 1024 {
			suggestions = append(suggestions, ErrorSuggestion{
				Title:       "Use unprivileged port",
				Description: "Ports below 1024 require root privileges",
				Command:     "herobook serve --port 6006",
			})
		}
	}

	return suggestions
}

// ConfigurationError generates suggestions for configuration issues
func ConfigurationError(configError string, configPath string, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "Check configuration file",
			Description: "Verify your .herobook.yml file exists and has valid syntax",
			Command:     "cat " + configPath,
		},
	}

	if strings.Contains(configError, "yaml") || strings.Contains(configError, "unmarshal") || strings.Contains(configError, "decoding") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "There's a syntax error in your YAML configuration",
			Example:     "Use proper indentation and avoid tabs",
		})
	}

	if strings.Contains(configError, "display_budget") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Set a positive display budget",
			Description: "At least one language must be shown before the remainder indicator",
			Example:     "hero:\n       display_budget: 2",
		})
	}

	if strings.Contains(configError, "fixtures") {
		path := "stories/fixtures.yaml"
		if ctx != nil && ctx.FixturesPath != "" {
			path = ctx.FixturesPath
		}
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check the fixtures file",
			Description: "Fixtures must be YAML with base, contributor_count, chapter_count and languages keys",
			Command:     "cat " + path,
		})
	}

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	title := e.Title
	if e.OriginalError != nil {
		title += ": " + e.OriginalError.Error()
	}
	return FormatSuggestions(title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
