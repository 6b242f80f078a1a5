// Package validation checks untrusted input before it reaches the file
// system, the browser or a story lookup.
package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// shellChars could change the meaning of a command line the value ends up in.
var shellChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}

// ValidatePath rejects empty paths, traversal and shell metacharacters
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	for _, char := range shellChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// ValidateURL validates URLs for browser auto-open. Only plain http and
// https URLs with a host pass.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	for _, char := range append(shellChars, "\\", "\n", "\r", " ") {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ValidateStoryName rejects anything that is not a plain slug
func ValidateStoryName(name string) error {
	cleanName := filepath.Clean(name)

	if name == "" || cleanName == "." {
		return fmt.Errorf("empty or invalid story name: %q", name)
	}

	if strings.Contains(cleanName, "..") {
		return fmt.Errorf("path traversal attempt detected: %s", name)
	}

	if filepath.IsAbs(cleanName) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("path separators not allowed in story name: %s", name)
	}

	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return fmt.Errorf("invalid character %q in story name: %s", r, name)
		}
	}

	return nil
}
