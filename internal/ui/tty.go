// Package ui holds the terminal pieces of the CLI: prompts, spinners and
// report styles.
package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SupportsANSICodes reports whether stdout understands colour escapes
func SupportsANSICodes() bool {
	return IsTerminal(os.Stdout)
}
