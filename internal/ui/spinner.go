package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress for long-running commands. When the writer is not
// a terminal the spinner stays silent and only the final message is shown.
type Spinner struct {
	s *spinner.Spinner
	w io.Writer
}

// StartSpinner starts a spinner writing to w with the given message
func StartSpinner(w io.Writer, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	if message != "" {
		s.Suffix = " " + message
	}
	s.Start()
	return &Spinner{s: s, w: w}
}

// Update replaces the spinner message
func (sp *Spinner) Update(message string) {
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}

// Stop stops the spinner, leaving msg on its line if not empty
func (sp *Spinner) Stop(msg string) {
	if !sp.s.Active() {
		if msg != "" {
			fmt.Fprintln(sp.w, msg)
		}
		return
	}
	if msg != "" {
		sp.s.FinalMSG = msg + "\n"
	}
	sp.s.Stop()
}
