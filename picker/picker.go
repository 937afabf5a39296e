// Package picker resolves the source file and output directory for a run.
//
// A Selector either returns a path or ErrCancelled. The fixed selector serves
// non-interactive runs; picker/dialog provides native file dialogs.
package picker

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user dismisses a selection.
var ErrCancelled = errors.New("selection cancelled")

// Selector asks for the two paths a run needs.
type Selector interface {
	ChooseSource() (string, error)
	ChooseOutputDir() (string, error)
}

// VideoExtensions is the file filter offered for the source dialog.
var VideoExtensions = []string{"mp4", "mkv", "mov", "avi", "webm", "m4v"}

// Fixed returns preconfigured paths without asking anyone.
type Fixed struct {
	Source    string
	OutputDir string
}

// NewFixed creates a Fixed selector.
func NewFixed(source, outputDir string) *Fixed {
	return &Fixed{Source: source, OutputDir: outputDir}
}

// ChooseSource returns the configured source path.
func (f *Fixed) ChooseSource() (string, error) {
	if f.Source == "" {
		return "", fmt.Errorf("no source file configured")
	}
	return f.Source, nil
}

// ChooseOutputDir returns the configured output directory.
func (f *Fixed) ChooseOutputDir() (string, error) {
	if f.OutputDir == "" {
		return "", fmt.Errorf("no output directory configured")
	}
	return f.OutputDir, nil
}
