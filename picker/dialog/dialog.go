// Package dialog implements picker.Selector with native file dialogs.
package dialog

import (
	"errors"
	"fmt"
	"splitter/picker"

	"github.com/sqweek/dialog"
)

// Selector opens a file-open dialog for the source and a directory chooser
// for the output. Both block until the user answers.
type Selector struct {
	extensions []string
}

// New creates a dialog Selector filtering on picker.VideoExtensions.
func New() *Selector {
	return &Selector{extensions: picker.VideoExtensions}
}

// ChooseSource asks for the video file to split.
func (s *Selector) ChooseSource() (string, error) {
	path, err := dialog.File().
		Title("Select Video File").
		Filter("Video files", s.extensions...).
		Filter("All files", "*").
		Load()
	if err == nil && path == "" {
		err = dialog.ErrCancelled
	}
	return path, translate(err, "source file")
}

// ChooseOutputDir asks for the directory segments are written to.
func (s *Selector) ChooseOutputDir() (string, error) {
	dir, err := dialog.Directory().
		Title("Select Output Directory").
		Browse()
	if err == nil && dir == "" {
		err = dialog.ErrCancelled
	}
	return dir, translate(err, "output directory")
}

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, dialog.ErrCancelled) {
		return fmt.Errorf("no %s selected: %w", what, picker.ErrCancelled)
	}
	return fmt.Errorf("%s dialog failed: %w", what, err)
}

var _ picker.Selector = (*Selector)(nil)
