package vizzubuilder

import (
	"errors"
	"fmt"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/story"
)

// ErrUnknownKey indicates the selected roles do not form a preset key.
var ErrUnknownKey = errors.New("please select at least one category and one value")

// ErrInvalidSelection indicates a role was assigned a column it cannot hold.
var ErrInvalidSelection = errors.New("invalid selection")

// ErrNoDataset indicates an operation that needs data ran before a dataset was loaded.
var ErrNoDataset = errors.New("no dataset loaded")

// ErrNoChart indicates a chart index outside the current chart list.
var ErrNoChart = errors.New("no such chart")

// ShareError reports a failed story upload.
type ShareError = story.ShareError

// StartupError represents a fatal error while preparing a session.
type StartupError struct {
	Component string // "options", "presets", "dataset"
	Err       error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup error (%s): %v", e.Component, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// NewStartupError creates a new StartupError.
func NewStartupError(component string, err error) *StartupError {
	return &StartupError{
		Component: component,
		Err:       err,
	}
}
