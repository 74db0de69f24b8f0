package chapterdeck

import (
	"errors"
	"fmt"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/metrics"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// ErrNoLeader indicates that no chapter leader was given.
var ErrNoLeader = errors.New("chapter leader is required")

// ErrUnsupportedFormat indicates the template is not a pptx presentation.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Errors surfaced from the loading and metrics layers.
var (
	ErrFileNotFound  = source.ErrFileNotFound
	ErrSheetNotFound = source.ErrSheetNotFound
	ErrNoData        = metrics.ErrNoData
	ErrMissingColumn = metrics.ErrMissingColumn
)

// SectionError represents a failure while building one section of the deck.
type SectionError struct {
	Section   Section
	Component string // "load", "metrics", "chart"
	Err       error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %s (%s): %v", e.Section, e.Component, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// NewSectionError creates a new SectionError.
func NewSectionError(section Section, component string, err error) *SectionError {
	return &SectionError{
		Section:   section,
		Component: component,
		Err:       err,
	}
}
