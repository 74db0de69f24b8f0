package deck

import (
	"errors"
	"io"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

var (
	// ErrNotPresentation is returned when a template is not a pptx package.
	ErrNotPresentation = errors.New("not a pptx presentation")

	// ErrNoSlide is returned when a slide index is out of range.
	ErrNoSlide = errors.New("slide does not exist")
)

// Canvas is a presentation figures can be placed on.
type Canvas interface {
	// SlideSize returns the slide width and height in EMU.
	SlideSize() (w, h int64)
	// SlideCount returns the number of slides.
	SlideCount() int
	// AddPicture places fig on slide (0-based) inside r.
	AddPicture(slide int, fig models.Figure, r Rect) error
	// AppendSlideLike appends a slide sharing the layout and title of base
	// and returns its index.
	AppendSlideLike(base int) (int, error)
	// Save writes the presentation as pptx.
	Save(w io.Writer) error
}
