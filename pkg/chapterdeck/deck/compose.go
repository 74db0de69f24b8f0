package deck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// Sections holds the figures of each deck section.
type Sections struct {
	Maturity   []models.Figure
	Dedication []models.Figure
	// DevTime needs both the tribu and the squad figure.
	DevTime []models.Figure
	Quality []models.Figure
}

// All returns every figure in slide order.
func (s Sections) All() []models.Figure {
	var out []models.Figure
	for _, figs := range [][]models.Figure{s.Maturity, s.Dedication, s.DevTime, s.Quality} {
		out = append(out, figs...)
	}
	return out
}

// Slots are the 0-based slides each section is drawn on.
type Slots struct {
	Maturity, Dedication, DevTime, Quality int
}

// TemplateSlots are the section slides of the chapter review template:
// slides 3 to 6.
var TemplateSlots = Slots{Maturity: 2, Dedication: 3, DevTime: 4, Quality: 5}

// BlankSlots follow the title slide of a blank deck.
var BlankSlots = Slots{Maturity: 1, Dedication: 2, DevTime: 3, Quality: 4}

// BlankHeadings title the section slides of a blank deck, in BlankSlots order.
var BlankHeadings = []string{
	"Niveles de Madurez",
	"Dedicación por Team Member",
	"Tiempo de Desarrollo",
	"Calidad: Pases y Reversiones",
}

// Compose places the figures of s on c. Sections whose slide is missing, or
// whose figures are incomplete, are skipped and reported as warnings. Quality
// figures fill 2×2 grids, continuing on new slides like the quality slide.
func Compose(c Canvas, s Sections, slots Slots) ([]string, error) {
	var warnings []string
	w, h := c.SlideSize()

	missing := func(section string, slot int) bool {
		if slot >= 0 && slot < c.SlideCount() {
			return false
		}
		warnings = append(warnings, fmt.Sprintf("%s: slide %d not in deck (%d slides), skipped", section, slot+1, c.SlideCount()))
		return true
	}

	if len(s.Maturity) > 0 && !missing("madurez", slots.Maturity) {
		fig := s.Maturity[0]
		if err := c.AddPicture(slots.Maturity, fig, Centered(w, h, fig.Aspect())); err != nil {
			return warnings, err
		}
	}

	if len(s.Dedication) > 0 && !missing("dedicacion", slots.Dedication) {
		fig := s.Dedication[0]
		if err := c.AddPicture(slots.Dedication, fig, Centered(w, h, fig.Aspect())); err != nil {
			return warnings, err
		}
	}

	switch {
	case len(s.DevTime) == 1:
		warnings = append(warnings, "tiempo: both tribu and squad charts are needed, skipped")
	case len(s.DevTime) >= 2 && !missing("tiempo", slots.DevTime):
		figs := s.DevTime[:2]
		rects := Stacked(w, []float64{figs[0].Aspect(), figs[1].Aspect()})
		for i, fig := range figs {
			if err := c.AddPicture(slots.DevTime, fig, rects[i]); err != nil {
				return warnings, err
			}
		}
	}

	if len(s.Quality) > 0 && !missing("calidad", slots.Quality) {
		slide := slots.Quality
		next := 0
		for i, page := range Grid(w, h, len(s.Quality)) {
			if i > 0 {
				var err error
				if slide, err = c.AppendSlideLike(slots.Quality); err != nil {
					return warnings, err
				}
			}
			for _, r := range page {
				if err := c.AddPicture(slide, s.Quality[next], r); err != nil {
					return warnings, err
				}
				next++
			}
		}
	}
	return warnings, nil
}

// OutputName is the deck file name for a run on day now.
func OutputName(now time.Time) string {
	return now.Format("2006-01-02") + "_Presentation.pptx"
}

// WriteFile saves c to path atomically, creating its folder.
func WriteFile(path string, c Canvas) error {
	return writeAtomic(path, c.Save)
}

// WriteHandoutFile writes the PDF handout of figs to path atomically.
func WriteHandoutFile(path, title string, figs []models.Figure) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteHandout(w, title, figs)
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return err
	}
	defer pf.Cleanup()
	if err := write(pf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return pf.CloseAtomicallyReplace()
}
