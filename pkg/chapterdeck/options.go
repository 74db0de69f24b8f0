// Package chapterdeck builds the chapter leader review deck: it loads the
// monthly report workbooks, aggregates the leader's metrics, renders charts
// and places them on presentation slides.
package chapterdeck

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/charts"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// Section names one report of the deck. Its value is also the keyword used
// to find the section's workbook.
type Section string

const (
	// SectionQuality charts production passes and reversions per squad.
	SectionQuality Section = "calidad"
	// SectionDedication charts the mean dedication of each team member.
	SectionDedication Section = "dedicacion"
	// SectionMaturity charts LEP maturity averages per squad.
	SectionMaturity Section = "madurez"
	// SectionDevTime charts development time per tribu and squad.
	SectionDevTime Section = "tiempo"
)

// AllSections lists every section.
var AllSections = []Section{SectionQuality, SectionDedication, SectionMaturity, SectionDevTime}

// ParseSection accepts a section name or any of its workbook aliases.
func ParseSection(s string) (Section, error) {
	key := source.NormalizeKeyword(s)
	for _, sec := range AllSections {
		if key == string(sec) {
			return sec, nil
		}
		for _, alias := range source.KeywordAliases[string(sec)] {
			if key == alias {
				return sec, nil
			}
		}
	}
	return "", fmt.Errorf("unknown section %q (want one of %s)", s, joinSections(AllSections))
}

func joinSections(secs []Section) string {
	names := make([]string, len(secs))
	for i, s := range secs {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Options configures a deck run.
type Options struct {
	// Leader is the chapter leader full name.
	Leader string
	// DataDir is the folder holding the month's workbooks.
	DataDir string
	// Sections restricts the run; nil renders every section.
	Sections []Section
	// Sources overrides the workbook of a section with an explicit path,
	// absolute or relative to DataDir.
	Sources map[Section]string
	// TemplatePath is the pptx template. Empty builds a blank deck.
	TemplatePath string
	// OutputDir receives the deck and handout.
	OutputDir string
	// OutputName overrides the "YYYY-MM-DD_Presentation.pptx" file name.
	OutputName string
	// CacheSubdir is the parsed-sheet cache folder inside DataDir. Empty disables caching.
	CacheSubdir string
	// Threshold is the development-time target in days.
	Threshold float64
	// DPI is the chart resolution.
	DPI float64
	// Handout also writes a PDF with one chart per page.
	Handout bool
	// Now returns the run date; nil means time.Now.
	Now func() time.Time
	// Logger receives progress and warnings; nil discards them.
	Logger *zap.Logger
}

// DefaultOptions returns default run options.
func DefaultOptions() Options {
	return Options{
		TemplatePath: "./inputs/Template.pptx",
		OutputDir:    "./outputs",
		CacheSubdir:  source.DefaultCacheSubdir,
		Threshold:    charts.DefaultThreshold,
		DPI:          charts.DefaultDPI,
	}
}

// ShouldRender reports whether sec is part of the run.
func (o Options) ShouldRender(sec Section) bool {
	if len(o.Sections) == 0 {
		return true
	}
	for _, s := range o.Sections {
		if s == sec {
			return true
		}
	}
	return false
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) chartOptions() charts.Options {
	return charts.Options{DPI: o.DPI, Threshold: o.Threshold}
}
