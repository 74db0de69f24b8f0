package chapterdeck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/charts"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/deck"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/metrics"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// DeckTitle is the title of blank decks and handouts.
const DeckTitle = "Revisión de Chapter"

// Result describes a run.
type Result struct {
	// DeckPath is the written presentation; empty for figure-only runs.
	DeckPath string
	// HandoutPath is the written PDF, if requested.
	HandoutPath string
	// Figures are the rendered charts in slide order.
	Figures []models.Figure
	// Skipped lists the sections that produced no chart.
	Skipped []Section
	// Warnings holds one line per skipped section or slide.
	Warnings []string
	Started  time.Time
	Finished time.Time
}

// Generate renders every selected section and writes the deck to OutputDir.
// A section that cannot be loaded, aggregated or drawn is skipped with a
// warning; only template and output failures abort the run.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.logger()
	sections, res, err := render(ctx, opts)
	if err != nil {
		return res, err
	}

	canvas, slots, err := openCanvas(opts, res)
	if err != nil {
		return res, err
	}
	warnings, err := deck.Compose(canvas, sections, slots)
	res.Warnings = append(res.Warnings, warnings...)
	for _, w := range warnings {
		logger.Warn("slide skipped", zap.String("reason", w))
	}
	if err != nil {
		return res, fmt.Errorf("compose deck: %w", err)
	}

	name := opts.OutputName
	if name == "" {
		name = deck.OutputName(res.Started)
	}
	res.DeckPath = filepath.Join(opts.OutputDir, name)
	if err := deck.WriteFile(res.DeckPath, canvas); err != nil {
		return res, fmt.Errorf("write deck: %w", err)
	}
	logger.Info("deck written", zap.String("path", res.DeckPath), zap.Int("figures", len(res.Figures)))

	if opts.Handout {
		res.HandoutPath = strings.TrimSuffix(res.DeckPath, filepath.Ext(res.DeckPath)) + ".pdf"
		if err := deck.WriteHandoutFile(res.HandoutPath, handoutTitle(opts, res.Started), res.Figures); err != nil {
			return res, fmt.Errorf("write handout: %w", err)
		}
		logger.Info("handout written", zap.String("path", res.HandoutPath))
	}

	res.Finished = opts.now()
	return res, nil
}

// RenderFigures loads, aggregates and draws the selected sections without
// building a deck.
func RenderFigures(ctx context.Context, opts Options) (deck.Sections, *Result, error) {
	sections, res, err := render(ctx, opts)
	if res != nil {
		res.Finished = opts.now()
	}
	return sections, res, err
}

// WriteFigures saves figs as dir/<name>.png and returns the written paths.
func WriteFigures(dir string, figs []models.Figure) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(figs))
	for _, fig := range figs {
		p := filepath.Join(dir, fig.Name+".png")
		if err := renameio.WriteFile(p, fig.PNG, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func render(ctx context.Context, opts Options) (deck.Sections, *Result, error) {
	res := &Result{Started: opts.now()}
	if strings.TrimSpace(opts.Leader) == "" {
		return deck.Sections{}, res, ErrNoLeader
	}
	logger := opts.logger().With(zap.String("leader", opts.Leader), zap.String("data_dir", opts.DataDir))

	r := &runner{
		opts:   opts,
		loader: source.NewLoader(opts.DataDir, opts.CacheSubdir, logger),
		logger: logger,
	}

	var (
		mu       sync.Mutex
		sections deck.Sections
		failed   = make(map[Section]error)
	)
	builders := map[Section]func(context.Context) ([]models.Figure, error){
		SectionQuality:    r.quality,
		SectionDedication: r.dedication,
		SectionMaturity:   r.maturity,
		SectionDevTime:    r.devTime,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sec := range AllSections {
		if !opts.ShouldRender(sec) {
			continue
		}
		sec, build := sec, builders[sec]
		g.Go(func() error {
			figs, err := build(gctx)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[sec] = err
			}
			switch sec {
			case SectionQuality:
				sections.Quality = figs
			case SectionDedication:
				sections.Dedication = figs
			case SectionMaturity:
				sections.Maturity = figs
			case SectionDevTime:
				sections.DevTime = figs
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return deck.Sections{}, res, err
	}

	for _, sec := range AllSections {
		err, ok := failed[sec]
		if !ok {
			continue
		}
		logger.Warn("section skipped", zap.String("section", string(sec)), zap.Error(err))
		res.Warnings = append(res.Warnings, err.Error())
		if len(sectionFigures(sections, sec)) == 0 {
			res.Skipped = append(res.Skipped, sec)
		}
	}
	res.Figures = sections.All()
	return sections, res, nil
}

func sectionFigures(s deck.Sections, sec Section) []models.Figure {
	switch sec {
	case SectionQuality:
		return s.Quality
	case SectionDedication:
		return s.Dedication
	case SectionMaturity:
		return s.Maturity
	case SectionDevTime:
		return s.DevTime
	}
	return nil
}

// openCanvas opens the template, falling back to a blank deck with a warning
// when the template file does not exist.
func openCanvas(opts Options, res *Result) (deck.Canvas, deck.Slots, error) {
	if opts.TemplatePath != "" {
		tpl, err := deck.OpenTemplate(opts.TemplatePath)
		switch {
		case err == nil:
			return tpl, deck.TemplateSlots, nil
		case errors.Is(err, fs.ErrNotExist):
			msg := fmt.Sprintf("template %s not found, using a blank deck", opts.TemplatePath)
			opts.logger().Warn("template missing", zap.String("path", opts.TemplatePath))
			res.Warnings = append(res.Warnings, msg)
		case errors.Is(err, deck.ErrNotPresentation):
			return nil, deck.Slots{}, fmt.Errorf("%w: template %s: %v", ErrUnsupportedFormat, opts.TemplatePath, err)
		default:
			return nil, deck.Slots{}, fmt.Errorf("open template: %w", err)
		}
	}
	subtitle := fmt.Sprintf("%s · %s", opts.Leader, res.Started.Format("2006-01-02"))
	return deck.NewBlank(DeckTitle, subtitle, deck.BlankHeadings), deck.BlankSlots, nil
}

func handoutTitle(opts Options, now time.Time) string {
	return fmt.Sprintf("%s · %s · %s", DeckTitle, opts.Leader, now.Format("2006-01-02"))
}

// runner builds the sections of one run.
type runner struct {
	opts   Options
	loader *source.Loader
	logger *zap.Logger
}

func (r *runner) load(ctx context.Context, sec Section, sheet string) (models.Frame, string, error) {
	path, err := r.loader.Resolve(r.opts.Sources[sec], string(sec))
	if err != nil {
		return models.Frame{}, "", NewSectionError(sec, "load", err)
	}
	f, err := r.loader.Read(ctx, path, sheet)
	if err != nil {
		return models.Frame{}, path, NewSectionError(sec, "load", err)
	}
	return f, path, nil
}

func (r *runner) quality(ctx context.Context) ([]models.Figure, error) {
	passes, path, err := r.load(ctx, SectionQuality, metrics.PasesSheet)
	if err != nil {
		return nil, err
	}
	reverts, err := r.loader.Read(ctx, path, metrics.ReversionesSheet)
	if err != nil {
		if !errors.Is(err, source.ErrSheetNotFound) {
			return nil, NewSectionError(SectionQuality, "load", err)
		}
		r.logger.Warn("no reversions sheet, counting passes only", zap.String("file", path))
	}

	series, err := metrics.Quality(passes, reverts, r.opts.Leader)
	if err != nil {
		return nil, NewSectionError(SectionQuality, "metrics", err)
	}
	figs, err := charts.QualityLines(series, r.opts.chartOptions())
	if err != nil {
		return figs, NewSectionError(SectionQuality, "chart", err)
	}
	return figs, nil
}

func (r *runner) dedication(ctx context.Context) ([]models.Figure, error) {
	f, _, err := r.load(ctx, SectionDedication, "")
	if err != nil {
		return nil, err
	}
	avgs, err := metrics.Dedication(f, r.opts.Leader)
	if err != nil {
		return nil, NewSectionError(SectionDedication, "metrics", err)
	}
	fig, err := charts.DedicationBars(avgs, r.opts.chartOptions())
	if err != nil {
		return nil, NewSectionError(SectionDedication, "chart", err)
	}
	return []models.Figure{fig}, nil
}

func (r *runner) maturity(ctx context.Context) ([]models.Figure, error) {
	f, _, err := r.load(ctx, SectionMaturity, "")
	if err != nil {
		return nil, err
	}
	table, err := metrics.Maturity(f, r.opts.Leader)
	if err != nil {
		return nil, NewSectionError(SectionMaturity, "metrics", err)
	}
	fig, err := charts.MaturityBars(table, r.opts.chartOptions())
	if err != nil {
		return nil, NewSectionError(SectionMaturity, "chart", err)
	}
	return []models.Figure{fig}, nil
}

func (r *runner) devTime(ctx context.Context) ([]models.Figure, error) {
	f, _, err := r.load(ctx, SectionDevTime, metrics.DevTimeSheet)
	if err != nil {
		return nil, err
	}
	dt, err := metrics.DevTime(f, r.opts.Leader)
	if err != nil {
		return nil, NewSectionError(SectionDevTime, "metrics", err)
	}
	figs, err := charts.DevTimeBars(dt, r.opts.chartOptions())
	if err != nil {
		return figs, NewSectionError(SectionDevTime, "chart", err)
	}
	return figs, nil
}
