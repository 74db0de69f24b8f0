package charts

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/source"
)

// QualityYLabel is the y axis label of the quality charts.
const QualityYLabel = "Número de Pases / Reversiones"

// QualityLines draws one 8×4 in chart per squad: passes as a solid line with
// circle markers and reversions as a dashed line with crosses, over months.
func QualityLines(series []models.SquadQuality, opts Options) ([]models.Figure, error) {
	figs := make([]models.Figure, 0, len(series))
	for _, sq := range series {
		fig, err := qualityLine(sq, opts)
		if err != nil {
			return figs, fmt.Errorf("squad %q: %w", sq.Squad, err)
		}
		figs = append(figs, fig)
	}
	return figs, nil
}

func qualityLine(sq models.SquadQuality, opts Options) (models.Figure, error) {
	p := newPlot(sq.Squad, false)
	p.Y.Label.Text = QualityYLabel
	p.Y.Min = 0

	months := make([]string, len(sq.Points))
	passes := make(plotter.XYs, len(sq.Points))
	reverts := make(plotter.XYs, len(sq.Points))
	for i, pt := range sq.Points {
		months[i] = pt.Month
		passes[i] = plotter.XY{X: float64(i), Y: float64(pt.Passes)}
		reverts[i] = plotter.XY{X: float64(i), Y: float64(pt.Reverts)}
	}

	pl, ps, err := plotter.NewLinePoints(passes)
	if err != nil {
		return models.Figure{}, err
	}
	pl.Color = passColor
	ps.GlyphStyle.Color = passColor
	ps.GlyphStyle.Shape = draw.CircleGlyph{}
	ps.GlyphStyle.Radius = vg.Points(3)

	rl, rs, err := plotter.NewLinePoints(reverts)
	if err != nil {
		return models.Figure{}, err
	}
	rl.Color = revertColor
	rl.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	rs.GlyphStyle.Shape = draw.CrossGlyph{}
	rs.GlyphStyle.Color = revertColor
	rs.GlyphStyle.Radius = vg.Points(3)

	p.Add(pl, ps, rl, rs)
	p.Legend.Add("Pases", pl, ps)
	p.Legend.Add("Reversiones", rl, rs)
	p.Legend.Top = true
	p.NominalX(months...)

	return render(p, "calidad_"+source.Slug(sq.Squad), 8*vg.Inch, 4*vg.Inch, opts.dpi())
}
