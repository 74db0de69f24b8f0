package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// Chart titles as drawn on the slides.
const (
	DedicationTitle = "Team Members vs Promedio de dedicación (Horizontal)"
	MaturityTitle   = "Niveles de Madurez – Promedio LEP por Squad (Horizontal)"
)

// Figure names, used as PNG file names.
const (
	DedicationName   = "dedicacion_team_members"
	MaturityName     = "madurez_lep_squads"
	DevTimeTribuName = "tmd_tribu"
	DevTimeSquadName = "tmd_squad"
)

// DevTimeScaleLabel names the colour bar beside the development-time charts.
const DevTimeScaleLabel = "Días (rojo = peor)"

const barWidth = 0.8

// DedicationBars draws the mean dedication of each member as horizontal
// sea-green bars labelled with two decimals, the first member at the bottom.
func DedicationBars(avgs []models.Average, opts Options) (models.Figure, error) {
	if len(avgs) == 0 {
		return models.Figure{}, fmt.Errorf("dedication: no members")
	}
	p := newPlot(DedicationTitle, true)
	p.X.Label.Text = "Promedio de dedicación"
	p.X.Min = 0

	labels := make([]string, len(avgs))
	values := make([]float64, len(avgs))
	for i, a := range avgs {
		labels[i], values[i] = a.Label, a.Value
	}
	pos, axis := categoryPositions(labels, false)

	bars, err := horizontalBars(values, pos, p, 6*vg.Inch)
	if err != nil {
		return models.Figure{}, err
	}
	for _, b := range bars {
		b.Color = seaGreen
	}
	l, err := valueLabels(values, pos, "%.2f")
	if err != nil {
		return models.Figure{}, err
	}
	p.Add(l)
	p.NominalY(axis...)
	p.X.Max = padMax(values)

	return render(p, DedicationName, 10*vg.Inch, 6*vg.Inch, opts.dpi())
}

// MaturityBars draws grouped horizontal bars, one colour per LEP metric,
// with squads top to bottom in table order.
func MaturityBars(t models.MaturityTable, opts Options) (models.Figure, error) {
	if len(t.Squads) == 0 || len(t.Metrics) == 0 {
		return models.Figure{}, fmt.Errorf("maturity: empty table")
	}
	p := newPlot(MaturityTitle, true)
	p.X.Label.Text = "Puntuación promedio"
	p.Y.Label.Text = "Squad"
	p.X.Min = 0

	squads := make([]string, len(t.Squads))
	for i, s := range t.Squads {
		squads[i] = s.Squad
	}
	pos, axis := categoryPositions(squads, true)

	colors, err := paletteColors("Set2", len(t.Metrics))
	if err != nil {
		return models.Figure{}, err
	}

	const height = 6 * vg.Inch
	group := groupHeight(height, len(squads))
	w := group / vg.Length(len(t.Metrics))
	var all []float64
	for j, metric := range t.Metrics {
		values := make(plotter.Values, len(squads))
		for i, s := range t.Squads {
			v := s.Scores[j]
			if math.IsNaN(v) {
				v = 0
			}
			values[int(pos[i])] = v
			all = append(all, v)
		}
		b, err := plotter.NewBarChart(values, w)
		if err != nil {
			return models.Figure{}, err
		}
		b.Horizontal = true
		b.LineStyle.Width = 0
		b.Color = colors[j]
		// The first metric sits at the top of each group.
		b.Offset = (vg.Length(len(t.Metrics)-1)/2 - vg.Length(j)) * w
		p.Add(b)
		p.Legend.Add(metric, b)
	}
	p.Legend.Top = true
	p.NominalY(axis...)
	p.X.Max = padMax(all)

	return render(p, MaturityName, 14*vg.Inch, height, opts.dpi())
}

// DevTimeBars draws development-time means per tribu and per squad, highest
// first. Bars shade from green at the threshold to red at the maximum, a
// dashed line marks the threshold and the value axis has whole-day ticks.
// An empty series is skipped.
func DevTimeBars(dt models.DevTime, opts Options) ([]models.Figure, error) {
	th := opts.threshold()
	var figs []models.Figure
	for _, s := range []struct {
		name, unit string
		avgs       []models.Average
	}{
		{DevTimeTribuName, "Tribu", dt.ByTribu},
		{DevTimeSquadName, "Squad", dt.BySquad},
	} {
		if len(s.avgs) == 0 {
			continue
		}
		title := fmt.Sprintf("Tiempo de Desarrollo Promedio por %s (umbral %s días)", s.unit, formatThreshold(th))
		fig, err := devTimeBars(s.name, title, s.avgs, th, opts)
		if err != nil {
			return figs, err
		}
		figs = append(figs, fig)
	}
	return figs, nil
}

func devTimeBars(name, title string, avgs []models.Average, th float64, opts Options) (models.Figure, error) {
	p := newPlot(title, true)
	p.X.Label.Text = "Promedio de días"

	labels := make([]string, len(avgs))
	values := make([]float64, len(avgs))
	maxV := 0.0
	for i, a := range avgs {
		labels[i], values[i] = a.Label, a.Value
		maxV = math.Max(maxV, a.Value)
	}
	pos, axis := categoryPositions(labels, true)

	scale, err := NewRedYellowGreenReversed(th, maxV)
	if err != nil {
		return models.Figure{}, err
	}
	bars, err := horizontalBars(values, pos, p, 6*vg.Inch)
	if err != nil {
		return models.Figure{}, err
	}
	for i, b := range bars {
		b.Color = scale.At(values[i])
	}

	l, err := valueLabels(values, pos, "%.1f")
	if err != nil {
		return models.Figure{}, err
	}
	p.Add(l)

	limit := math.Ceil(maxV) + 1
	line, err := plotter.NewLine(plotter.XYs{{X: th, Y: -0.5}, {X: th, Y: float64(len(avgs)) - 0.5}})
	if err != nil {
		return models.Figure{}, err
	}
	line.Color = color.Black
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(line)

	p.NominalY(axis...)
	p.X.Min = 0
	p.X.Max = math.Max(limit, th+1)
	p.X.Tick.Marker = plot.TickerFunc(func(min, max float64) []plot.Tick {
		var ticks []plot.Tick
		for v := 0.0; v <= math.Ceil(maxV); v++ {
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
		}
		return ticks
	})

	bar := scale.ColorBar(DevTimeScaleLabel)
	return renderWithColorBar(p, bar, name, 14*vg.Inch, 6*vg.Inch, 1.2*vg.Inch, opts.dpi())
}

// horizontalBars adds one single-value bar chart per value so each bar can
// take its own colour.
func horizontalBars(values, pos []float64, p *plot.Plot, height vg.Length) ([]*plotter.BarChart, error) {
	w := groupHeight(height, len(values))
	bars := make([]*plotter.BarChart, len(values))
	for i, v := range values {
		b, err := plotter.NewBarChart(plotter.Values{v}, w)
		if err != nil {
			return nil, err
		}
		b.Horizontal = true
		b.XMin = pos[i]
		b.LineStyle.Width = 0
		p.Add(b)
		bars[i] = b
	}
	return bars, nil
}

// groupHeight is the bar thickness that fills barWidth of each category slot
// of a plot roughly height tall.
func groupHeight(height vg.Length, n int) vg.Length {
	if n < 1 {
		n = 1
	}
	usable := height * 0.7
	return usable / vg.Length(n) * barWidth
}

// padMax leaves room right of the longest bar for its label.
func padMax(values []float64) float64 {
	maxV := 0.0
	for _, v := range values {
		maxV = math.Max(maxV, v)
	}
	if maxV == 0 {
		return 1
	}
	return maxV * 1.15
}

func formatThreshold(th float64) string {
	if th == math.Trunc(th) {
		return fmt.Sprintf("%.0f", th)
	}
	return fmt.Sprintf("%g", th)
}
