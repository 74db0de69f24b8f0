// Package charts renders metric series to PNG figures with gonum/plot.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// DefaultDPI is the resolution figures are rendered at.
const DefaultDPI = 150

// DefaultThreshold is the development-time target, in days.
const DefaultThreshold = 13

// Options control rendering.
type Options struct {
	// DPI is the output resolution; zero means DefaultDPI.
	DPI float64
	// Threshold is the development-time target in days; zero means DefaultThreshold.
	Threshold float64
}

func (o Options) dpi() float64 {
	if o.DPI <= 0 {
		return DefaultDPI
	}
	return o.DPI
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

var (
	seaGreen    = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	passColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	revertColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	gridColor   = color.Gray{Y: 200}
)

// render draws p on a w×h canvas and encodes it as PNG.
func render(p *plot.Plot, name string, w, h vg.Length, dpi float64) (models.Figure, error) {
	return renderWith(name, p.Title.Text, w, h, dpi, func(dc draw.Canvas) {
		p.Draw(dc)
	})
}

// renderWithColorBar draws p with bar beside it on the right, barW wide.
func renderWithColorBar(p, bar *plot.Plot, name string, w, h, barW vg.Length, dpi float64) (models.Figure, error) {
	return renderWith(name, p.Title.Text, w, h, dpi, func(dc draw.Canvas) {
		p.Draw(draw.Crop(dc, 0, -barW, 0, 0))
		// keep the strip level with the data area below the title
		bar.Draw(draw.Crop(dc, w-barW, 0, 0, -vg.Points(30)))
	})
}

func renderWith(name, title string, w, h vg.Length, dpi float64, paint func(draw.Canvas)) (models.Figure, error) {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(dpi)))
	paint(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return models.Figure{}, fmt.Errorf("encode %s: %w", name, err)
	}
	b := c.Image().Bounds()
	return models.Figure{
		Name:     name,
		Title:    title,
		PNG:      buf.Bytes(),
		WidthPx:  b.Dx(),
		HeightPx: b.Dy(),
	}, nil
}

// newPlot returns a plot with a light grid along the value axis.
func newPlot(title string, horizontal bool) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = vg.Points(6)

	g := plotter.NewGrid()
	g.Vertical.Color = gridColor
	g.Horizontal.Color = gridColor
	g.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	g.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	if horizontal {
		g.Horizontal.Color = nil
	} else {
		g.Vertical.Color = nil
	}
	p.Add(g)
	return p
}

// valueLabels annotates horizontal bars with their values, just right of each bar end.
func valueLabels(values []float64, positions []float64, format string) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	labels := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: v, Y: positions[i]}
		labels[i] = fmt.Sprintf(format, v)
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XLeft
		l.TextStyle[i].YAlign = text.YCenter
	}
	l.Offset = vg.Point{X: vg.Points(3)}
	return l, nil
}

// paletteColors returns n colours from a ColorBrewer palette, cycling when
// n exceeds its size.
func paletteColors(name string, n int) ([]color.Color, error) {
	size := n
	if size < 3 {
		size = 3
	}
	var (
		pal palette.Palette
		err error
	)
	for ; size >= 3; size-- {
		if pal, err = brewer.GetPalette(brewer.TypeAny, name, size); err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	base := pal.Colors()
	out := make([]color.Color, n)
	for i := range out {
		out[i] = base[i%len(base)]
	}
	return out, nil
}

// Scale maps values onto a colour ramp.
type Scale struct {
	Min, Max float64
	ramp     []color.Color
}

// NewRedYellowGreenReversed returns a scale running green at min to red at max.
func NewRedYellowGreenReversed(min, max float64) (Scale, error) {
	pal, err := brewer.GetPalette(brewer.TypeAny, "RdYlGn", 11)
	if err != nil {
		return Scale{}, err
	}
	cs := pal.Colors()
	ramp := make([]color.Color, len(cs))
	for i, c := range cs {
		ramp[len(cs)-1-i] = c
	}
	return Scale{Min: min, Max: max, ramp: ramp}, nil
}

// At returns the colour of v. Values outside [Min, Max] are clamped; a
// degenerate range maps everything to the low end.
func (s Scale) At(v float64) color.Color {
	t := 0.0
	if s.Max > s.Min {
		t = (v - s.Min) / (s.Max - s.Min)
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(s.ramp)-1)
	i := int(math.Floor(pos))
	if i >= len(s.ramp)-1 {
		return s.ramp[len(s.ramp)-1]
	}
	return lerp(s.ramp[i], s.ramp[i+1], pos-float64(i))
}

func lerp(a, b color.Color, t float64) color.Color {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	mix := func(x, y uint32) uint8 {
		return uint8((float64(x)*(1-t) + float64(y)*t) / 257)
	}
	return color.RGBA{R: mix(ar, br), G: mix(ag, bg), B: mix(ab, bb), A: 255}
}

// ColorBar returns a plot holding a vertical strip of the scale, low values
// at the bottom, labelled along its value axis.
func (s Scale) ColorBar(label string) *plot.Plot {
	const steps = 128
	img := image.NewRGBA(image.Rect(0, 0, 1, steps))
	for i := 0; i < steps; i++ {
		v := s.Min + (s.Max-s.Min)*float64(i)/float64(steps-1)
		img.Set(0, steps-1-i, s.At(v))
	}

	p := plot.New()
	p.HideX()
	p.Y.Label.Text = label
	p.Y.Min, p.Y.Max = s.Min, s.Max
	if s.Max <= s.Min {
		p.Y.Max = s.Min + 1
	}
	p.Add(plotter.NewImage(img, 0, p.Y.Min, 1, p.Y.Max))
	p.X.Min, p.X.Max = 0, 1
	return p
}

// categoryPositions places n categories on the bar axis. Top-first puts the
// first item at the top, as a seaborn bar plot does.
func categoryPositions(labels []string, topFirst bool) ([]float64, []string) {
	n := len(labels)
	pos := make([]float64, n)
	axis := make([]string, n)
	for i := range labels {
		p := i
		if topFirst {
			p = n - 1 - i
		}
		pos[i] = float64(p)
		axis[p] = labels[i]
	}
	return pos, axis
}
