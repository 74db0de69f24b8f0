package deck

// Rect is a picture frame on a slide, in EMU.
type Rect struct {
	X, Y, W, H int64
}

// Geometry constants of the slide layouts.
var (
	CenteredWidthFrac = 0.70
	CenteredMinTop    = Inches(0.8)

	StackedMargin = Inches(0.5)
	StackedGap    = Inches(0.25)
	StackedTop    = Inches(1.0)

	GridLeft   = Inches(0.5)
	GridTop    = Inches(1.3)
	GridInsetW = Inches(1.0)
	GridInsetH = Inches(1.8)
	GridGap    = Inches(0.15)
)

// GridPageSize is the number of figures per grid slide.
const GridPageSize = 4

// Centered sizes a picture of the given aspect (height/width) to 70% of the
// slide width and centres it, never higher than 0.8in from the top.
func Centered(slideW, slideH int64, aspect float64) Rect {
	w := int64(float64(slideW) * CenteredWidthFrac)
	h := int64(float64(w) * aspect)
	top := (slideH - h) / 2
	if top < CenteredMinTop {
		top = CenteredMinTop
	}
	return Rect{X: (slideW - w) / 2, Y: top, W: w, H: h}
}

// Stacked places pictures one under another in a centred column half the
// usable slide width wide, starting 1in from the top.
func Stacked(slideW int64, aspects []float64) []Rect {
	w := (slideW - 2*StackedMargin - StackedGap) / 2
	left := (slideW - w) / 2
	top := StackedTop
	rects := make([]Rect, len(aspects))
	for i, a := range aspects {
		h := int64(float64(w) * a)
		rects[i] = Rect{X: left, Y: top, W: w, H: h}
		top += h + StackedGap
	}
	return rects
}

// Grid splits n pictures into pages of a 2×2 grid filling the area below the
// slide title. Pictures are stretched to their cell.
func Grid(slideW, slideH int64, n int) [][]Rect {
	w := slideW - GridInsetW
	h := slideH - GridInsetH
	cw := (w - GridGap) / 2
	ch := (h - GridGap) / 2

	var pages [][]Rect
	for i := 0; i < n; i += GridPageSize {
		var page []Rect
		for k := 0; k < GridPageSize && i+k < n; k++ {
			r, c := int64(k/2), int64(k%2)
			page = append(page, Rect{
				X: GridLeft + c*(cw+GridGap),
				Y: GridTop + r*(ch+GridGap),
				W: cw,
				H: ch,
			})
		}
		pages = append(pages, page)
	}
	return pages
}
