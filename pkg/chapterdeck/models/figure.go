package models

// Figure is a rendered chart ready to be placed on a slide.
type Figure struct {
	// Name is a file-safe identifier (e.g. "calidad_squad_alpha").
	Name string `json:"name"`
	// Title is the chart title as drawn.
	Title string `json:"title"`
	// PNG holds the encoded image.
	PNG []byte `json:"-"`
	// WidthPx is the image width in pixels.
	WidthPx int `json:"width_px"`
	// HeightPx is the image height in pixels.
	HeightPx int `json:"height_px"`
}

// Aspect returns height divided by width, or 0 for an unsized figure.
func (f Figure) Aspect() float64 {
	if f.WidthPx == 0 {
		return 0
	}
	return float64(f.HeightPx) / float64(f.WidthPx)
}
