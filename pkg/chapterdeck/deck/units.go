// Package deck places rendered figures on presentation slides, either into a
// pptx template or onto a blank deck, and writes an optional PDF handout.
package deck

import "math"

// EMUPerInch is the number of EMUs (English Metric Units) per inch.
const EMUPerInch = 914400

// EMUPerPixel is the number of EMUs per pixel at 96 DPI.
// 914400 / 96 = 9525
const EMUPerPixel = 9525

// Inches converts inches to EMU.
func Inches(in float64) int64 {
	return int64(math.Round(in * EMUPerInch))
}

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// EMUToMM converts EMU to millimetres.
func EMUToMM(emu int64) float64 {
	return float64(emu) / EMUPerInch * 25.4
}
