package deck

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// WriteHandout writes a landscape A4 PDF with one figure per page, scaled to
// fit below its title.
func WriteHandout(w io.Writer, title string, figs []models.Figure) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("chapterdeck", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 15)

	mLeft, mTop, mRight, mBottom := pdf.GetMargins()
	pWidth, pHeight := pdf.GetPageSize()
	areaW := pWidth - mLeft - mRight

	if len(figs) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	}
	for i, fig := range figs {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(30, 64, 175)
		pdf.CellFormat(0, 10, tr(fig.Title), "", 1, "L", false, 0, "")

		top := mTop + 14
		areaH := pHeight - mBottom - top
		imgW, imgH := areaW, areaW*fig.Aspect()
		if imgH > areaH || imgH == 0 {
			imgH = areaH
			if a := fig.Aspect(); a > 0 {
				imgW = imgH / a
			}
		}

		name := fmt.Sprintf("fig%d_%s.png", i, fig.Name)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(fig.PNG))
		pdf.ImageOptions(name, mLeft+(areaW-imgW)/2, top, imgW, imgH, false, opts, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(148, 163, 184)
		pdf.SetXY(mLeft, pHeight-mBottom+4)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d / %d", i+1, len(figs)), "", 0, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("PDF generation error: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to output PDF: %w", err)
	}
	return nil
}
