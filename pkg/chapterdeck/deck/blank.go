package deck

import (
	"fmt"
	"io"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// Blank deck geometry (16:9).
var (
	BlankSlideWidth  = Inches(10)
	BlankSlideHeight = Inches(5.625)
)

const (
	blankMargin      = 0.4
	blankFontTitle   = 32
	blankFontHeading = 24
	blankFontSmall   = 12
	colorAccent      = "FF1E40AF"
	colorBar         = "FF3B82F6"
	colorMuted       = "FF94A3B8"
)

// Blank is a deck built from scratch when no template is available: a title
// slide followed by one headed slide per section.
type Blank struct {
	p        *ppt.Presentation
	slides   []*ppt.Slide
	headings []string
}

// NewBlank returns a deck whose first slide shows title and subtitle and
// whose following slides carry headings, in order.
func NewBlank(title, subtitle string, headings []string) *Blank {
	p := ppt.New()
	p.GetDocumentProperties().Title = title
	p.GetDocumentProperties().Creator = "chapterdeck"

	b := &Blank{p: p}
	first := p.GetActiveSlide()
	addTitle(first, title, subtitle)
	b.slides = append(b.slides, first)
	b.headings = append(b.headings, "")

	for _, h := range headings {
		b.addSlide(h)
	}
	return b
}

// SlideSize returns the slide width and height in EMU.
func (b *Blank) SlideSize() (int64, int64) {
	return BlankSlideWidth, BlankSlideHeight
}

// SlideCount returns the number of slides.
func (b *Blank) SlideCount() int {
	return len(b.slides)
}

// AddPicture places fig on slide inside r.
func (b *Blank) AddPicture(slide int, fig models.Figure, r Rect) error {
	if slide < 0 || slide >= len(b.slides) {
		return fmt.Errorf("%w: %d of %d", ErrNoSlide, slide+1, len(b.slides))
	}
	img := b.slides[slide].CreateDrawingShape()
	img.SetImageData(fig.PNG, "image/png")
	img.SetOffsetX(r.X).SetOffsetY(r.Y)
	img.SetWidth(r.W).SetHeight(r.H)
	return nil
}

// AppendSlideLike appends a slide with the heading of base.
func (b *Blank) AppendSlideLike(base int) (int, error) {
	if base < 0 || base >= len(b.slides) {
		return -1, fmt.Errorf("%w: %d of %d", ErrNoSlide, base+1, len(b.slides))
	}
	b.addSlide(b.headings[base])
	return len(b.slides) - 1, nil
}

// Save writes the deck as pptx.
func (b *Blank) Save(w io.Writer) error {
	pw, err := ppt.NewWriter(b.p, ppt.WriterPowerPoint2007)
	if err != nil {
		return fmt.Errorf("failed to create PPT writer: %w", err)
	}
	if err := pw.(*ppt.PPTXWriter).WriteTo(w); err != nil {
		return fmt.Errorf("failed to save PPT: %w", err)
	}
	return nil
}

func (b *Blank) addSlide(heading string) {
	slide := b.p.CreateSlide()
	if heading != "" {
		addHeading(slide, heading)
	}
	b.slides = append(b.slides, slide)
	b.headings = append(b.headings, heading)
}

func addTitle(slide *ppt.Slide, title, subtitle string) {
	bar := slide.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(0)
	bar.SetWidth(BlankSlideWidth).SetHeight(Inches(0.15))
	bar.SetFill(ppt.NewFill().SetSolid(ppt.NewColor(colorBar)))

	titleShape := slide.CreateRichTextShape()
	titleShape.SetOffsetX(Inches(blankMargin)).SetOffsetY(Inches(1.8))
	titleShape.SetWidth(BlankSlideWidth - 2*Inches(blankMargin)).SetHeight(Inches(1.0))
	tr := titleShape.CreateTextRun(title)
	tr.GetFont().SetSize(blankFontTitle).SetBold(true).SetColor(ppt.NewColor(colorAccent))
	titleShape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))

	if subtitle == "" {
		return
	}
	sub := slide.CreateRichTextShape()
	sub.SetOffsetX(Inches(blankMargin)).SetOffsetY(Inches(3.0))
	sub.SetWidth(BlankSlideWidth - 2*Inches(blankMargin)).SetHeight(Inches(0.5))
	st := sub.CreateTextRun(subtitle)
	st.GetFont().SetSize(blankFontSmall).SetColor(ppt.NewColor(colorMuted))
	sub.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

func addHeading(slide *ppt.Slide, heading string) {
	bar := slide.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(0)
	bar.SetWidth(BlankSlideWidth).SetHeight(Inches(0.08))
	bar.SetFill(ppt.NewFill().SetSolid(ppt.NewColor(colorBar)))

	h := slide.CreateRichTextShape()
	h.SetOffsetX(Inches(blankMargin)).SetOffsetY(Inches(0.25))
	h.SetWidth(BlankSlideWidth - 2*Inches(blankMargin)).SetHeight(Inches(0.6))
	tr := h.CreateTextRun(heading)
	tr.GetFont().SetSize(blankFontHeading).SetBold(true).SetColor(ppt.NewColor(colorAccent))
}
