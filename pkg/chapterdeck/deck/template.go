package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

// Template is a pptx file opened for adding pictures and slides. Parts the
// writer does not touch are saved back byte for byte.
type Template struct {
	pkg    *pkg
	width  int64
	height int64
	// slides are the slide part names in presentation order.
	slides []string
	media  int
}

// OpenTemplate reads the pptx at path.
func OpenTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadTemplate(data)
}

// ReadTemplate parses a pptx held in memory.
func ReadTemplate(data []byte) (*Template, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	p, err := readPackage(zr)
	if err != nil {
		return nil, err
	}
	if !p.has(partPresentation) || !p.has(partContentTypes) {
		return nil, fmt.Errorf("%w: missing %s", ErrNotPresentation, partPresentation)
	}

	t := &Template{pkg: p}
	ids := t.parsePresentation()
	rels := parseRels(p.get(partPresRels))
	targets := make(map[string]string, len(rels))
	for _, r := range rels {
		targets[r.ID] = resolveTarget(partPresentation, r.Target)
	}
	for _, id := range ids {
		if name, ok := targets[id]; ok && p.has(name) {
			t.slides = append(t.slides, name)
		}
	}
	return t, nil
}

// parsePresentation reads the slide size and the ordered slide relationship ids.
func (t *Template) parsePresentation() []string {
	var ids []string
	decoder := xml.NewDecoder(bytes.NewReader(t.pkg.get(partPresentation)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "sldSz":
			t.width, _ = attrInt(se, "cx")
			t.height, _ = attrInt(se, "cy")
		case "sldId":
			for _, attr := range se.Attr {
				if attr.Name.Local == "id" && attr.Name.Space != "" {
					ids = append(ids, attr.Value)
				}
			}
		}
	}
	if t.width == 0 || t.height == 0 {
		t.width, t.height = Inches(10), Inches(7.5)
	}
	return ids
}

// SlideSize returns the slide width and height in EMU.
func (t *Template) SlideSize() (int64, int64) {
	return t.width, t.height
}

// SlideCount returns the number of slides.
func (t *Template) SlideCount() int {
	return len(t.slides)
}

func (t *Template) slidePart(i int) (string, error) {
	if i < 0 || i >= len(t.slides) {
		return "", fmt.Errorf("%w: %d of %d", ErrNoSlide, i+1, len(t.slides))
	}
	return t.slides[i], nil
}

// AddPicture embeds fig as PNG media and places it on slide inside r.
func (t *Template) AddPicture(slide int, fig models.Figure, r Rect) error {
	name, err := t.slidePart(slide)
	if err != nil {
		return err
	}
	data := t.pkg.get(name)
	sx, err := parseSlide(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	media := t.nextMediaPart()
	t.pkg.put(media, fig.PNG)

	relPart := relsPath(name)
	rels := parseRels(t.pkg.get(relPart))
	rID := nextRelID(rels)
	rels = append(rels, relationship{ID: rID, Type: relTypeImage, Target: relativeTarget(name, media)})
	t.pkg.put(relPart, relsXML(rels))

	pic := pictureXML(sx.maxID+1, fig.Name, rID, r)
	updated, err := insertBefore(data, "</p:spTree>", pic)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	t.pkg.put(name, updated)
	return t.ensureDefault("png", contentTypePNG)
}

// AppendSlideLike appends a slide on the layout of base, carrying over the
// first text placeholder of base (its title) and nothing else.
func (t *Template) AppendSlideLike(base int) (int, error) {
	baseName, err := t.slidePart(base)
	if err != nil {
		return -1, err
	}
	sx, err := parseSlide(t.pkg.get(baseName))
	if err != nil {
		return -1, fmt.Errorf("parse %s: %w", baseName, err)
	}

	name := t.nextSlidePart()

	var rels []relationship
	for _, r := range parseRels(t.pkg.get(relsPath(baseName))) {
		if r.Type == relTypeSlideLayout {
			target := resolveTarget(baseName, r.Target)
			rels = append(rels, relationship{ID: "rId1", Type: relTypeSlideLayout, Target: relativeTarget(name, target)})
			break
		}
	}
	t.pkg.put(relsPath(name), relsXML(rels))

	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.Write(sx.root)
	b.WriteString("<p:cSld><p:spTree>")
	b.Write(sx.group)
	b.Write(sx.placeholder)
	b.WriteString("</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>")
	t.pkg.put(name, b.Bytes())

	presRels := parseRels(t.pkg.get(partPresRels))
	rID := nextRelID(presRels)
	presRels = append(presRels, relationship{ID: rID, Type: relTypeSlide, Target: relativeTarget(partPresentation, name)})
	t.pkg.put(partPresRels, relsXML(presRels))

	pres, err := insertBefore(t.pkg.get(partPresentation), "</p:sldIdLst>",
		fmt.Sprintf(`<p:sldId id="%d" r:id="%s"/>`, t.nextSlideID(), rID))
	if err != nil {
		return -1, fmt.Errorf("%s: %w", partPresentation, err)
	}
	t.pkg.put(partPresentation, pres)

	if err := t.addOverride("/"+name, contentTypeSlide); err != nil {
		return -1, err
	}
	t.slides = append(t.slides, name)
	return len(t.slides) - 1, nil
}

// Save writes the package.
func (t *Template) Save(w io.Writer) error {
	return t.pkg.write(w)
}

func (t *Template) nextMediaPart() string {
	for {
		t.media++
		name := fmt.Sprintf("ppt/media/chapterdeck%d.png", t.media)
		if !t.pkg.has(name) {
			return name
		}
	}
}

func (t *Template) nextSlidePart() string {
	for i := len(t.slides) + 1; ; i++ {
		name := fmt.Sprintf(slidePartTemplate, i)
		if !t.pkg.has(name) {
			return name
		}
	}
}

// nextSlideID returns a slide id above every id in presentation.xml (ids start at 256).
func (t *Template) nextSlideID() int64 {
	highest := int64(255)
	decoder := xml.NewDecoder(bytes.NewReader(t.pkg.get(partPresentation)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sldId" {
			if id, ok := attrInt(se, "id"); ok && id > highest {
				highest = id
			}
		}
	}
	return highest + 1
}

func (t *Template) ensureDefault(ext, contentType string) error {
	data := t.pkg.get(partContentTypes)
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Default" {
			for _, attr := range se.Attr {
				if attr.Name.Local == "Extension" && strings.EqualFold(attr.Value, ext) {
					return nil
				}
			}
		}
	}
	updated, err := insertBefore(data, "</Types>",
		fmt.Sprintf(`<Default Extension="%s" ContentType="%s"/>`, escape(ext), escape(contentType)))
	if err != nil {
		return fmt.Errorf("%s: %w", partContentTypes, err)
	}
	t.pkg.put(partContentTypes, updated)
	return nil
}

func (t *Template) addOverride(partName, contentType string) error {
	updated, err := insertBefore(t.pkg.get(partContentTypes), "</Types>",
		fmt.Sprintf(`<Override PartName="%s" ContentType="%s"/>`, escape(partName), escape(contentType)))
	if err != nil {
		return fmt.Errorf("%s: %w", partContentTypes, err)
	}
	t.pkg.put(partContentTypes, updated)
	return nil
}
