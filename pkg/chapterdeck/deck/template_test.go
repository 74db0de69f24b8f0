package deck

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/RodrigoGMGit/Graphs/pkg/chapterdeck/models"
)

const (
	nsDeclA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsDeclR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsDeclP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
)

// buildTemplate returns a minimal 16:9 pptx with n slides, each holding a
// title placeholder and a plain text box.
func buildTemplate(t *testing.T, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatal(err)
		}
	}

	var overrides, ids, rels strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&overrides, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, i, contentTypeSlide)
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+1, relTypeSlide, i)
	}

	add(partContentTypes, xmlHeader()+`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`+
		overrides.String()+`</Types>`)
	add(partPresentation, xmlHeader()+`<p:presentation `+nsDeclA+` `+nsDeclR+` `+nsDeclP+`>`+
		`<p:sldIdLst>`+ids.String()+`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	add(partPresRels, xmlHeader()+`<Relationships xmlns="`+nsPackageRels+`">`+
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`+
		rels.String()+`</Relationships>`)

	for i := 1; i <= n; i++ {
		add(fmt.Sprintf("ppt/slides/slide%d.xml", i), xmlHeader()+`<p:sld `+nsDeclA+` `+nsDeclR+` `+nsDeclP+`><p:cSld><p:spTree>`+
			`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
			`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>`+
			fmt.Sprintf(`<p:txBody><a:bodyPr/><a:p><a:r><a:t>Titulo %d</a:t></a:r></a:p></p:txBody></p:sp>`, i)+
			`<p:sp><p:nvSpPr><p:cNvPr id="5" name="Nota"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/>`+
			`<p:txBody><a:bodyPr/><a:p><a:r><a:t>nota interna</a:t></a:r></a:p></p:txBody></p:sp>`+
			`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i), xmlHeader()+`<Relationships xmlns="`+nsPackageRels+`">`+
			`<Relationship Id="rId1" Type="`+relTypeSlideLayout+`" Target="../slideLayouts/slideLayout2.xml"/></Relationships>`)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func xmlHeader() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
}

func testFigure(t *testing.T, name string, w, h int) models.Figure {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return models.Figure{Name: name, Title: name, PNG: buf.Bytes(), WidthPx: w, HeightPx: h}
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			b, err := readZipFile(f)
			if err != nil {
				t.Fatal(err)
			}
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func saveTemplate(t *testing.T, tpl *Template) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tpl.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return buf.Bytes()
}

func TestReadTemplate(t *testing.T) {
	tpl, err := ReadTemplate(buildTemplate(t, 6))
	if err != nil {
		t.Fatalf("ReadTemplate: %v", err)
	}
	if got := tpl.SlideCount(); got != 6 {
		t.Errorf("SlideCount = %d, want 6", got)
	}
	w, h := tpl.SlideSize()
	if w != 12192000 || h != 6858000 {
		t.Errorf("SlideSize = %d×%d", w, h)
	}

	if _, err := ReadTemplate([]byte("not a zip")); !errors.Is(err, ErrNotPresentation) {
		t.Errorf("garbage: err = %v, want ErrNotPresentation", err)
	}
}

func TestTemplateAddPicture(t *testing.T) {
	tpl, err := ReadTemplate(buildTemplate(t, 6))
	if err != nil {
		t.Fatal(err)
	}
	fig := testFigure(t, "madurez_lep_squads", 40, 20)
	r := Rect{X: 100, Y: 200, W: 300, H: 150}
	if err := tpl.AddPicture(2, fig, r); err != nil {
		t.Fatalf("AddPicture: %v", err)
	}
	if err := tpl.AddPicture(2, fig, r); err != nil {
		t.Fatalf("second AddPicture: %v", err)
	}
	if err := tpl.AddPicture(9, fig, r); !errors.Is(err, ErrNoSlide) {
		t.Errorf("out of range: err = %v, want ErrNoSlide", err)
	}

	out := saveTemplate(t, tpl)
	slide := readPart(t, out, "ppt/slides/slide3.xml")
	for _, want := range []string{
		`<p:cNvPr id="6" name="madurez_lep_squads"/>`,
		`<p:cNvPr id="7" name="madurez_lep_squads"/>`,
		`<a:blip r:embed="rId2"/>`,
		`<a:blip r:embed="rId3"/>`,
		`<a:off x="100" y="200"/><a:ext cx="300" cy="150"/>`,
	} {
		if !strings.Contains(slide, want) {
			t.Errorf("slide3 missing %s", want)
		}
	}

	rels := parseRels([]byte(readPart(t, out, "ppt/slides/_rels/slide3.xml.rels")))
	if len(rels) != 3 || rels[1].Target != "../media/chapterdeck1.png" || rels[2].Target != "../media/chapterdeck2.png" {
		t.Errorf("slide3 rels = %+v", rels)
	}
	if got := readPart(t, out, "ppt/media/chapterdeck1.png"); got != string(fig.PNG) {
		t.Error("media part does not hold the figure")
	}
	types := readPart(t, out, partContentTypes)
	if strings.Count(types, `Extension="png"`) != 1 {
		t.Errorf("content types png default count: %s", types)
	}

	reopened, err := ReadTemplate(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.SlideCount() != 6 {
		t.Errorf("reopened SlideCount = %d", reopened.SlideCount())
	}
}

func TestTemplateAppendSlideLike(t *testing.T) {
	tpl, err := ReadTemplate(buildTemplate(t, 6))
	if err != nil {
		t.Fatal(err)
	}
	idx, err := tpl.AppendSlideLike(5)
	if err != nil {
		t.Fatalf("AppendSlideLike: %v", err)
	}
	if idx != 6 {
		t.Errorf("index = %d, want 6", idx)
	}
	if err := tpl.AddPicture(idx, testFigure(t, "calidad_alpha", 10, 5), Rect{W: 10, H: 5}); err != nil {
		t.Fatalf("AddPicture on new slide: %v", err)
	}

	out := saveTemplate(t, tpl)
	slide := readPart(t, out, "ppt/slides/slide7.xml")
	if !strings.Contains(slide, "Titulo 6") {
		t.Error("new slide lacks the title placeholder")
	}
	if strings.Contains(slide, "nota interna") {
		t.Error("new slide copied a non-placeholder shape")
	}
	if !strings.Contains(slide, `name="calidad_alpha"`) {
		t.Error("new slide lacks its picture")
	}

	rels := parseRels([]byte(readPart(t, out, "ppt/slides/_rels/slide7.xml.rels")))
	if len(rels) != 2 || rels[0].Type != relTypeSlideLayout || rels[0].Target != "../slideLayouts/slideLayout2.xml" {
		t.Errorf("slide7 rels = %+v", rels)
	}
	pres := readPart(t, out, partPresentation)
	if !strings.Contains(pres, `<p:sldId id="262" r:id="rId8"/>`) {
		t.Errorf("presentation.xml missing new slide id: %s", pres)
	}
	presRels := parseRels([]byte(readPart(t, out, partPresRels)))
	if last := presRels[len(presRels)-1]; last.ID != "rId8" || last.Target != "slides/slide7.xml" {
		t.Errorf("last presentation rel = %+v", last)
	}
	if !strings.Contains(readPart(t, out, partContentTypes), `PartName="/ppt/slides/slide7.xml"`) {
		t.Error("content types missing override for slide7")
	}

	reopened, err := ReadTemplate(out)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.SlideCount() != 7 {
		t.Errorf("reopened SlideCount = %d, want 7", reopened.SlideCount())
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		from, to, want string
	}{
		{"ppt/slides/slide1.xml", "ppt/media/image1.png", "../media/image1.png"},
		{"ppt/presentation.xml", "ppt/slides/slide7.xml", "slides/slide7.xml"},
		{"ppt/slides/slide7.xml", "ppt/slideLayouts/slideLayout2.xml", "../slideLayouts/slideLayout2.xml"},
	}
	for _, tt := range tests {
		if got := relativeTarget(tt.from, tt.to); got != tt.want {
			t.Errorf("relativeTarget(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
		if got := resolveTarget(tt.from, tt.want); got != tt.to {
			t.Errorf("resolveTarget(%q, %q) = %q, want %q", tt.from, tt.want, got, tt.to)
		}
	}
}
