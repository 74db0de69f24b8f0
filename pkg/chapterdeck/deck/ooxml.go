package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// Relationship and content types used in PresentationML packages.
const (
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	nsPackageRels      = "http://schemas.openxmlformats.org/package/2006/relationships"

	contentTypeSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	contentTypePNG   = "image/png"
)

const (
	partContentTypes  = "[Content_Types].xml"
	partPresentation  = "ppt/presentation.xml"
	partPresRels      = "ppt/_rels/presentation.xml.rels"
	slidePartTemplate = "ppt/slides/slide%d.xml"
)

// part is one file of an OOXML package.
type part struct {
	name string
	data []byte
}

// pkg is an OOXML package held in memory, keeping the original part order.
type pkg struct {
	parts []*part
	index map[string]*part
}

func readPackage(r *zip.Reader) (*pkg, error) {
	p := &pkg{index: make(map[string]*part, len(r.File))}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		p.put(f.Name, data)
	}
	return p, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *pkg) get(name string) []byte {
	if pt, ok := p.index[name]; ok {
		return pt.data
	}
	return nil
}

func (p *pkg) has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// put replaces the part name, appending it when new.
func (p *pkg) put(name string, data []byte) {
	if pt, ok := p.index[name]; ok {
		pt.data = data
		return
	}
	pt := &part{name: name, data: data}
	p.parts = append(p.parts, pt)
	p.index[name] = pt
}

func (p *pkg) write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, pt := range p.parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: pt.name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := fw.Write(pt.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// relationship is one entry of a .rels part.
type relationship struct {
	ID     string
	Type   string
	Target string
}

func parseRels(data []byte) []relationship {
	var rels []relationship
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.ID = attr.Value
				case "Type":
					rel.Type = attr.Value
				case "Target":
					rel.Target = attr.Value
				}
			}
			if rel.ID != "" {
				rels = append(rels, rel)
			}
		}
	}
	return rels
}

func relsXML(rels []relationship) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsPackageRels)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, escape(r.ID), escape(r.Type), escape(r.Target))
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

// nextRelID returns an "rIdN" not used by rels.
func nextRelID(rels []relationship) string {
	highest := 0
	for _, r := range rels {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

// relsPath returns the .rels part describing partName.
func relsPath(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against the part that owns it.
func resolveTarget(partName, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(partName), target)
}

// relativeTarget is the inverse of resolveTarget for parts in sibling folders.
func relativeTarget(fromPart, toPart string) string {
	from := strings.Split(path.Dir(fromPart), "/")
	to := strings.Split(toPart, "/")
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	return strings.Repeat("../", len(from)-i) + strings.Join(to[i:], "/")
}

// insertBefore inserts snippet before the last occurrence of closing in data.
func insertBefore(data []byte, closing, snippet string) ([]byte, error) {
	i := bytes.LastIndex(data, []byte(closing))
	if i < 0 {
		return nil, fmt.Errorf("%s not found", closing)
	}
	out := make([]byte, 0, len(data)+len(snippet))
	out = append(out, data[:i]...)
	out = append(out, snippet...)
	out = append(out, data[i:]...)
	return out, nil
}

func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

func attrInt(se xml.StartElement, local string) (int64, bool) {
	for _, attr := range se.Attr {
		if attr.Name.Local == local && attr.Name.Space == "" {
			v, err := strconv.ParseInt(attr.Value, 10, 64)
			return v, err == nil
		}
	}
	return 0, false
}

// slideXML is the raw layout of a slide part needed to add pictures and to
// derive new slides from it.
type slideXML struct {
	// root is the raw <p:sld ...> start tag with its namespace declarations.
	root []byte
	// group holds the raw nvGrpSpPr and grpSpPr children of the shape tree.
	group []byte
	// placeholder is the raw first placeholder shape that carries text, if any.
	placeholder []byte
	// maxID is the highest shape id in the slide.
	maxID int64
}

// parseSlide scans a slide part with raw tokens so that the byte ranges of
// elements can be copied as they are, prefixes included.
func parseSlide(data []byte) (slideXML, error) {
	var s slideXML
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var stack []string

	for {
		start := decoder.InputOffset()
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if len(stack) == 1 {
				s.root = data[start:decoder.InputOffset()]
			}
			if t.Name.Local == "cNvPr" {
				if id, ok := attrInt(t, "id"); ok && id > s.maxID {
					s.maxID = id
				}
			}
			if len(stack) != 4 || stack[1] != "cSld" || stack[2] != "spTree" {
				continue
			}

			info, err := skipElement(decoder)
			if err != nil {
				return s, err
			}
			if info.maxID > s.maxID {
				s.maxID = info.maxID
			}
			raw := data[start:decoder.InputOffset()]
			switch t.Name.Local {
			case "nvGrpSpPr", "grpSpPr":
				s.group = append(s.group, raw...)
			case "sp":
				if s.placeholder == nil && info.placeholder && info.text {
					s.placeholder = raw
				}
			}
			stack = stack[:len(stack)-1]
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if s.root == nil {
		return s, fmt.Errorf("empty slide")
	}
	return s, nil
}

type elementInfo struct {
	placeholder bool
	text        bool
	maxID       int64
}

// skipElement consumes the rest of the current element.
func skipElement(decoder *xml.Decoder) (elementInfo, error) {
	var info elementInfo
	depth := 1
	for depth > 0 {
		token, err := decoder.RawToken()
		if err != nil {
			return info, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "ph":
				info.placeholder = true
			case "txBody":
				info.text = true
			case "cNvPr":
				if id, ok := attrInt(t, "id"); ok && id > info.maxID {
					info.maxID = id
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return info, nil
}

// pictureXML is a <p:pic> element showing the image of relationship rID.
func pictureXML(id int64, name, rID string, r Rect) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
		`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		id, escape(name), escape(rID), r.X, r.Y, r.W, r.H)
}
