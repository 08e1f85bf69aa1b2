package pptx

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed skeleton/*.tmpl
var skeletonFS embed.FS

var skeletonTemplates = template.Must(
	template.New("skeleton").
		Funcs(template.FuncMap{"xml": escapeXML}).
		ParseFS(skeletonFS, "skeleton/*.tmpl"),
)

// Default slide size: 10in x 7.5in.
const (
	DefaultWidth  int64 = 9144000
	DefaultHeight int64 = 6858000
)

// SkeletonSlide is the text of one title-and-content slide.
type SkeletonSlide struct {
	Title string
	Body  string
}

// Skeleton describes a minimal presentation: one title slide followed by a
// title-and-content slide per entry of Slides. Each text is written as a
// single run so it can be matched and replaced later.
type Skeleton struct {
	Title  string
	Slides []SkeletonSlide
	Width  int64
	Height int64
}

type skeletonSlide struct {
	SkeletonSlide
	Number int
	ID     int
	RelID  string
	Layout int
}

type skeletonData struct {
	Title  string
	Slides []skeletonSlide

	Width          int64
	Height         int64
	Margin         int64
	InnerWidth     int64
	TitleTop       int64
	TitleHeight    int64
	BodyTop        int64
	BodyHeight     int64
	CenterTitleTop int64
	SubtitleTop    int64
}

// Bytes renders the skeleton as a pptx package.
func (s Skeleton) Bytes() ([]byte, error) {
	data := s.data()

	type part struct {
		name, tmpl string
		data       any
	}
	parts := []part{
		{"[Content_Types].xml", "content_types.xml.tmpl", data},
		{"_rels/.rels", "package.rels.tmpl", data},
		{"ppt/presentation.xml", "presentation.xml.tmpl", data},
		{"ppt/_rels/presentation.xml.rels", "presentation.xml.rels.tmpl", data},
		{"ppt/slideMasters/slideMaster1.xml", "slideMaster1.xml.tmpl", data},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slideMaster1.xml.rels.tmpl", data},
		{"ppt/slideLayouts/slideLayout1.xml", "slideLayout1.xml.tmpl", data},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slideLayout.xml.rels.tmpl", data},
		{"ppt/slideLayouts/slideLayout2.xml", "slideLayout2.xml.tmpl", data},
		{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", "slideLayout.xml.rels.tmpl", data},
		{"ppt/theme/theme1.xml", "theme1.xml.tmpl", data},
	}
	for _, sl := range data.Slides {
		tmpl := "slide_content.xml.tmpl"
		if sl.Layout == 1 {
			tmpl = "slide_title.xml.tmpl"
		}
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", sl.Number), tmpl, sl},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", sl.Number), "slide.xml.rels.tmpl", sl},
		)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if err := skeletonTemplates.ExecuteTemplate(w, p.tmpl, p.data); err != nil {
			return nil, fmt.Errorf("render %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s Skeleton) data() skeletonData {
	w, h := s.Width, s.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	d := skeletonData{Title: s.Title, Width: w, Height: h}
	d.Margin = w / 20
	d.InnerWidth = w - 2*d.Margin
	d.TitleTop = h / 24
	d.TitleHeight = h / 6
	d.BodyTop = d.TitleTop + d.TitleHeight + h/48
	d.BodyHeight = h - d.BodyTop - h/12
	d.CenterTitleTop = h * 3 / 10
	d.SubtitleTop = d.CenterTitleTop + d.TitleHeight + h/24

	all := append([]SkeletonSlide{{Title: s.Title}}, s.Slides...)
	for i, sl := range all {
		layout := 2
		if i == 0 {
			layout = 1
		}
		d.Slides = append(d.Slides, skeletonSlide{
			SkeletonSlide: sl,
			Number:        i + 1,
			ID:            256 + i,
			RelID:         fmt.Sprintf("rId%d", i+3),
			Layout:        layout,
		})
	}
	return d
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
