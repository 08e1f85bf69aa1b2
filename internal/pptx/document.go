// Package pptx reads and writes PowerPoint (.pptx) packages as a tree of
// slides, shapes, paragraphs and runs.
//
// The tree is an editable view over the original package: only run text can
// change, and serialization rewrites nothing but the a:t element of runs
// whose text was changed. Every other byte of every part is preserved, so run
// formatting (a:rPr), layouts, media and relationships survive untouched.
package pptx

import (
	"archive/zip"
	"errors"
	"strings"
)

// ErrInvalidDocument is returned when a file is not a readable pptx package.
var ErrInvalidDocument = errors.New("invalid pptx document")

// Document is an in-memory presentation. A Document is owned by a single
// caller and is not safe for concurrent mutation.
type Document struct {
	Slides []*Slide

	files []*zip.File
}

// Slide is one slide part of the package, in presentation order.
type Slide struct {
	// Part is the package path of the slide XML, e.g. "ppt/slides/slide1.xml".
	Part   string
	Shapes []*Shape

	raw  []byte
	runs []*Run
}

// Shape is a p:sp element. Shapes nested in group shapes are listed in
// document order alongside top-level shapes.
type Shape struct {
	ID   string
	Name string
	// Placeholder is the p:ph type ("title", "body", ...). It is "body" for a
	// p:ph element without a type attribute and empty when the shape is not a
	// placeholder.
	Placeholder string
	// TextFrame is nil when the shape has no p:txBody.
	TextFrame *TextFrame
}

// TextFrame is the p:txBody of a shape.
type TextFrame struct {
	Paragraphs []*Paragraph
}

// Paragraph is an a:p element.
type Paragraph struct {
	Runs []*Run
}

// Run is an a:r element: the smallest unit with its own text and formatting.
type Run struct {
	Format RunFormat

	text    string
	changed bool

	// Byte offsets into the slide part: the a:t element spans
	// [elemStart, elemEnd) and its start tag spans [elemStart, textStart).
	elemStart int
	textStart int
	elemEnd   int
	tagName   string
}

// RunFormat is the character formatting of a run as stored in its a:rPr.
type RunFormat struct {
	// Raw is the a:rPr element exactly as it appears in the package, or empty
	// when the run has none.
	Raw    string
	Lang   string
	Size   int // hundredths of a point
	Bold   bool
	Italic bool
	Font   string // a:latin typeface
	Color  string // srgbClr or schemeClr value
}

// Text returns the run's current text.
func (r *Run) Text() string { return r.text }

// SetText replaces the run's text. Setting the text it already holds is a
// no-op and does not mark the run as changed.
func (r *Run) SetText(s string) {
	if s == r.text {
		return
	}
	r.text = s
	r.changed = true
}

// Changed reports whether SetText modified the run since it was loaded.
func (r *Run) Changed() bool { return r.changed }

// Text returns the concatenated run text of the paragraph.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.text)
	}
	return b.String()
}

// Runs returns every run of the slide in document order.
func (s *Slide) Runs() []*Run { return s.runs }

// Changed reports whether any run of the slide was modified.
func (s *Slide) Changed() bool {
	for _, r := range s.runs {
		if r.changed {
			return true
		}
	}
	return false
}

// Runs returns every run of the document in document order.
func (d *Document) Runs() []*Run {
	var out []*Run
	for _, s := range d.Slides {
		out = append(out, s.runs...)
	}
	return out
}

// Text returns the shape's paragraphs joined by newlines, or "" when the
// shape has no text frame.
func (s *Shape) Text() string {
	if s.TextFrame == nil {
		return ""
	}
	lines := make([]string, 0, len(s.TextFrame.Paragraphs))
	for _, p := range s.TextFrame.Paragraphs {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}
