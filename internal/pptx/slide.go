package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseSlide builds the shape tree of one slide part. It walks raw tokens so
// that element prefixes are kept and byte offsets stay exact; matching is on
// local names because presentationml and drawingml never reuse them for
// different roles inside a p:sp.
func parseSlide(part string, raw []byte) (*Slide, error) {
	s := &Slide{Part: part, raw: raw}
	d := xml.NewDecoder(bytes.NewReader(raw))

	var (
		shape  *Shape
		frame  *TextFrame
		para   *Paragraph
		run    *Run
		inRPr  bool
		inText bool
		rEmpty bool
		rPrAt  int
		depth  int
		text   strings.Builder
	)

	for {
		start := int(d.InputOffset())
		tok, err := d.RawToken()
		if err == io.EOF {
			if depth != 0 {
				return nil, fmt.Errorf("%w: %s: unexpected EOF", ErrInvalidDocument, part)
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, part, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "sp":
				shape = &Shape{}
				s.Shapes = append(s.Shapes, shape)
			case "cNvPr":
				if shape != nil && frame == nil && shape.ID == "" {
					shape.ID = attr(t, "id")
					shape.Name = attr(t, "name")
				}
			case "ph":
				if shape != nil && frame == nil {
					shape.Placeholder = attr(t, "type")
					if shape.Placeholder == "" {
						shape.Placeholder = "body"
					}
				}
			case "txBody":
				if shape != nil && frame == nil {
					frame = &TextFrame{}
					shape.TextFrame = frame
				}
			case "p":
				if frame != nil && para == nil {
					para = &Paragraph{}
					frame.Paragraphs = append(frame.Paragraphs, para)
				}
			case "r":
				if para != nil && run == nil {
					run = &Run{elemStart: -1, elemEnd: -1, tagName: qualify(t.Name.Space, "t")}
					rEmpty = selfClosed(raw, int(d.InputOffset()))
					para.Runs = append(para.Runs, run)
					s.runs = append(s.runs, run)
				}
			case "rPr":
				if run != nil && !inText && run.Format.Raw == "" {
					inRPr = true
					rPrAt = start
					run.Format.Lang = attr(t, "lang")
					run.Format.Size, _ = strconv.Atoi(attr(t, "sz"))
					run.Format.Bold = boolAttr(attr(t, "b"))
					run.Format.Italic = boolAttr(attr(t, "i"))
				}
			case "latin":
				if inRPr {
					run.Format.Font = attr(t, "typeface")
				}
			case "srgbClr", "schemeClr":
				if inRPr && run.Format.Color == "" {
					run.Format.Color = attr(t, "val")
				}
			case "t":
				if run != nil && run.elemStart < 0 {
					inText = true
					text.Reset()
					run.elemStart = start
					run.textStart = int(d.InputOffset())
					run.tagName = qualify(t.Name.Space, t.Name.Local)
				}
			}

		case xml.CharData:
			if inText {
				text.Write(t)
			}

		case xml.EndElement:
			depth--
			switch t.Name.Local {
			case "t":
				if inText {
					inText = false
					run.text = text.String()
					run.elemEnd = int(d.InputOffset())
				}
			case "rPr":
				if inRPr {
					inRPr = false
					run.Format.Raw = string(raw[rPrAt:d.InputOffset()])
				}
			case "r":
				if run != nil && run.elemStart < 0 && !rEmpty {
					// No a:t yet: new text goes right before </a:r>.
					run.elemStart, run.textStart, run.elemEnd = start, start, start
				}
				run = nil
			case "p":
				para = nil
			case "txBody":
				frame = nil
			case "sp":
				shape = nil
			}
		}
	}
	return s, nil
}

// render returns the slide part with the a:t element of every changed run
// rewritten. Unchanged slides are returned as loaded.
func (s *Slide) render() ([]byte, error) {
	if !s.Changed() {
		return s.raw, nil
	}

	var buf bytes.Buffer
	buf.Grow(len(s.raw))
	cursor := 0
	for _, r := range s.runs {
		if !r.changed {
			continue
		}
		if r.elemStart < 0 {
			return nil, fmt.Errorf("%s: run cannot hold text", s.Part)
		}
		buf.Write(s.raw[cursor:r.elemStart])
		buf.WriteString(r.openTag(s.raw))
		if err := xml.EscapeText(&buf, []byte(r.text)); err != nil {
			return nil, err
		}
		buf.WriteString("</" + r.tagName + ">")
		cursor = r.elemEnd
	}
	buf.Write(s.raw[cursor:])
	return buf.Bytes(), nil
}

// openTag returns the run's a:t start tag, opened up if it was self-closing
// and synthesized if the run had no a:t at all.
func (r *Run) openTag(raw []byte) string {
	if r.textStart == r.elemStart {
		return "<" + r.tagName + ">"
	}
	tag := string(raw[r.elemStart:r.textStart])
	if strings.HasSuffix(tag, "/>") {
		tag = strings.TrimRight(strings.TrimSuffix(tag, "/>"), " \t\r\n") + ">"
	}
	return tag
}

func selfClosed(raw []byte, end int) bool {
	return end >= 2 && string(raw[end-2:end]) == "/>"
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func boolAttr(v string) bool {
	return v == "1" || v == "true"
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
