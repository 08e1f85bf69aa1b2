package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

const (
	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type presentation struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// Open loads the pptx file at name. The file is read fully into memory and
// closed before Open returns.
func Open(name string) (*Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// Read loads a pptx package from r.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pptx: %w", err)
	}
	return Parse(data)
}

// Parse loads a pptx package held in data. The returned document keeps a
// reference to data; callers must not modify it afterwards.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	mainPart, err := officeDocumentPart(parts)
	if err != nil {
		return nil, err
	}
	slideParts, err := slideOrder(parts, mainPart)
	if err != nil {
		return nil, err
	}

	doc := &Document{files: zr.File}
	for _, name := range slideParts {
		raw, err := readPart(parts, name)
		if err != nil {
			return nil, err
		}
		slide, err := parseSlide(name, raw)
		if err != nil {
			return nil, err
		}
		doc.Slides = append(doc.Slides, slide)
	}
	return doc, nil
}

func officeDocumentPart(parts map[string]*zip.File) (string, error) {
	rels, err := readRels(parts, "_rels/.rels")
	if err != nil {
		return "", err
	}
	for _, rel := range rels.Rels {
		if rel.Type == relTypeOfficeDocument {
			return resolveTarget("", rel.Target), nil
		}
	}
	return "", fmt.Errorf("%w: no officeDocument relationship", ErrInvalidDocument)
}

// slideOrder returns the slide part names in the order of p:sldIdLst.
func slideOrder(parts map[string]*zip.File, mainPart string) ([]string, error) {
	raw, err := readPart(parts, mainPart)
	if err != nil {
		return nil, err
	}
	var pres presentation
	if err := xml.Unmarshal(raw, &pres); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, mainPart, err)
	}

	dir, base := path.Split(mainPart)
	rels, err := readRels(parts, dir+"_rels/"+base+".rels")
	if err != nil {
		return nil, err
	}
	byID := make(map[string]relationship, len(rels.Rels))
	for _, rel := range rels.Rels {
		byID[rel.ID] = rel
	}

	names := make([]string, 0, len(pres.SlideIDs))
	for _, id := range pres.SlideIDs {
		rel, ok := byID[id.RelID]
		if !ok || rel.Type != relTypeSlide {
			return nil, fmt.Errorf("%w: slide relationship %q missing", ErrInvalidDocument, id.RelID)
		}
		names = append(names, resolveTarget(dir, rel.Target))
	}
	return names, nil
}

func readRels(parts map[string]*zip.File, name string) (*relationships, error) {
	raw, err := readPart(parts, name)
	if err != nil {
		return nil, err
	}
	var rels relationships
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}
	return &rels, nil
}

func readPart(parts map[string]*zip.File, name string) ([]byte, error) {
	f, ok := parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing part %s", ErrInvalidDocument, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, name, err)
	}
	return raw, nil
}

// resolveTarget resolves a relationship target against the directory of the
// source part. Absolute targets are package-rooted.
func resolveTarget(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(dir, target))
}
