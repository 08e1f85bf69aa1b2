package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteTo serializes the document as a pptx package. Parts are written in
// their original order; parts that did not change are copied without being
// recompressed.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	rendered := make(map[string][]byte)
	for _, s := range d.Slides {
		if !s.Changed() {
			continue
		}
		b, err := s.render()
		if err != nil {
			return 0, err
		}
		rendered[s.Part] = b
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, f := range d.files {
		b, ok := rendered[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return cw.n, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		part, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return cw.n, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := part.Write(b); err != nil {
			return cw.n, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Bytes returns the serialized package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document to name. The package is written to a temporary
// file in the same directory and renamed into place, so readers never see a
// partial file and concurrent writers resolve to the last rename.
func (d *Document) Save(name string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return WriteFile(name, data)
}

// WriteFile atomically replaces name with data.
func WriteFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
