package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vamg1994/content-creation-vam/internal/pptx"
)

const uploadsDir = "uploads"

// SaveUpload stores a caller-supplied template under <dir>/uploads/<id>.pptx
// and returns its id. data must parse as a presentation.
func (r *Registry) SaveUpload(data []byte) (string, error) {
	if _, err := pptx.Parse(data); err != nil {
		return "", &Error{Name: "upload", Err: fmt.Errorf("%w: %w", ErrCorrupt, err)}
	}
	dir := filepath.Join(r.dir, uploadsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	id := uuid.NewString()
	path := r.uploadPath(id)
	if err := pptx.WriteFile(path, data); err != nil {
		return "", &Error{Name: id, Path: path, Err: err}
	}
	r.logger.Info("stored uploaded template", "id", id, "bytes", len(data))
	return id, nil
}

// ResolveUpload loads a template stored by SaveUpload.
func (r *Registry) ResolveUpload(id string) (*pptx.Document, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, &Error{Name: id, Err: ErrInvalidName}
	}
	return r.load(id, r.uploadPath(u.String()))
}

func (r *Registry) uploadPath(id string) string {
	return filepath.Join(r.dir, uploadsDir, id+Ext)
}
