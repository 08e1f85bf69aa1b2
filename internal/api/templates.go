package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/vamg1994/content-creation-vam/internal/content"
)

type templatesHandler struct {
	svc       *content.Service
	maxUpload int64
}

// List returns the available template display names.
// GET /api/v1/templates
func (h *templatesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TemplateListResponse{Templates: h.svc.Registry().ListAvailable()})
}

// Init synthesizes missing default templates and reports per-name status.
// POST /api/v1/templates/init
func (h *templatesHandler) Init(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.Registry().InitializeDefaults()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := TemplateInitResponse{Statuses: make([]TemplateStatusResponse, 0, len(statuses))}
	for _, s := range statuses {
		sr := TemplateStatusResponse{Name: s.Name, State: s.State.String(), Message: s.String()}
		if s.Err != nil {
			sr.Error = s.Err.Error()
		}
		resp.Statuses = append(resp.Statuses, sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Upload stores a custom .pptx template. The file is sent as the multipart
// field "file".
// POST /api/v1/templates/upload
func (h *templatesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "template file too large", "TOO_LARGE")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required", "BAD_REQUEST")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file", "BAD_REQUEST")
		return
	}
	id, err := h.svc.Registry().SaveUpload(data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{UploadID: id})
}
