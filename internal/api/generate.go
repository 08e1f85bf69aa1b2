package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/llm"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

type generateHandler struct {
	svc *content.Service
}

// Carousel generates slide content and returns the merged presentation.
// POST /api/v1/carousels
func (h *generateHandler) Carousel(w http.ResponseWriter, r *http.Request) {
	var req content.CarouselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	d, err := h.svc.Carousel(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDeck(w, d)
}

// Merge merges caller-supplied slides into a template without generating.
// POST /api/v1/carousels/merge
func (h *generateHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req content.MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	d, err := h.svc.Merge(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDeck(w, d)
}

// Post generates a LinkedIn post.
// POST /api/v1/posts
func (h *generateHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req llm.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	post, err := h.svc.Post(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: post, Filename: content.Filename(req.Topic, "linkedin_post.txt")})
}

// Ideas generates content ideas.
// POST /api/v1/ideas
func (h *generateHandler) Ideas(w http.ResponseWriter, r *http.Request) {
	var req llm.IdeasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	ideas, err := h.svc.Ideas(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: ideas, Filename: content.Filename(req.Topic, "content_ideas.txt")})
}

// Images generates captioned images.
// POST /api/v1/images
func (h *generateHandler) Images(w http.ResponseWriter, r *http.Request) {
	var req llm.ImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	images, err := h.svc.Images(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ImagesResponse{Images: images})
}

// writeDeck sends a merged presentation as an attachment. Merge mismatches
// are reported in headers.
func writeDeck(w http.ResponseWriter, d *content.Deck) {
	h := w.Header()
	h.Set("Content-Type", pptxContentType)
	h.Set("Content-Disposition", `attachment; filename="`+d.Filename+`"`)
	h.Set("Content-Length", strconv.Itoa(len(d.Data)))
	h.Set("X-Deck-Id", d.ID)
	h.Set("X-Deck-Template", d.Template)
	h.Set("X-Deck-Slides", strconv.Itoa(len(d.Records)))
	h.Set("X-Unresolved-Placeholders", strconv.Itoa(len(d.Unresolved)))
	h.Set("X-Unused-Slides", strconv.Itoa(len(d.Unused)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Data)
}
