package api

import "github.com/vamg1994/content-creation-vam/internal/content"

// TemplateListResponse is the response for GET /api/v1/templates.
type TemplateListResponse struct {
	Templates []string `json:"templates"`
}

// TemplateStatusResponse reports one default template after initialization.
type TemplateStatusResponse struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// TemplateInitResponse is the response for POST /api/v1/templates/init.
type TemplateInitResponse struct {
	Statuses []TemplateStatusResponse `json:"statuses"`
}

// UploadResponse is the response for POST /api/v1/templates/upload.
type UploadResponse struct {
	UploadID string `json:"upload_id"`
}

// TextResponse carries generated text and a suggested download name.
type TextResponse struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// ImagesResponse is the response for POST /api/v1/images.
type ImagesResponse struct {
	Images []content.CaptionedImage `json:"images"`
}
