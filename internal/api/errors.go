package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/llm"
	"github.com/vamg1994/content-creation-vam/internal/logging"
	"github.com/vamg1994/content-creation-vam/internal/templates"
)

type errorBody struct {
	Error       string   `json:"error"`
	Code        string   `json:"code"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps errors from the content service to a status and code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classifyError(err)
	if status >= 500 {
		logging.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		logging.FromContext(r.Context()).Info("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}

	body := errorBody{Error: msg, Code: code}
	var terr *templates.Error
	if errors.As(err, &terr) {
		body.Suggestions = terr.Suggestions
	}
	writeJSON(w, status, body)
}

func classifyError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, llm.ErrEmptyTopic),
		errors.Is(err, llm.ErrInvalidLanguage),
		errors.Is(err, llm.ErrInvalidCarousel),
		errors.Is(err, deck.ErrNoContent):
		return http.StatusBadRequest, "BAD_REQUEST", err.Error()
	case errors.Is(err, templates.ErrInvalidName):
		return http.StatusBadRequest, "INVALID_TEMPLATE_NAME", err.Error()
	case errors.Is(err, templates.ErrNotFound):
		return http.StatusNotFound, "TEMPLATE_NOT_FOUND", err.Error()
	case errors.Is(err, templates.ErrCorrupt):
		return http.StatusUnprocessableEntity, "TEMPLATE_CORRUPT", err.Error()
	case errors.Is(err, content.ErrGenerationDisabled):
		return http.StatusServiceUnavailable, "LLM_NOT_CONFIGURED", "content generation is not configured"
	case errors.Is(err, llm.ErrUnsupported):
		return http.StatusNotImplemented, "NOT_SUPPORTED", err.Error()
	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", "provider rate limit reached, try again in a few minutes"
	case errors.Is(err, llm.ErrBilling):
		return http.StatusBadGateway, "PROVIDER_BILLING", "provider billing issue, check the account balance"
	case errors.Is(err, llm.ErrInvalidKey):
		return http.StatusBadGateway, "PROVIDER_INVALID_KEY", "provider rejected the API key"
	case errors.Is(err, llm.ErrNoSlides),
		errors.Is(err, llm.ErrInvalidResponse),
		errors.Is(err, llm.ErrEmptyResponse),
		errors.Is(err, llm.ErrUnavailable):
		return http.StatusBadGateway, "LLM_ERROR", err.Error()
	}
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return http.StatusBadGateway, "LLM_ERROR", perr.Error()
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}
