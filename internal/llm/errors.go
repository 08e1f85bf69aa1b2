package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrEmptyTopic      = errors.New("topic is required")
	ErrUnsupported     = errors.New("not supported by this provider")
	ErrEmptyResponse   = errors.New("empty response from provider")
	ErrInvalidResponse = errors.New("invalid response from provider")
	ErrNoSlides        = errors.New("no valid slides were generated")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrInvalidCarousel = errors.New("unsupported carousel type")
	ErrRateLimited     = errors.New("provider rate limit reached")
	ErrBilling         = errors.New("provider billing or quota issue")
	ErrInvalidKey      = errors.New("invalid provider API key")
	ErrUnavailable     = errors.New("provider unavailable")
)

// ProviderError is a non-200 answer from the provider API.
type ProviderError struct {
	Provider   string
	StatusCode int
	Type       string
	Message    string
	// Kind is one of ErrRateLimited, ErrBilling, ErrInvalidKey,
	// ErrUnavailable, or nil when the failure is not classified.
	Kind error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s API returned %d", e.Provider, e.StatusCode)
	if e.Kind != nil {
		msg += " (" + e.Kind.Error() + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Kind }

// apiErrorBody is the error envelope shared by the OpenAI and Anthropic APIs.
type apiErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newProviderError(provider string, status int, body []byte) *ProviderError {
	e := &ProviderError{Provider: provider, StatusCode: status}
	var env apiErrorBody
	if json.Unmarshal(body, &env) == nil && env.Error.Message != "" {
		e.Type = env.Error.Type
		e.Message = env.Error.Message
		if code, ok := env.Error.Code.(string); ok && e.Type == "" {
			e.Type = code
		}
	} else {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 512 {
			e.Message = e.Message[:512]
		}
	}
	e.Kind = classify(status, e.Type+" "+e.Message)
	return e
}

func classify(status int, detail string) error {
	detail = strings.ToLower(detail)
	switch {
	case strings.Contains(detail, "insufficient_quota"), strings.Contains(detail, "billing"),
		strings.Contains(detail, "credit balance"), status == http.StatusPaymentRequired:
		return ErrBilling
	case status == http.StatusTooManyRequests, strings.Contains(detail, "rate limit"), strings.Contains(detail, "rate_limit"):
		return ErrRateLimited
	case status == http.StatusUnauthorized, strings.Contains(detail, "invalid api key"),
		strings.Contains(detail, "invalid_api_key"), strings.Contains(detail, "authentication_error"):
		return ErrInvalidKey
	case status >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
