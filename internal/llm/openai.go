package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vamg1994/content-creation-vam/internal/config"
)

const (
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o"
	defaultOpenAIImageModel = "dall-e-3"
	openAIImageSize         = "1024x1024"
)

type openaiClient struct {
	apiKey     string
	model      string
	imageModel string
	baseURL    string
	client     *http.Client
}

func newOpenAIClient(cfg *config.Config, client *http.Client) *openaiClient {
	model := cfg.LLM.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	imageModel := cfg.LLM.ImageModel
	if imageModel == "" {
		imageModel = defaultOpenAIImageModel
	}
	baseURL := cfg.LLM.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &openaiClient{
		apiKey:     cfg.LLM.APIKey,
		model:      model,
		imageModel: imageModel,
		baseURL:    baseURL,
		client:     client,
	}
}

type openaiRequest struct {
	Model          string          `json:"model"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float64         `json:"temperature"`
	Messages       []openaiMessage `json:"messages"`
	ResponseFormat *openaiFormat   `json:"response_format,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiFormat struct {
	Type string `json:"type"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openaiImageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type openaiImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (o *openaiClient) chat(ctx context.Context, req chatRequest) (string, error) {
	body := openaiRequest{
		Model:       o.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openaiMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.JSON {
		body.ResponseFormat = &openaiFormat{Type: "json_object"}
	}

	var apiResp openaiResponse
	if err := o.post(ctx, "/v1/chat/completions", body, &apiResp); err != nil {
		return "", err
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: %w", ErrEmptyResponse)
	}
	return apiResp.Choices[0].Message.Content, nil
}

func (o *openaiClient) image(ctx context.Context, prompt string) (string, error) {
	body := openaiImageRequest{
		Model:   o.imageModel,
		Prompt:  prompt,
		N:       1,
		Size:    openAIImageSize,
		Quality: "standard",
		Style:   "natural",
	}
	var apiResp openaiImageResponse
	if err := o.post(ctx, "/v1/images/generations", body, &apiResp); err != nil {
		return "", err
	}
	if len(apiResp.Data) == 0 {
		return "", nil
	}
	return apiResp.Data[0].URL, nil
}

func (o *openaiClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newProviderError("openai", resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
