package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/logging"
)

const (
	maxTokens        = 2000
	maxCaptionTokens = 50
	temperature      = 0.7
)

type chatRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	// JSON asks for a single JSON object as the answer.
	JSON bool
}

type chatClient interface {
	chat(ctx context.Context, req chatRequest) (string, error)
}

type imageClient interface {
	image(ctx context.Context, prompt string) (string, error)
}

// generator implements Generator on top of a provider's chat and image
// endpoints. images is nil for providers without image generation.
type generator struct {
	provider string
	chat     chatClient
	images   imageClient
}

func checkLanguage(l Language) (Language, error) {
	if l == "" {
		return English, nil
	}
	if !slices.Contains(Languages, l) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, l)
	}
	return l, nil
}

func (g *generator) Carousel(ctx context.Context, req CarouselRequest) ([]deck.SlideRecord, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrEmptyTopic
	}
	lang, err := checkLanguage(req.Language)
	if err != nil {
		return nil, err
	}
	if req.Type == "" {
		req.Type = BulletPoints
	}
	format, ok := carouselFormats[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCarousel, req.Type)
	}
	if req.Slides <= 0 {
		req.Slides = DefaultSlides
	}

	system, user, err := renderChat("carousel", PromptData{
		Topic:    req.Topic,
		Language: lang,
		Slides:   req.Slides,
		Format:   format,
		Author:   req.Author,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	logging.FromContext(ctx).Info("generating carousel content",
		"provider", g.provider, "topic", req.Topic, "language", lang, "slides", req.Slides, "type", req.Type)
	content, err := g.chat.chat(ctx, chatRequest{
		System:      system,
		User:        user,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	return parseSlides(ctx, content)
}

func (g *generator) Post(ctx context.Context, req PostRequest) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", ErrEmptyTopic
	}
	lang, err := checkLanguage(req.Language)
	if err != nil {
		return "", err
	}
	system, user, err := renderChat("post", PromptData{
		Topic:       req.Topic,
		Language:    lang,
		Inspiration: strings.TrimSpace(req.Inspiration),
		Author:      req.Author,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	logging.FromContext(ctx).Info("generating LinkedIn post",
		"provider", g.provider, "topic", req.Topic, "language", lang, "inspired", req.Inspiration != "")
	return g.text(ctx, chatRequest{System: system, User: user, MaxTokens: maxTokens, Temperature: temperature})
}

func (g *generator) Ideas(ctx context.Context, req IdeasRequest) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", ErrEmptyTopic
	}
	lang, err := checkLanguage(req.Language)
	if err != nil {
		return "", err
	}
	system, user, err := renderChat("ideas", PromptData{Topic: req.Topic, Language: lang, Author: req.Author})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	logging.FromContext(ctx).Info("generating content ideas", "provider", g.provider, "topic", req.Topic, "language", lang)
	return g.text(ctx, chatRequest{System: system, User: user, MaxTokens: maxTokens, Temperature: temperature})
}

func (g *generator) Caption(ctx context.Context, description string) (string, error) {
	system, user, err := renderChat("caption", PromptData{Description: description})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return g.text(ctx, chatRequest{System: system, User: user, MaxTokens: maxCaptionTokens, Temperature: temperature})
}

// Images generates req.Count images one request at a time. Empty answers are
// skipped; it fails only when no image was produced.
func (g *generator) Images(ctx context.Context, req ImagesRequest) ([]Image, error) {
	if g.images == nil {
		return nil, fmt.Errorf("image generation: %w", ErrUnsupported)
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, ErrEmptyTopic
	}
	n := req.Count
	if n <= 0 {
		n = DefaultImageCount
	}
	n = min(n, MaxImageCount)

	prompt, err := renderPrompt("image.user", PromptData{Topic: req.Topic})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	log := logging.FromContext(ctx)
	log.Info("generating images", "provider", g.provider, "topic", req.Topic, "count", n)
	var images []Image
	for i := 0; i < n; i++ {
		url, err := g.images.image(ctx, prompt)
		if err != nil {
			return nil, err
		}
		if url == "" {
			log.Warn("empty image response", "index", i)
			continue
		}
		images = append(images, Image{URL: url, Description: "Professional visualization of " + req.Topic})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images were generated: %w", ErrEmptyResponse)
	}
	return images, nil
}

func (g *generator) text(ctx context.Context, req chatRequest) (string, error) {
	out, err := g.chat.chat(ctx, req)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// parseSlides decodes {"slides":[{"title":...,"points":[...]}]}. Slides that
// are not objects, or lack a title or points, are skipped; the rest are
// cleaned with deck.Clean.
func parseSlides(ctx context.Context, content string) ([]deck.SlideRecord, error) {
	var payload struct {
		Slides []json.RawMessage `json:"slides"`
	}
	if err := json.Unmarshal(extractJSON(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(payload.Slides) == 0 {
		return nil, fmt.Errorf("%w: response has no slides", ErrNoSlides)
	}

	log := logging.FromContext(ctx)
	var records []deck.SlideRecord
	for i, raw := range payload.Slides {
		var rec deck.SlideRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Warn("skipping invalid slide", "index", i, "err", err)
			continue
		}
		if strings.TrimSpace(rec.Title) == "" || len(rec.Points) == 0 {
			log.Warn("skipping slide without title or points", "index", i)
			continue
		}
		records = append(records, rec)
	}
	records = deck.Clean(records)
	if len(records) == 0 {
		return nil, ErrNoSlides
	}
	log.Info("generated slides", "count", len(records))
	return records, nil
}

// extractJSON strips Markdown code fences and any prose around the outermost
// JSON object.
func extractJSON(s string) []byte {
	b := []byte(strings.TrimSpace(s))
	start := bytes.IndexByte(b, '{')
	end := bytes.LastIndexByte(b, '}')
	if start < 0 || end < start {
		return b
	}
	return b[start : end+1]
}
