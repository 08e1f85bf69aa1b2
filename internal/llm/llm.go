// Package llm generates marketing content through a text/image provider.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/vamg1994/content-creation-vam/internal/config"
	"github.com/vamg1994/content-creation-vam/internal/deck"
)

// Language selects the language and dialect of generated text.
type Language string

const (
	English         Language = "English"
	SpanishHonduras Language = "Spanish (Honduras)"
)

// Languages lists the supported languages.
var Languages = []Language{English, SpanishHonduras}

// CarouselType selects how each carousel slide's body is structured.
type CarouselType string

const (
	BulletPoints        CarouselType = "3-4 bullet points"
	TwoParagraphs       CarouselType = "2 Paragraphs"
	ParagraphAndBullets CarouselType = "1 Paragraph + 3-4 bullet points"
)

// CarouselTypes lists the supported carousel types.
var CarouselTypes = []CarouselType{BulletPoints, TwoParagraphs, ParagraphAndBullets}

const (
	DefaultSlides     = 10
	DefaultImageCount = 3
	MaxImageCount     = 10
)

// Author describes who the content is written for and by. Every field is
// optional.
type Author struct {
	Experience   string `json:"experience,omitempty" yaml:"experience,omitempty"`
	Achievements string `json:"achievements,omitempty" yaml:"achievements,omitempty"`
	Interests    string `json:"interests,omitempty" yaml:"interests,omitempty"`
	Audience     string `json:"audience,omitempty" yaml:"audience,omitempty"`
}

// IsZero reports whether no field is set.
func (a Author) IsZero() bool {
	return strings.TrimSpace(a.Experience+a.Achievements+a.Interests+a.Audience) == ""
}

type CarouselRequest struct {
	Topic    string       `json:"topic"`
	Language Language     `json:"language,omitempty"`
	Slides   int          `json:"slides,omitempty"`
	Type     CarouselType `json:"type,omitempty"`
	Author   Author       `json:"author,omitzero"`
}

type PostRequest struct {
	Topic    string   `json:"topic"`
	Language Language `json:"language,omitempty"`
	// Inspiration is an existing post whose tone and structure to follow.
	Inspiration string `json:"inspiration,omitempty"`
	Author      Author `json:"author,omitzero"`
}

type IdeasRequest struct {
	Topic    string   `json:"topic"`
	Language Language `json:"language,omitempty"`
	Author   Author   `json:"author,omitzero"`
}

type ImagesRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count,omitempty"`
}

// Image is a generated image. URL is provider-hosted and short-lived.
type Image struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Generator produces content for a topic. Returned slices must not be
// modified; a CachedGenerator may hand the same value to several callers.
type Generator interface {
	Carousel(ctx context.Context, req CarouselRequest) ([]deck.SlideRecord, error)
	Post(ctx context.Context, req PostRequest) (string, error)
	Ideas(ctx context.Context, req IdeasRequest) (string, error)
	Images(ctx context.Context, req ImagesRequest) ([]Image, error)
	Caption(ctx context.Context, description string) (string, error)
}

// New creates a Generator based on the config. Returns nil when the provider
// is unset, meaning content generation is disabled.
func New(cfg *config.Config) (Generator, error) {
	client := &http.Client{Timeout: cfg.LLM.Timeout}
	switch cfg.LLM.Provider {
	case "":
		return nil, nil
	case "anthropic":
		return &generator{provider: "anthropic", chat: newAnthropicClient(cfg, client)}, nil
	case "openai", "openai-compatible":
		c := newOpenAIClient(cfg, client)
		return &generator{provider: "openai", chat: c, images: c}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
}
