// Package content orchestrates generation: it resolves a template, asks the
// generator for content, merges it and serializes the result.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/llm"
	"github.com/vamg1994/content-creation-vam/internal/logging"
	"github.com/vamg1994/content-creation-vam/internal/metrics"
	"github.com/vamg1994/content-creation-vam/internal/pptx"
	"github.com/vamg1994/content-creation-vam/internal/templates"
)

// ErrGenerationDisabled is returned by generating operations when no
// provider is configured.
var ErrGenerationDisabled = errors.New("content generation is disabled (set VAM_LLM_PROVIDER)")

// Options tunes how many slides are requested for a carousel.
type Options struct {
	// ReservedSlides is the number of leading template slides that are not
	// content slides (cover, intro).
	ReservedSlides int
	// DefaultSlides is requested when the template gives no hint.
	DefaultSlides int
}

// Service is safe for concurrent use.
type Service struct {
	registry *templates.Registry
	gen      llm.Generator
	opts     Options
}

// New returns a Service. gen may be nil, in which case only merging and
// template operations are available.
func New(registry *templates.Registry, gen llm.Generator, opts Options) *Service {
	if opts.DefaultSlides <= 0 {
		opts.DefaultSlides = llm.DefaultSlides
	}
	if opts.ReservedSlides < 0 {
		opts.ReservedSlides = 0
	}
	return &Service{registry: registry, gen: gen, opts: opts}
}

// Registry returns the template registry.
func (s *Service) Registry() *templates.Registry { return s.registry }

// GenerationEnabled reports whether a provider is configured.
func (s *Service) GenerationEnabled() bool { return s.gen != nil }

// TemplateRef selects a template: a catalog name, an uploaded template id or
// a local file. An empty ref selects the first available template. Path is
// never decoded from requests.
type TemplateRef struct {
	Name     string `json:"template,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
	Path     string `json:"-"`
}

type CarouselRequest struct {
	llm.CarouselRequest
	TemplateRef
}

type MergeRequest struct {
	TemplateRef
	Topic   string             `json:"topic"`
	Records []deck.SlideRecord `json:"slides"`
}

// Deck is a merged presentation ready for download.
type Deck struct {
	ID       string
	Template string
	Filename string
	Data     []byte
	Records  []deck.SlideRecord
	// Unresolved lists tokens left in the output; Unused lists indexes of
	// records that had no token in the template.
	Unresolved []deck.PlaceholderKey
	Unused     []int
}

// Carousel generates slide content for req.Topic and merges it into the
// selected template.
func (s *Service) Carousel(ctx context.Context, req CarouselRequest) (*Deck, error) {
	if s.gen == nil {
		return nil, ErrGenerationDisabled
	}
	if strings.TrimSpace(req.Topic) == "" {
		return nil, llm.ErrEmptyTopic
	}
	doc, name, err := s.template(req.TemplateRef)
	if err != nil {
		return nil, err
	}

	genReq := req.CarouselRequest
	genReq.Slides = SlidesFor(doc, req.Slides, s.opts.ReservedSlides, s.opts.DefaultSlides)
	records, err := observe("carousel", func() ([]deck.SlideRecord, error) {
		return s.gen.Carousel(ctx, genReq)
	})
	if err != nil {
		return nil, fmt.Errorf("generate carousel content: %w", err)
	}
	return s.merge(ctx, doc, name, req.Topic, records)
}

// Merge merges caller-supplied records into the selected template. Records
// are cleaned first; nothing is generated.
func (s *Service) Merge(ctx context.Context, req MergeRequest) (*Deck, error) {
	records := deck.Clean(req.Records)
	if len(records) == 0 {
		return nil, deck.ErrNoContent
	}
	doc, name, err := s.template(req.TemplateRef)
	if err != nil {
		return nil, err
	}
	return s.merge(ctx, doc, name, req.Topic, records)
}

func (s *Service) template(ref TemplateRef) (*pptx.Document, string, error) {
	if ref.Path != "" {
		doc, err := s.registry.ResolvePath(ref.Path)
		return doc, ref.Path, err
	}
	if ref.UploadID != "" {
		doc, err := s.registry.ResolveUpload(ref.UploadID)
		return doc, ref.UploadID, err
	}
	name := ref.Name
	if name == "" {
		name = s.registry.ListAvailable()[0]
	}
	doc, err := s.registry.Resolve(name)
	return doc, name, err
}

func (s *Service) merge(ctx context.Context, doc *pptx.Document, name, topic string, records []deck.SlideRecord) (*Deck, error) {
	start := time.Now()
	res, err := deck.Merge(doc, records)
	if err != nil {
		metrics.MergesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	data, err := res.Document.Bytes()
	if err != nil {
		metrics.MergesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("serialize presentation: %w", err)
	}
	metrics.MergeDuration.Observe(time.Since(start).Seconds())
	metrics.MergesTotal.WithLabelValues("ok").Inc()
	metrics.UnresolvedPlaceholdersTotal.Add(float64(len(res.Unresolved)))

	d := &Deck{
		ID:         uuid.NewString(),
		Template:   name,
		Filename:   Filename(topic, "presentation.pptx"),
		Data:       data,
		Records:    records,
		Unresolved: res.Unresolved,
		Unused:     res.Unused,
	}
	log := logging.FromContext(ctx)
	log.Info("merged presentation",
		"id", d.ID, "template", name, "slides", len(records), "runs_changed", res.RunsChanged, "bytes", len(data))
	if len(res.Unresolved) > 0 || len(res.Unused) > 0 {
		log.Warn("template and content do not match",
			"id", d.ID, "template", name, "unresolved", len(res.Unresolved), "unused", len(res.Unused))
	}
	return d, nil
}

// Post generates a LinkedIn post.
func (s *Service) Post(ctx context.Context, req llm.PostRequest) (string, error) {
	if s.gen == nil {
		return "", ErrGenerationDisabled
	}
	return observe("post", func() (string, error) { return s.gen.Post(ctx, req) })
}

// Ideas generates a list of content ideas.
func (s *Service) Ideas(ctx context.Context, req llm.IdeasRequest) (string, error) {
	if s.gen == nil {
		return "", ErrGenerationDisabled
	}
	return observe("ideas", func() (string, error) { return s.gen.Ideas(ctx, req) })
}

// CaptionedImage is a generated image with its caption.
type CaptionedImage struct {
	llm.Image `yaml:",inline"`
	Caption string `json:"caption"`
}

// Images generates images for req.Topic and a caption for each.
func (s *Service) Images(ctx context.Context, req llm.ImagesRequest) ([]CaptionedImage, error) {
	if s.gen == nil {
		return nil, ErrGenerationDisabled
	}
	images, err := observe("images", func() ([]llm.Image, error) { return s.gen.Images(ctx, req) })
	if err != nil {
		return nil, err
	}
	out := make([]CaptionedImage, 0, len(images))
	for _, img := range images {
		caption, err := observe("caption", func() (string, error) { return s.gen.Caption(ctx, img.Description) })
		if err != nil {
			return nil, fmt.Errorf("caption image: %w", err)
		}
		out = append(out, CaptionedImage{Image: img, Caption: caption})
	}
	return out, nil
}

func observe[T any](kind string, call func() (T, error)) (T, error) {
	start := time.Now()
	out, err := call()
	metrics.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.GenerationsTotal.WithLabelValues(kind, status).Inc()
	return out, err
}

// SlidesFor decides how many slides to request for doc: requested if set,
// else the number of {{Title<N>}} tokens, else the slides after the
// reserved ones, else fallback.
func SlidesFor(doc *pptx.Document, requested, reserved, fallback int) int {
	if requested > 0 {
		return requested
	}
	if n := deck.TitleSlots(doc); n > 0 {
		return n
	}
	if n := deck.ContentSlots(doc, reserved); n > 0 {
		return n
	}
	return fallback
}

// Filename builds a download name from a topic: spaces and path separators
// become underscores, e.g. "AWS vs Azure" gives "AWS_vs_Azure_presentation.pptx".
func Filename(topic, suffix string) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '"', '\n', '\r', '\t':
			return '_'
		}
		return r
	}, strings.TrimSpace(topic))
	if base == "" {
		base = "content"
	}
	return base + "_" + suffix
}
