package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vamg1994/content-creation-vam/internal/config"
	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/llm"
	"github.com/vamg1994/content-creation-vam/internal/logging"
	"github.com/vamg1994/content-creation-vam/internal/templates"
)

// app holds what every command builds from config.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *templates.Registry
	service  *content.Service
}

// newApp loads config and wires the registry, generator and service. Logs go
// to stderr so command output on stdout stays clean.
func newApp(ctx context.Context) (*app, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ctx, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	registry := templates.New(cfg.Templates.Dir, templates.WithLogger(logger))

	gen, err := llm.New(cfg)
	if err != nil {
		return nil, ctx, err
	}
	if gen != nil {
		gen = llm.NewCachedGenerator(gen, cfg.Cache.TTL)
	}

	svc := content.New(registry, gen, content.Options{
		ReservedSlides: cfg.Templates.ReservedSlides,
		DefaultSlides:  cfg.Carousel.Slides,
	})
	return &app{cfg: cfg, logger: logger, registry: registry, service: svc}, logging.WithLogger(ctx, logger), nil
}

// requireGeneration fails early with a hint when no provider is configured.
func (a *app) requireGeneration() error {
	if !a.service.GenerationEnabled() {
		return fmt.Errorf("%w; set VAM_LLM_PROVIDER and VAM_LLM_API_KEY", content.ErrGenerationDisabled)
	}
	return nil
}

// authorFlags binds the author profile shared by generating commands.
func authorFlags(cmd *cobra.Command, a *llm.Author) {
	cmdFlags := cmd.Flags()
	cmdFlags.StringVar(&a.Experience, "experience", "", "author experience, e.g. \"10 years in cloud infrastructure\"")
	cmdFlags.StringVar(&a.Achievements, "achievements", "", "author achievements")
	cmdFlags.StringVar(&a.Interests, "interests", "", "author interests")
	cmdFlags.StringVar(&a.Audience, "audience", "", "target audience")
}
