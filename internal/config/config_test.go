package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vamg1994/content-creation-vam/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Templates.Dir != "templates" {
		t.Errorf("Templates.Dir = %q, want templates", cfg.Templates.Dir)
	}
	if cfg.Templates.ReservedSlides != 2 {
		t.Errorf("Templates.ReservedSlides = %d, want 2", cfg.Templates.ReservedSlides)
	}
	if cfg.Carousel.Slides != 10 {
		t.Errorf("Carousel.Slides = %d, want 10", cfg.Carousel.Slides)
	}
	if cfg.LLM.Provider != "" {
		t.Errorf("LLM.Provider = %q, want empty", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 60*time.Second {
		t.Errorf("LLM.Timeout = %v, want 60s", cfg.LLM.Timeout)
	}
	if cfg.Cache.TTL != 0 {
		t.Errorf("Cache.TTL = %v, want 0", cfg.Cache.TTL)
	}
	if cfg.Log.Level != slog.LevelInfo || cfg.Log.Format != "text" {
		t.Errorf("Log = %v/%q, want info/text", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VAM_HTTP_ADDR", ":9090")
	t.Setenv("VAM_TEMPLATES_DIR", "/srv/templates")
	t.Setenv("VAM_TEMPLATES_RESERVED_SLIDES", "1")
	t.Setenv("VAM_LLM_PROVIDER", "anthropic")
	t.Setenv("VAM_LLM_API_KEY", "sk-test")
	t.Setenv("VAM_CACHE_TTL", "10m")
	t.Setenv("VAM_LOG_LEVEL", "debug")
	t.Setenv("VAM_LOG_FORMAT", "JSON")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Templates.Dir != "/srv/templates" || cfg.Templates.ReservedSlides != 1 {
		t.Errorf("Templates = %+v", cfg.Templates)
	}
	if cfg.LLM.Provider != "anthropic" || cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Log.Level != slog.LevelDebug || cfg.Log.Format != "json" {
		t.Errorf("Log = %v/%q", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		wantIn string
	}{
		{"bad timeout", map[string]string{"VAM_LLM_TIMEOUT": "soon"}, "VAM_LLM_TIMEOUT"},
		{"bad ttl", map[string]string{"VAM_CACHE_TTL": "forever"}, "VAM_CACHE_TTL"},
		{"bad level", map[string]string{"VAM_LOG_LEVEL": "loud"}, "VAM_LOG_LEVEL"},
		{"bad format", map[string]string{"VAM_LOG_FORMAT": "xml"}, "VAM_LOG_FORMAT"},
		{"negative reserved", map[string]string{"VAM_TEMPLATES_RESERVED_SLIDES": "-1"}, "VAM_TEMPLATES_RESERVED_SLIDES"},
		{"zero slides", map[string]string{"VAM_CAROUSEL_SLIDES": "0"}, "VAM_CAROUSEL_SLIDES"},
		{"unknown provider", map[string]string{"VAM_LLM_PROVIDER": "gemini", "VAM_LLM_API_KEY": "k"}, "VAM_LLM_PROVIDER"},
		{"missing key", map[string]string{"VAM_LLM_PROVIDER": "openai"}, "VAM_LLM_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q does not mention %s", err, tt.wantIn)
			}
		})
	}
}
