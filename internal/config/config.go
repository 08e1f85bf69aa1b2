package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Templates struct {
		Dir            string
		ReservedSlides int
	}
	Carousel struct {
		Slides int
	}
	LLM struct {
		Provider   string // "", "openai", "openai-compatible", "anthropic"
		APIKey     string
		Model      string
		ImageModel string
		BaseURL    string
		Timeout    time.Duration
	}
	Cache struct {
		TTL time.Duration // zero keeps entries until restart
	}
	Log struct {
		Level  slog.Level
		Format string
	}
}

// Load reads config from environment (VAM_ prefix) and optional vam-content.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("vam-content")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("templates.reserved_slides", 2)
	v.SetDefault("carousel.slides", 10)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Templates.Dir = v.GetString("templates.dir")
	cfg.Templates.ReservedSlides = v.GetInt("templates.reserved_slides")
	cfg.Carousel.Slides = v.GetInt("carousel.slides")
	cfg.LLM.Provider = v.GetString("llm.provider")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.ImageModel = v.GetString("llm.image_model")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))

	timeout, err := time.ParseDuration(v.GetString("llm.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid VAM_LLM_TIMEOUT: %w", err)
	}
	cfg.LLM.Timeout = timeout

	ttl, err := time.ParseDuration(v.GetString("cache.ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid VAM_CACHE_TTL: %w", err)
	}
	cfg.Cache.TTL = ttl

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid VAM_LOG_LEVEL: %w", err)
	}

	if cfg.Templates.Dir == "" {
		return nil, fmt.Errorf("VAM_TEMPLATES_DIR must not be empty")
	}
	if cfg.Templates.ReservedSlides < 0 {
		return nil, fmt.Errorf("VAM_TEMPLATES_RESERVED_SLIDES must not be negative")
	}
	if cfg.Carousel.Slides < 1 {
		return nil, fmt.Errorf("VAM_CAROUSEL_SLIDES must be at least 1")
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("VAM_LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}
	switch cfg.LLM.Provider {
	case "", "openai", "openai-compatible", "anthropic":
	default:
		return nil, fmt.Errorf("VAM_LLM_PROVIDER %q is not supported (openai, openai-compatible, anthropic)", cfg.LLM.Provider)
	}
	if cfg.LLM.Provider != "" && cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("VAM_LLM_API_KEY is required when VAM_LLM_PROVIDER is set")
	}

	return cfg, nil
}
