package ai

import (
	"context"
	"strings"

	"github.com/suPer8Hu/car-advisor/internal/config"
)

// NewDefaultRegistry registers every provider the service can be configured with.
func NewDefaultRegistry(cfg config.Config) *Registry {
	reg := NewRegistry()

	reg.Register("ollama", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	reg.Register("openrouter", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})

	reg.Register("gemini", func(ctx context.Context, model string) (Provider, error) {
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.GeminiModel
		}
		// the client outlives the request that triggered its creation
		p, err := NewGeminiProvider(context.WithoutCancel(ctx), cfg.GeminiAPIKey, m)
		if err != nil {
			return nil, err
		}
		return p, nil
	})

	return reg
}
