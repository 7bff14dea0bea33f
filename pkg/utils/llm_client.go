package utils

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
)

// TextGenerationClientInterface is the narrow surface the trip crew needs from
// a language model provider.
type TextGenerationClientInterface interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewTextGenerationClient picks the provider implementation from cfg.Provider.
func NewTextGenerationClient(ctx context.Context, cfg LLMConfig) (TextGenerationClientInterface, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAITextClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "gemini":
		return NewGeminiTextClient(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", cfg.Provider)
	}
}

// RateLimitedTextClient blocks each call until the limiter grants a token.
type RateLimitedTextClient struct {
	next    TextGenerationClientInterface
	limiter *rate.Limiter
}

func NewRateLimitedTextClient(next TextGenerationClientInterface, perSecond float64, burst int) *RateLimitedTextClient {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &RateLimitedTextClient{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (c *RateLimitedTextClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limiter: %w", err)
	}
	return c.next.GenerateText(ctx, system, prompt)
}

func (c *RateLimitedTextClient) Close() error {
	return c.next.Close()
}
