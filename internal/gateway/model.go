package gateway

import (
	"context"
	"fmt"

	"github.com/MikeSquared-Agency/brief/internal/anthropic"
	"github.com/MikeSquared-Agency/brief/internal/config"
	"github.com/MikeSquared-Agency/brief/internal/openai"
)

// Request is one call to a text model.
type Request struct {
	System      string
	User        string
	MaxTokens   int
	Temperature *float64
}

// Model is a text generation backend.
type Model interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

type anthropicModel struct {
	client *anthropic.Client
}

// NewAnthropicModel wraps the Messages API client.
func NewAnthropicModel(c *anthropic.Client) Model {
	return anthropicModel{client: c}
}

func (m anthropicModel) Name() string { return "anthropic" }

func (m anthropicModel) Complete(ctx context.Context, req Request) (string, error) {
	return m.client.Complete(ctx, anthropic.Params{
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.User}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

type openaiModel struct {
	client *openai.Client
}

// NewOpenAIModel wraps the chat completions client.
func NewOpenAIModel(c *openai.Client) Model {
	return openaiModel{client: c}
}

func (m openaiModel) Name() string { return "openai" }

func (m openaiModel) Complete(ctx context.Context, req Request) (string, error) {
	return m.client.Complete(ctx, openai.Params{
		System:      req.System,
		User:        req.User,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

// NewModel creates the provider selected by cfg.
func NewModel(cfg config.Config) (Model, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic requires ANTHROPIC_API_KEY")
		}
		return NewAnthropicModel(anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai requires OPENAI_API_KEY")
		}
		return NewOpenAIModel(openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
