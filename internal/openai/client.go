// Package openai adapts the official OpenAI Go SDK to the chat completion
// shape the gateway needs.
package openai

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	client sdk.Client
	model  string
}

// NewClient builds a client for model. baseURL may be empty; when set it
// points the SDK at an OpenAI-compatible endpoint. SDK retries are disabled
// so each call is exactly one request.
func NewClient(apiKey, model, baseURL string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: sdk.NewClient(opts...),
		model:  model,
	}
}

// Params describes a single chat completion call.
type Params struct {
	System      string
	User        string
	MaxTokens   int
	Temperature *float64
}

// Complete runs one chat completion and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, p Params) (string, error) {
	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, 2)
	if p.System != "" {
		messages = append(messages, sdk.SystemMessage(p.System))
	}
	messages = append(messages, sdk.UserMessage(p.User))

	params := sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(c.model),
		Messages: messages,
	}
	if p.MaxTokens > 0 {
		params.MaxTokens = sdk.Int(int64(p.MaxTokens))
	}
	if p.Temperature != nil {
		params.Temperature = sdk.Float(*p.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response content")
	}
	return text, nil
}
