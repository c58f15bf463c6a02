// Package gateway is the boundary to the external text generator: one call
// per request, no retries, failures mapped to sentinel errors.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/brief/internal/metrics"
	"github.com/MikeSquared-Agency/brief/internal/prompt"
)

var (
	ErrGenerationFailed         = errors.New("generation failed")
	ErrSummarizationUnavailable = errors.New("summarization unavailable")
)

const summaryMaxTokens = 512

type Gateway struct {
	model     Model
	maxTokens int
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

func New(model Model, maxTokens int, logger *slog.Logger, rec *metrics.Recorder) *Gateway {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Gateway{model: model, maxTokens: maxTokens, logger: logger, metrics: rec}
}

// Provider names the backing model provider.
func (g *Gateway) Provider() string {
	return g.model.Name()
}

// Generate sends the payload and returns the email body. Any failure,
// including an empty reply, is reported as ErrGenerationFailed.
func (g *Gateway) Generate(ctx context.Context, p prompt.Payload) (string, error) {
	kind := metrics.KindEmail
	if p.IsRevision() {
		kind = metrics.KindRevision
	}

	start := time.Now()
	text, err := g.model.Complete(ctx, Request{
		System:    p.System(),
		User:      p.User(),
		MaxTokens: g.maxTokens,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty reply")
	}
	g.metrics.ObserveCall(kind, g.model.Name(), err, time.Since(start))

	if err != nil {
		g.logger.Warn("email generation failed",
			"provider", g.model.Name(),
			"kind", kind,
			"recipient_category", p.Role,
			"error", err,
		)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	g.logger.Info("email generated",
		"provider", g.model.Name(),
		"kind", kind,
		"recipient_category", p.Role,
		"output_locale", p.OutputLocale,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return strings.TrimSpace(text), nil
}

// PlaceholderSummary is returned for files without readable text.
func PlaceholderSummary(fileName string) string {
	return fmt.Sprintf("The uploaded file (%s) does not contain readable text. Use the file name as contextual reference.", fileName)
}

// Summarize returns a short synopsis of content. Blank content yields
// PlaceholderSummary without calling the model.
func (g *Gateway) Summarize(ctx context.Context, fileName, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return PlaceholderSummary(fileName), nil
	}

	temp := prompt.SummaryTemperature
	start := time.Now()
	text, err := g.model.Complete(ctx, Request{
		User:        prompt.Summary(fileName, content),
		MaxTokens:   summaryMaxTokens,
		Temperature: &temp,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty reply")
	}
	g.metrics.ObserveCall(metrics.KindSummary, g.model.Name(), err, time.Since(start))

	if err != nil {
		g.logger.Warn("file summarization failed", "file", fileName, "error", err)
		return "", fmt.Errorf("%w: %w", ErrSummarizationUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}
