// Package groq implements generation.Generator on Groq's OpenAI-compatible
// chat completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/generation"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/redact"
)

// ProviderName is stored on records produced by this generator.
const ProviderName = "groq"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client calls the chat completions endpoint once per prompt.
type Client struct {
	client      *resty.Client
	model       string
	temperature float32
	maxTokens   int32
	logger      *slog.Logger
}

var _ generation.Generator = (*Client)(nil)

// NewClient creates a Groq generator from cfg.
func NewClient(cfg config.LLMConfig, log *slog.Logger) (*Client, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("%w: groq API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.GroqBaseURL == "" {
		return nil, fmt.Errorf("%w: groq base URL cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	model := cfg.ModelName
	if model == "" {
		model = config.DefaultModels[ProviderName]
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.GroqBaseURL, "/")).
		SetAuthToken(cfg.GroqAPIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout())

	return &Client{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		logger:      log.With(slog.String("component", "groq_client")),
	}, nil
}

// Provider implements generation.Generator.
func (c *Client) Provider() string {
	return ProviderName
}

// Generate implements generation.Generator. The reply is trimmed.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	var result chatResponse
	var apiErr errorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		log.Error("Groq request failed", slog.String("error", redact.Error(err)))
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %s", generation.ErrGenerationFailed, redact.Error(err))
		}
		return "", fmt.Errorf("%w: %w: %s",
			generation.ErrGenerationFailed, generation.ErrTransientFailure, redact.Error(err))
	}

	if resp.IsError() {
		msg := resp.Status()
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		msg = redact.String(msg)
		log.Error("Groq API returned an error",
			slog.Int("status", resp.StatusCode()),
			slog.String("error", msg))

		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError {
			return "", fmt.Errorf("%w: %w: %s", generation.ErrGenerationFailed, generation.ErrTransientFailure, msg)
		}
		return "", fmt.Errorf("%w: %s", generation.ErrGenerationFailed, msg)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}
	choice := result.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", fmt.Errorf("%w: completion filtered", generation.ErrContentBlocked)
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", generation.ErrInvalidResponse)
	}

	log.Debug("Groq completion received",
		slog.String("model", c.model),
		slog.Int("response_length", len(text)))
	return text, nil
}
