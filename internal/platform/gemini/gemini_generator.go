package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/generation"
	"github.com/aicms/aicms-api/internal/platform/logger"
	"github.com/aicms/aicms-api/internal/redact"
)

// ProviderName is stored on records produced by this generator.
const ProviderName = "gemini"

// contentGenerator is the part of *genai.Models the generator needs.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator sends one prompt per call to a Gemini model.
type GeminiGenerator struct {
	logger *slog.Logger
	models contentGenerator
	model  string
	config *genai.GenerateContentConfig
	cfg    config.LLMConfig
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a new genai client.
func NewGeminiGenerator(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	return newGenerator(log, client.Models, cfg)
}

func newGenerator(log *slog.Logger, models contentGenerator, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	model := cfg.ModelName
	if model == "" {
		model = config.DefaultModels[ProviderName]
	}

	return &GeminiGenerator{
		logger: log.With(slog.String("component", "gemini_generator")),
		models: models,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		cfg: cfg,
	}, nil
}

// Provider implements generation.Generator.
func (g *GeminiGenerator) Provider() string {
	return ProviderName
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if g.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout())
		defer cancel()
	}

	log.Debug("calling Gemini",
		slog.String("model", g.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		log.Error("Gemini API call failed", slog.String("error", redact.Error(err)))
		return "", classifyError(err)
	}

	text, err := extractText(resp)
	if err != nil {
		log.Warn("unusable Gemini response", slog.String("error", err.Error()))
		return "", err
	}

	log.Debug("Gemini API call succeeded", slog.Int("response_length", len(text)))
	return text, nil
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return text, nil
}

// classifyError wraps err as a generation failure. Rate limits, server errors
// and transport failures are marked transient.
func classifyError(err error) error {
	msg := redact.Error(err)

	code, apiMsg, ok := apiErrorDetails(err)
	if ok {
		msg = redact.String(apiMsg)
	}

	if code != 0 && code != http.StatusTooManyRequests && code < http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", generation.ErrGenerationFailed, msg)
	}
	return fmt.Errorf("%w: %w: %s", generation.ErrGenerationFailed, generation.ErrTransientFailure, msg)
}

// apiErrorDetails finds a genai.APIError in err's chain.
func apiErrorDetails(err error) (int, string, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case genai.APIError:
			return v.Code, v.Message, true
		case *genai.APIError:
			return v.Code, v.Message, true
		}
	}
	return 0, "", false
}
