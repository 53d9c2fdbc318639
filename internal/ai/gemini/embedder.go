package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/utils"
)

const (
	defaultModel = "text-embedding-004"
	providerName = "gemini"
	taskType     = "SEMANTIC_SIMILARITY"
	previewLen   = 120
)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder wraps the Google GenAI client to produce text embeddings.
type Embedder struct {
	models     contentEmbedder
	modelName  string
	dimensions int32
	logger     *zap.Logger
}

// NewEmbedder creates a new Embedder configured for the Gemini API backend.
// A zero dimensions value keeps the model's native output size.
func NewEmbedder(ctx context.Context, apiKey, model string, dimensions int, log *zap.Logger) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, model, dimensions, log), nil
}

func newEmbedder(models contentEmbedder, model string, dimensions int, log *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if dimensions < 0 {
		dimensions = 0
	}

	return &Embedder{
		models:     models,
		modelName:  model,
		dimensions: int32(dimensions),
		logger:     logger.WithCommonFields(log, providerName, model),
	}
}

// Embed returns the embedding of text. The provider call is not retried.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e == nil || e.models == nil {
		return nil, errors.New("gemini embedder is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	cfg := &genai.EmbedContentConfig{TaskType: taskType}
	if e.dimensions > 0 {
		cfg.OutputDimensionality = genai.Ptr(e.dimensions)
	}

	e.logger.Debug("gemini embed content request",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, previewLen)),
	)

	resp, err := e.models.EmbedContent(ctx, e.modelName, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini api returned no embeddings")
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, errors.New("gemini api returned empty embedding")
	}

	e.logger.Debug("gemini embed content response", zap.Int("dimensions", len(values)))

	return values, nil
}

func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.modelName
}
