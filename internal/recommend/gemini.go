package recommend

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/tbourn/go-moodreel-backend/internal/catalog"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the subset of *genai.Models used by GeminiSource.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures a GeminiSource.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiSource asks a Gemini model for JSON movie records.
type GeminiSource struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGeminiSource creates a Gemini API client.
func NewGeminiSource(ctx context.Context, cfg GeminiConfig) (*GeminiSource, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGeminiSource(client.Models, cfg), nil
}

func newGeminiSource(models contentGenerator, cfg GeminiConfig) *GeminiSource {
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiSource{models: models, model: model, timeout: cfg.Timeout}
}

// Recommend implements Source.
func (g *GeminiSource) Recommend(ctx context.Context, req Request) ([]map[string]any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer("recommend/gemini").Start(ctx, "GeminiSource.Recommend")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", g.model),
		attribute.String("recommend.kind", string(req.Kind())),
		attribute.Int("recommend.exclude", len(req.Exclude)),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.8),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content")
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("gemini: empty response")
	}

	recs := catalog.DecodeRecords(resp.Text())
	span.SetAttributes(attribute.Int("recommend.records", len(recs)))
	return recs, nil
}
