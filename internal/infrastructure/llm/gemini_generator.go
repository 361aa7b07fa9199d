package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
)

const (
	DefaultModel = "gemini-3-pro-preview"

	temperature float32 = 0.9
	topP        float32 = 0.95
)

var ErrEmptyReply = errors.New("gemini returned no text")

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string        // empty: the public Gemini endpoint
	Timeout time.Duration // per call; 0 disables
}

type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ repository.LLMGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator fails fast with entity.ErrMissingAPIKey when no key is configured.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, entity.ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		metrics.IncError("llm", "new_client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (g *GeminiGenerator) ModelName() string {
	return g.model
}

// Generate runs one grounded completion. Usage counts are zero when the
// response carries no usage metadata. An empty answer returns ErrEmptyReply
// together with the usage the model reported for it.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (entity.ModelReply, error) {
	metrics.IncLLMRequest(g.model)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
		TopP:        genai.Ptr(topP),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	})
	if err != nil {
		metrics.IncError("llm", "generate_content")
		return entity.ModelReply{}, fmt.Errorf("failed to generate content: %w", err)
	}

	reply := entity.ModelReply{Text: resp.Text()}
	if usage := resp.UsageMetadata; usage != nil {
		reply.InputTokens = int(usage.PromptTokenCount)
		reply.OutputTokens = int(usage.CandidatesTokenCount)
	}

	if strings.TrimSpace(reply.Text) == "" {
		metrics.IncError("llm", "empty_response")
		return reply, ErrEmptyReply
	}

	return reply, nil
}
