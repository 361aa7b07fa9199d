package repository

import (
	"context"
	"roastcard/internal/domain/entity"
)

// LLMGenerator produces one raw completion for a prompt, with search grounding enabled.
type LLMGenerator interface {
	Generate(ctx context.Context, prompt string) (entity.ModelReply, error)
	// ModelName identifies the model in metrics and usage records.
	ModelName() string
}
