package usecase

import (
	"context"
	"log/slog"
	"strings"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
	"roastcard/internal/infrastructure/validator"
)

const DefaultMaxAttempts = 3

type RoastService struct {
	llm         repository.LLMGenerator
	pricing     entity.Pricing
	maxAttempts int
	logger      *slog.Logger
}

// NewRoastService accepts a nil llm; every GenerateRoast call then reports
// entity.ErrMissingAPIKey.
func NewRoastService(llm repository.LLMGenerator, pricing entity.Pricing, logger *slog.Logger) *RoastService {
	return &RoastService{
		llm:         llm,
		pricing:     pricing,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger.With("component", "roast"),
	}
}

func (s *RoastService) ModelName() string {
	if s.llm == nil {
		return ""
	}
	return s.llm.ModelName()
}

// GenerateRoast asks the model for a roast up to maxAttempts times and returns
// the first one that survives cleaning and validation. When every attempt
// fails the canned fallback is returned with zero usage; the only error is a
// missing model credential.
func (s *RoastService) GenerateRoast(ctx context.Context, company, role string) (entity.RoastResult, error) {
	if s.llm == nil {
		metrics.IncError("roast", "missing_api_key")
		return entity.RoastResult{}, entity.ErrMissingAPIKey
	}
	if strings.TrimSpace(role) == "" {
		role = entity.DefaultRole
	}

	prompt := entity.RoastPrompt(company, role)
	var inputTokens, outputTokens, made int

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("roast generation canceled", "company", company, "attempt", attempt, "err", err)
			break
		}

		made = attempt
		reply, err := s.llm.Generate(ctx, prompt)
		// A reply that failed after the model answered still reports billed usage.
		inputTokens += reply.InputTokens
		outputTokens += reply.OutputTokens
		if err != nil {
			metrics.IncRoastAttempt("error")
			s.logger.Warn("roast attempt failed", "company", company, "attempt", attempt, "err", err)
			continue
		}

		roast := validator.CleanRoast(reply.Text)
		if !validator.IsValidRoast(roast) {
			metrics.IncRoastAttempt("invalid")
			s.logger.Info("roast rejected by validator", "company", company, "attempt", attempt, "roast", roast)
			continue
		}

		metrics.IncRoastAttempt("valid")
		cost := s.pricing.Cost(inputTokens, outputTokens)
		metrics.AddTokens(inputTokens, outputTokens)
		metrics.AddCost(cost)

		s.logger.Info("roast generated",
			"company", company,
			"attempt", attempt,
			"input_tokens", inputTokens,
			"output_tokens", outputTokens,
			"cost", cost,
		)
		return entity.RoastResult{
			Text:         roast,
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			Cost:         cost,
			Attempts:     attempt,
		}, nil
	}

	metrics.IncRoastFallback()
	s.logger.Warn("all roast attempts failed, using fallback", "company", company, "attempts", made)
	return entity.NewFallbackRoast(made), nil
}
