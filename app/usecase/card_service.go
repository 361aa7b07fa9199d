package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
)

const usageWriteTimeout = 5 * time.Second

// LogoLookup is what the pipeline knows about a company before generation.
type LogoLookup struct {
	Company  string `json:"company"`
	Domain   string `json:"domain"`
	Category string `json:"category"`
	LogoURL  string `json:"logo_url"`
}

type CardUsecase interface {
	GenerateCard(ctx context.Context, company, role string, progress entity.ProgressFunc) (*entity.CardArtifact, error)
	GenerateRoast(ctx context.Context, company, role string) (entity.RoastResult, error)
	LookupLogo(ctx context.Context, company string) (LogoLookup, error)
}

var _ CardUsecase = (*CardService)(nil)

// CardService runs logo -> roast -> render for one request at a time.
type CardService struct {
	logos    repository.LogoFetcher
	roasts   *RoastService
	renderer repository.CardRenderer
	usage    repository.UsageRepository // optional
	logger   *slog.Logger
}

func NewCardService(
	logos repository.LogoFetcher,
	roasts *RoastService,
	renderer repository.CardRenderer,
	usage repository.UsageRepository,
	logger *slog.Logger,
) *CardService {
	return &CardService{
		logos:    logos,
		roasts:   roasts,
		renderer: renderer,
		usage:    usage,
		logger:   logger.With("component", "cards"),
	}
}

func (s *CardService) LookupLogo(ctx context.Context, company string) (LogoLookup, error) {
	req, err := entity.NewGenerationRequest(company, "")
	if err != nil {
		return LogoLookup{}, err
	}
	return LogoLookup{
		Company:  req.Company,
		Domain:   entity.ResolveDomain(req.Company),
		Category: entity.ResolveCategory(req.Company),
		LogoURL:  s.logos.FetchLogo(ctx, req.Company),
	}, nil
}

func (s *CardService) GenerateRoast(ctx context.Context, company, role string) (entity.RoastResult, error) {
	req, err := entity.NewGenerationRequest(company, role)
	if err != nil {
		return entity.RoastResult{}, err
	}
	return s.roasts.GenerateRoast(ctx, req.Company, req.Role)
}

// GenerateCard produces a finished PNG card. Logo misses and roast failures
// degrade gracefully; only invalid input, a missing model credential or a
// render failure abort the request. progress may be nil.
func (s *CardService) GenerateCard(ctx context.Context, company, role string, progress entity.ProgressFunc) (*entity.CardArtifact, error) {
	start := time.Now()

	req, err := entity.NewGenerationRequest(company, role)
	if err != nil {
		metrics.IncError("cards", "invalid_request")
		return nil, err
	}

	card := &entity.CardArtifact{
		RequestID:   req.ID,
		ContentType: "image/png",
		Filename:    req.Filename(),
		Domain:      entity.ResolveDomain(req.Company),
		Category:    entity.ResolveCategory(req.Company),
	}
	log := s.logger.With("request_id", req.ID, "company", req.Company, "role", req.Role, "category", card.Category)
	log.Info("card generation started")

	// 1) Logo
	progress.Emit(entity.StageLogo, "Fetching company logo...")
	card.LogoURL = s.logos.FetchLogo(ctx, req.Company)
	if card.HasLogo() {
		progress.Emit(entity.StageLogo, "Logo found!")
	} else {
		progress.Emit(entity.StageLogo, "No logo found (continuing without)")
	}

	// 2) Roast
	progress.Emit(entity.StageRoast, "Generating roast...")
	roast, err := s.roasts.GenerateRoast(ctx, req.Company, req.Role)
	if err != nil {
		metrics.IncCardRequest(card.Category, "failed")
		log.Error("roast generation failed", "err", err)
		return nil, fmt.Errorf("generate roast: %w", err)
	}
	card.Roast = roast
	progress.Emit(entity.StageRoast, "Roast generated!")

	// 3) Render
	progress.Emit(entity.StageRender, "Rendering card...")
	img, err := s.renderer.RenderCard(ctx, req.Company, req.Role, roast.Text, card.LogoURL)
	s.recordUsage(ctx, req, card, err == nil)
	if err != nil {
		metrics.IncCardRequest(card.Category, "failed")
		log.Error("card render failed", "err", err)
		return nil, fmt.Errorf("render card: %w", err)
	}
	card.Image = img
	progress.Emit(entity.StageRender, "Card rendered!")

	metrics.IncCardRequest(card.Category, "success")
	metrics.ObserveCardDuration(time.Since(start))
	log.Info("card generated",
		"filename", card.Filename,
		"logo", card.HasLogo(),
		"fallback", roast.Fallback,
		"cost", roast.Cost,
		"duration", time.Since(start),
	)
	return card, nil
}

// recordUsage writes the accounting entry. Failures are logged and dropped.
func (s *CardService) recordUsage(ctx context.Context, req entity.GenerationRequest, card *entity.CardArtifact, rendered bool) {
	if s.usage == nil {
		return
	}

	rec := entity.NewUsageRecord(req, card.Category, s.roasts.ModelName(), card.Roast)
	rec.LogoFound = card.HasLogo()
	rec.Rendered = rendered

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageWriteTimeout)
	defer cancel()

	if err := s.usage.Record(wctx, rec); err != nil {
		metrics.IncUsageRecord("failed")
		s.logger.Warn("usage record failed", "request_id", req.ID, "err", err)
		return
	}
	metrics.IncUsageRecord("success")
}
