package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
)

// CardRepository writes rendered cards into a local directory, next to a
// JSON sidecar with the roast and its cost.
type CardRepository struct {
	basePath string
}

var _ repository.CardFileRepository = (*CardRepository)(nil)

func NewCardRepository(basePath string) (*CardRepository, error) {
	info, err := os.Stat(basePath)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(basePath, 0o755); mkErr != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", basePath, mkErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to check directory %s: %w", basePath, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path %s exists but is not a directory", basePath)
	}

	return &CardRepository{
		basePath: basePath,
	}, nil
}

// SaveCard writes <filename> and <filename>.json and returns the image path.
// An existing card with the same name is overwritten.
func (r *CardRepository) SaveCard(ctx context.Context, card *entity.CardArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if card.Filename == "" {
		return "", fmt.Errorf("card has no filename")
	}

	imagePath := filepath.Join(r.basePath, filepath.Base(card.Filename))
	if err := os.WriteFile(imagePath, card.Image, 0o644); err != nil {
		metrics.IncError("file_card_repo", "write_image")
		return "", fmt.Errorf("failed to write card %s: %w", card.Filename, err)
	}

	metadata := map[string]interface{}{
		"request_id": card.RequestID,
		"created_at": time.Now(),
		"card":       card,
		"bytes":      len(card.Image),
	}
	metadataData, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(imagePath+".json", metadataData, 0o644); err != nil {
		metrics.IncError("file_card_repo", "write_metadata")
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	return imagePath, nil
}
