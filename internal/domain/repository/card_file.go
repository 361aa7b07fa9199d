package repository

import (
	"context"
	"roastcard/internal/domain/entity"
)

// CardFileRepository writes rendered cards for the command-line mode.
type CardFileRepository interface {
	SaveCard(ctx context.Context, card *entity.CardArtifact) (string, error)
}
