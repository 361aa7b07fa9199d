package repository

import (
	"context"
	"roastcard/internal/domain/entity"
)

// UsageRepository stores per-generation accounting records. It is write-only.
type UsageRepository interface {
	Record(ctx context.Context, record *entity.UsageRecord) error
}
