package repository

import (
	"context"
)

type CardRenderer interface {
	RenderCard(ctx context.Context, company, role, roastText, logoURL string) ([]byte, error)
}

// Rasterizer turns a complete HTML document into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) ([]byte, error)
}
