package renderer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
)

const (
	// Winking face emoji as SVG, used when no mascot image ships with the build.
	mascotFallback = "data:image/svg+xml;base64,PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHZpZXdCb3g9IjAgMCAxMDAgMTAwIj48dGV4dCB5PSI3NSIgZm9udC1zaXplPSI4MCI+8J+YiTwvdGV4dD48L3N2Zz4="
	// 1x1 transparent GIF.
	transparentPixel = "data:image/gif;base64,R0lGODlhAQABAAAAACH5BAEKAAEALAAAAAABAAEAAAICTAEAOw=="
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

type CardRenderer struct {
	templatePath string
	mascotPath   string
	rasterizer   repository.Rasterizer
	logger       *slog.Logger
}

var _ repository.CardRenderer = (*CardRenderer)(nil)

func NewCardRenderer(templatePath, mascotPath string, rasterizer repository.Rasterizer, logger *slog.Logger) *CardRenderer {
	return &CardRenderer{
		templatePath: templatePath,
		mascotPath:   mascotPath,
		rasterizer:   rasterizer,
		logger:       logger.With("component", "renderer"),
	}
}

// RenderCard fills the card template and rasterizes it to PNG.
func (r *CardRenderer) RenderCard(ctx context.Context, company, role, roastText, logoURL string) ([]byte, error) {
	html, err := r.ComposeHTML(company, role, roastText, logoURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	png, err := r.rasterizer.Rasterize(ctx, html)
	if err != nil {
		metrics.ObserveRenderDuration("failed", time.Since(start))
		metrics.IncError("renderer", "rasterize")
		return nil, fmt.Errorf("rasterize card: %w", err)
	}
	metrics.ObserveRenderDuration("success", time.Since(start))

	r.logger.Debug("card rendered", "bytes", len(png), "duration", time.Since(start))
	return png, nil
}

// ComposeHTML loads the template from disk and substitutes every placeholder.
// Text fields are HTML-escaped; image fields are data or https URLs.
func (r *CardRenderer) ComposeHTML(company, role, roastText, logoURL string) (string, error) {
	raw, err := os.ReadFile(r.templatePath)
	if err != nil {
		metrics.IncError("renderer", "read_template")
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", entity.ErrTemplateNotFound, r.templatePath)
		}
		return "", fmt.Errorf("read template %s: %w", r.templatePath, err)
	}

	logo := transparentPixel
	hasLogo := "false"
	if logoURL != "" {
		logo = logoURL
		hasLogo = "true"
	}

	html := strings.NewReplacer(
		"{{COMPANY_NAME}}", EscapeHTML(company),
		"{{ROLE}}", EscapeHTML(role),
		"{{ROAST_TEXT}}", EscapeHTML(roastText),
		"{{SHIBA_IMAGE}}", r.mascotDataURL(),
		"{{COMPANY_LOGO}}", logo,
		"{{HAS_LOGO}}", hasLogo,
	).Replace(string(raw))

	return html, nil
}

func (r *CardRenderer) mascotDataURL() string {
	if r.mascotPath == "" {
		return mascotFallback
	}
	data, err := os.ReadFile(r.mascotPath)
	if err != nil {
		r.logger.Warn("mascot image not found, using emoji fallback", "path", r.mascotPath)
		return mascotFallback
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
