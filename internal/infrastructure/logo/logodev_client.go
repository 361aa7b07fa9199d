package logo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
)

const (
	DefaultBaseURL = "https://img.logo.dev"

	// logo.dev answers unknown domains with a 2-4KB single-letter avatar.
	DefaultPlaceholderBytes = 5000
	DefaultTimeout          = 10 * time.Second
)

type Config struct {
	BaseURL          string
	Token            string
	Size             int
	Format           string
	Theme            string
	PlaceholderBytes int64
	Timeout          time.Duration
}

type LogoDevClient struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

var _ repository.LogoFetcher = (*LogoDevClient)(nil)

func NewLogoDevClient(cfg Config, logger *slog.Logger) *LogoDevClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PlaceholderBytes == 0 {
		cfg.PlaceholderBytes = DefaultPlaceholderBytes
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &LogoDevClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "logo"),
	}
}

// LogoURL is the embeddable URL for a domain, query parameters included.
func (c *LogoDevClient) LogoURL(domain string) string {
	params := url.Values{}
	params.Set("token", c.cfg.Token)
	params.Set("size", strconv.Itoa(c.cfg.Size))
	params.Set("format", c.cfg.Format)
	params.Set("theme", c.cfg.Theme)
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(domain) + "?" + params.Encode()
}

// FetchLogo probes the logo service and returns the URL only when it serves
// something larger than the placeholder avatar. Every failure yields "".
func (c *LogoDevClient) FetchLogo(ctx context.Context, company string) string {
	domain := entity.ResolveDomain(company)
	logoURL := c.LogoURL(domain)

	c.logger.Debug("checking logo", "company", company, "domain", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		metrics.IncLogoLookup("error")
		metrics.IncError("logo", "create_request")
		c.logger.Warn("logo request build failed", "domain", domain, "err", err)
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncLogoLookup("error")
		metrics.IncError("logo", "http_do")
		c.logger.Warn("logo check failed", "domain", domain, "err", err)
		return ""
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("close body err", "err", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncLogoLookup("not_found")
		c.logger.Info("no logo found", "domain", domain, "status", resp.StatusCode)
		return ""
	}

	// ContentLength is -1 when the header is absent; that counts as a real logo.
	if resp.ContentLength >= 0 && resp.ContentLength < c.cfg.PlaceholderBytes {
		metrics.IncLogoLookup("placeholder")
		c.logger.Info("fallback logo detected, skipping", "domain", domain, "bytes", resp.ContentLength)
		return ""
	}

	metrics.IncLogoLookup("found")
	c.logger.Info("logo found", "domain", domain)
	return logoURL
}
