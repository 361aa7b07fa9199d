package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/metrics"
)

const (
	DefaultWidth       = 1024
	DefaultHeight      = 1536
	DefaultScale       = 2.0
	DefaultIdleTimeout = 15 * time.Second
)

type ChromeConfig struct {
	ExecPath    string // empty: let chromedp find Chrome
	Width       int64
	Height      int64
	Scale       float64
	IdleTimeout time.Duration
	NoSandbox   bool
}

// ChromeRasterizer starts a fresh headless Chrome for every card. Nothing is
// shared between calls, so concurrent renders do not interfere.
type ChromeRasterizer struct {
	cfg    ChromeConfig
	logger *slog.Logger
}

var _ repository.Rasterizer = (*ChromeRasterizer)(nil)

func NewChromeRasterizer(cfg ChromeConfig, logger *slog.Logger) *ChromeRasterizer {
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &ChromeRasterizer{
		cfg:    cfg,
		logger: logger.With("component", "chrome"),
	}
}

func (c *ChromeRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	// The document can carry a base64 mascot far larger than Chrome's data URL
	// limit, so it is loaded from a temp file instead.
	f, err := os.CreateTemp("", "roastcard-*.html")
	if err != nil {
		metrics.IncError("chrome", "create_temp")
		return nil, fmt.Errorf("create temp html: %w", err)
	}
	defer func() {
		if err := os.Remove(f.Name()); err != nil {
			c.logger.Debug("remove temp html failed", "path", f.Name(), "err", err)
		}
	}()
	if _, err := f.WriteString(html); err != nil {
		_ = f.Close()
		metrics.IncError("chrome", "write_temp")
		return nil, fmt.Errorf("write temp html: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp html: %w", err)
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.WindowSize(int(c.cfg.Width), int(c.cfg.Height)))
	if c.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox, chromedp.Flag("disable-setuid-sandbox", true))
	}
	if c.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	lifecycle := make(chan *page.EventLifecycleEvent, 64)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok {
			select {
			case lifecycle <- e:
			default:
			}
		}
	})

	var png []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(c.cfg.Width, c.cfg.Height, chromedp.EmulateScale(c.cfg.Scale)),
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, loaderID, errorText, err := page.Navigate("file://" + f.Name()).Do(ctx)
			if err != nil {
				return fmt.Errorf("navigate: %w", err)
			}
			if errorText != "" {
				return fmt.Errorf("navigate: %s", errorText)
			}
			c.waitNetworkIdle(ctx, lifecycle, loaderID)
			return nil
		}),
		chromedp.CaptureScreenshot(&png),
	)
	if err != nil {
		metrics.IncError("chrome", "run")
		return nil, fmt.Errorf("chrome render: %w", err)
	}

	return png, nil
}

// waitNetworkIdle blocks until the given loader reports networkIdle. Events
// from the initial blank page carry another loader and are skipped. On
// timeout the capture proceeds with whatever has loaded.
func (c *ChromeRasterizer) waitNetworkIdle(ctx context.Context, events <-chan *page.EventLifecycleEvent, loader cdp.LoaderID) {
	timer := time.NewTimer(c.cfg.IdleTimeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			metrics.IncError("chrome", "network_idle_timeout")
			c.logger.Warn("network did not settle before capture", "timeout", c.cfg.IdleTimeout)
			return
		case ev := <-events:
			if ev.Name == "networkIdle" && (loader == "" || ev.LoaderID == loader) {
				return
			}
		}
	}
}
