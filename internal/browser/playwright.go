package browser

import (
	"context"
	"fmt"
	"time"

	"paintly-probe/internal/config"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Options control how the browser is launched and how contexts look.
type Options struct {
	Headless bool
	SlowMo   time.Duration
	Width    int
	Height   int
	Locale   string
	// Timeout is the page default for navigation and actions.
	Timeout time.Duration
}

// OptionsFromConfig maps the probe config onto launch options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Headless: cfg.Headless,
		SlowMo:   time.Duration(cfg.SlowMoMs) * time.Millisecond,
		Width:    cfg.Viewport.Width,
		Height:   cfg.Viewport.Height,
		Locale:   cfg.Locale,
		Timeout:  30 * time.Second,
	}
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *zap.Logger
}

// NewPlaywright starts the driver and launches Chromium. Callers must Close
// the manager.
func NewPlaywright(ctx context.Context, opts Options, logger *zap.Logger) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	b, err := pw.Chromium.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	logger.Info("🌐 Browser launched", zap.Bool("headless", opts.Headless), zap.Duration("slow_mo", opts.SlowMo))
	return &PlaywrightManager{pw: pw, browser: b, opts: opts, logger: logger}, nil
}

// NewContext opens an isolated browser context carrying the given cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ctxOpts := playwright.BrowserNewContextOptions{}
	if pm.opts.Width > 0 && pm.opts.Height > 0 {
		ctxOpts.Viewport = &playwright.Size{Width: pm.opts.Width, Height: pm.opts.Height}
	}
	if pm.opts.Locale != "" {
		ctxOpts.Locale = playwright.String(pm.opts.Locale)
	}

	bctx, err := pm.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	if pm.opts.Timeout > 0 {
		bctx.SetDefaultTimeout(float64(pm.opts.Timeout.Milliseconds()))
	}
	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
		pm.logger.Info("🍪 Cookies restored", zap.Int("count", len(cookies)))
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = fmt.Errorf("could not close browser: %w", err)
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not stop playwright: %w", err)
		}
	}
	return firstErr
}
