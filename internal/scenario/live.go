package scenario

import (
	"context"
	"fmt"
	"time"

	"paintly-probe/internal/browser"
	"paintly-probe/internal/document/pwdoc"
	"paintly-probe/internal/locator"
	"paintly-probe/utils"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// LivePage drives a real browser tab.
type LivePage struct {
	page   playwright.Page
	doc    *pwdoc.Document
	shots  *utils.ScreenShotDebugger
	logger *zap.Logger
	// SettleTimeout bounds the wait for network idle after interactions.
	SettleTimeout time.Duration
}

func NewLivePage(page playwright.Page, opts pwdoc.Options, shots *utils.ScreenShotDebugger, logger *zap.Logger) *LivePage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LivePage{
		page:          page,
		doc:           pwdoc.New(page, opts),
		shots:         shots,
		logger:        logger,
		SettleTimeout: 5 * time.Second,
	}
}

func (p *LivePage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.logger.Info("🌐 Navigating", zap.String("url", url))
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *LivePage) URL() string {
	return p.page.URL()
}

func (p *LivePage) Document() locator.Document {
	return p.doc
}

func (p *LivePage) box(ctx context.Context, el locator.Element) (*playwright.Rect, error) {
	pe, ok := el.(*pwdoc.Element)
	if !ok {
		return nil, fmt.Errorf("element %T is not from a live page", el)
	}
	return pe.BoundingBox(ctx)
}

func (p *LivePage) ClickAt(ctx context.Context, el locator.Element, fx, fy float64) error {
	box, err := p.box(ctx, el)
	if err != nil {
		return err
	}
	if err := browser.ClickAt(ctx, p.page, box, fx, fy); err != nil {
		return err
	}
	browser.RandomDelay(ctx, 300, 600)
	return nil
}

func (p *LivePage) Drag(ctx context.Context, el locator.Element, fromX, toX float64) error {
	box, err := p.box(ctx, el)
	if err != nil {
		return err
	}
	return browser.DragAcross(ctx, p.page, box, fromX, toX)
}

func (p *LivePage) Capture(name, message string) string {
	if p.shots == nil {
		return ""
	}
	path, err := p.shots.CaptureAndLog(p.page, name, message)
	if err != nil {
		return ""
	}
	return path
}

// Settle waits for network idle, then a short human-paced pause. A page that
// never goes idle is not an error.
func (p *LivePage) Settle(ctx context.Context) {
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(p.SettleTimeout.Milliseconds())),
	})
	if err != nil {
		p.logger.Debug("page did not go idle", zap.Error(err))
	}
	browser.RandomDelay(ctx, 500, 1000)
}
