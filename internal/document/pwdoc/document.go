// Package pwdoc adapts a live playwright page to the locator's Document.
package pwdoc

import (
	"context"
	"errors"
	"time"

	"paintly-probe/internal/locator"

	"github.com/playwright-community/playwright-go"
)

// Options bound how long a single query or action may wait on the page.
type Options struct {
	// VisibleTimeout, when set, lets Query wait up to this long for the
	// first match to attach. A timeout counts as "no match".
	VisibleTimeout time.Duration
	// ActionTimeout caps text reads, clicks and fills.
	ActionTimeout time.Duration
}

// DefaultOptions mirrors the waits the probes have always used.
func DefaultOptions() Options {
	return Options{
		VisibleTimeout: 0,
		ActionTimeout:  5 * time.Second,
	}
}

// Document queries a live page. The page is owned by the caller.
type Document struct {
	page playwright.Page
	opts Options
}

func New(page playwright.Page, opts Options) *Document {
	if opts.ActionTimeout <= 0 {
		opts.ActionTimeout = DefaultOptions().ActionTimeout
	}
	return &Document{page: page, opts: opts}
}

// Page exposes the underlying page for navigation and screenshots.
func (d *Document) Page() playwright.Page {
	return d.page
}

// Query resolves expr with playwright's selector engine, so CSS, :has-text()
// and text= expressions all work.
func (d *Document) Query(ctx context.Context, expr string) ([]locator.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := d.page.Locator(expr)

	if d.opts.VisibleTimeout > 0 {
		err := loc.First().WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: millis(d.opts.VisibleTimeout),
		})
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	count, err := loc.Count()
	if err != nil {
		return nil, err
	}
	els := make([]locator.Element, 0, count)
	for i := 0; i < count; i++ {
		els = append(els, &Element{loc: loc.Nth(i), timeout: d.opts.ActionTimeout})
	}
	return els, nil
}

// Element wraps one nth-match locator. Playwright re-resolves it on every
// call, so a stale handle surfaces as an error or as "not visible".
type Element struct {
	loc     playwright.Locator
	timeout time.Duration
}

func (e *Element) IsVisible(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	visible, err := e.loc.IsVisible()
	if err != nil {
		return false
	}
	return visible
}

func (e *Element) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.TextContent(playwright.LocatorTextContentOptions{
		Timeout: millis(e.timeout),
	})
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.loc.Click(playwright.LocatorClickOptions{
		Timeout: millis(e.timeout),
	})
}

func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.loc.Clear(playwright.LocatorClearOptions{Timeout: millis(e.timeout)}); err != nil {
		return err
	}
	return e.loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: millis(e.timeout),
	})
}

// BoundingBox returns the element's box in page coordinates.
func (e *Element) BoundingBox(ctx context.Context) (*playwright.Rect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.loc.BoundingBox(playwright.LocatorBoundingBoxOptions{
		Timeout: millis(e.timeout),
	})
}

// Attr reads an attribute of the element.
func (e *Element) Attr(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: millis(e.timeout),
	})
}

// Locator exposes the playwright locator for page-specific interactions.
func (e *Element) Locator() playwright.Locator {
	return e.loc
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
