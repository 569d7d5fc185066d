// Package locator finds elements on a live or static page by trying an
// ordered list of candidate expressions, falling back to a bounded scan
// over broad element sets filtered by text.
package locator

import "context"

// Document is the query surface the locator needs from a page.
// Query returns an empty slice when nothing matches and an error only for
// malformed expressions or a broken document.
type Document interface {
	Query(ctx context.Context, expr string) ([]Element, error)
}

// Element is a borrowed handle into a document. Handles are not cached
// across probes since pages mutate between steps.
type Element interface {
	// IsVisible reports false for stale or detached handles instead of failing.
	IsVisible(ctx context.Context) bool
	TextContent(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
}
