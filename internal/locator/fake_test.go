package locator_test

import (
	"context"
	"errors"
	"sync"

	"paintly-probe/internal/locator"
)

// fakeDoc answers queries from a fixed table and records every expression
// it was asked for.
type fakeDoc struct {
	mu      sync.Mutex
	results map[string][]locator.Element
	errs    map[string]error
	queries []string
}

func newFakeDoc() *fakeDoc {
	return &fakeDoc{
		results: map[string][]locator.Element{},
		errs:    map[string]error{},
	}
}

func (d *fakeDoc) with(expr string, els ...locator.Element) *fakeDoc {
	d.results[expr] = els
	return d
}

func (d *fakeDoc) failing(expr string, err error) *fakeDoc {
	d.errs[expr] = err
	return d
}

func (d *fakeDoc) Query(_ context.Context, expr string) ([]locator.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries = append(d.queries, expr)
	if err, ok := d.errs[expr]; ok {
		return nil, err
	}
	return d.results[expr], nil
}

type fakeEl struct {
	text       string
	visible    bool
	textErr    error
	clickErrs  []error
	textReads  int
	clickCalls int
	filled     string
}

func (e *fakeEl) IsVisible(context.Context) bool { return e.visible }

func (e *fakeEl) TextContent(context.Context) (string, error) {
	e.textReads++
	return e.text, e.textErr
}

func (e *fakeEl) Click(context.Context) error {
	e.clickCalls++
	if len(e.clickErrs) > 0 {
		err := e.clickErrs[0]
		e.clickErrs = e.clickErrs[1:]
		return err
	}
	return nil
}

func (e *fakeEl) Fill(_ context.Context, v string) error {
	e.filled = v
	return nil
}

var errStale = errors.New("element is not attached to the DOM")
