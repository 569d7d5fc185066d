package scenario

import (
	"context"
	"fmt"

	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"

	"github.com/playwright-community/playwright-go"
)

// Sidebar checks the dashboard's navigation sidebar: it must be shown with
// its new-customer button, and its close button must hide it.
type Sidebar struct{}

func (Sidebar) Name() string { return "sidebar" }

func (s Sidebar) Run(ctx context.Context, env *Env) error {
	if err := env.Page.Goto(ctx, env.Config.DashboardURL()); err != nil {
		return fmt.Errorf("open dashboard: %w", err)
	}
	env.Page.Settle(ctx)
	if !IsAuthenticated(env.Page.URL()) {
		return fmt.Errorf("redirected to %s: %w", env.Page.URL(), ErrNotAuthenticated)
	}

	sidebar := env.Locate(ctx, targets.Sidebar)
	if !sidebar.Found {
		env.Summary.Add(Step{
			Scenario:   s.Name(),
			Name:       targets.Sidebar,
			Status:     StatusFail,
			Detail:     sidebar.String(),
			Screenshot: env.Page.Capture("sidebar_missing", "Sidebar not found"),
		})
		return nil
	}
	env.Summary.Add(Step{
		Scenario:   s.Name(),
		Name:       targets.Sidebar,
		Status:     StatusPass,
		Detail:     sidebar.String(),
		Screenshot: env.Page.Capture("sidebar", "Sidebar shown"),
	})

	newCustomer := env.Locate(ctx, targets.NewCustomer)
	env.Summary.Record(s.Name(), targets.NewCustomer, newCustomer, true)

	closeBtn := env.Locate(ctx, targets.CloseSidebar)
	if !closeBtn.Found {
		env.Summary.Fail(s.Name(), targets.CloseSidebar, closeBtn.String())
		return nil
	}
	if newCustomer.Found {
		if ok, known := above(ctx, closeBtn.Element, newCustomer.Element); known {
			if ok {
				env.Summary.Pass(s.Name(), "close above new-customer", "")
			} else {
				env.Summary.Fail(s.Name(), "close above new-customer", "close button is below the new-customer button")
			}
		}
	}

	res, err := env.Act(ctx, targets.CloseSidebar, locator.Click)
	switch {
	case err != nil:
		env.Summary.Fail(s.Name(), targets.CloseSidebar, err.Error())
		return nil
	case !res.Found:
		env.Summary.Fail(s.Name(), targets.CloseSidebar, "disappeared before the click")
		return nil
	}
	env.Summary.Pass(s.Name(), targets.CloseSidebar, res.String())
	env.Page.Settle(ctx)

	if after := env.Locate(ctx, targets.Sidebar); after.Found {
		env.Summary.Add(Step{
			Scenario:   s.Name(),
			Name:       "sidebar hidden",
			Status:     StatusFail,
			Detail:     "still visible after close: " + after.String(),
			Screenshot: env.Page.Capture("sidebar_not_closed", "Sidebar still visible"),
		})
		return nil
	}
	env.Summary.Add(Step{
		Scenario:   s.Name(),
		Name:       "sidebar hidden",
		Status:     StatusPass,
		Screenshot: env.Page.Capture("sidebar_closed", "Sidebar closed"),
	})
	return nil
}

// boxed is an element with layout, such as one on a live page.
type boxed interface {
	BoundingBox(ctx context.Context) (*playwright.Rect, error)
}

// above reports whether a's top edge is higher on the page than b's. known
// is false when either element has no box.
func above(ctx context.Context, a, b locator.Element) (ok, known bool) {
	ab, aok := a.(boxed)
	bb, bok := b.(boxed)
	if !aok || !bok {
		return false, false
	}
	ra, err := ab.BoundingBox(ctx)
	if err != nil || ra == nil {
		return false, false
	}
	rb, err := bb.BoundingBox(ctx)
	if err != nil || rb == nil {
		return false, false
	}
	return ra.Y < rb.Y, true
}
