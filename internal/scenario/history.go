package scenario

import (
	"context"
	"fmt"

	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"
)

// History opens the customer page and checks the generation history tab.
type History struct{}

func (History) Name() string { return "history" }

func (h History) Run(ctx context.Context, env *Env) error {
	if env.Config.CustomerID == "" {
		env.Summary.Skip(h.Name(), "customer page", "no customer_id configured")
		return nil
	}
	if err := env.Page.Goto(ctx, env.Config.CustomerURL()); err != nil {
		return fmt.Errorf("open customer page: %w", err)
	}
	env.Page.Settle(ctx)
	if !IsAuthenticated(env.Page.URL()) {
		return fmt.Errorf("redirected to %s: %w", env.Page.URL(), ErrNotAuthenticated)
	}
	env.Page.Capture("customer_page", "Customer page loaded")

	env.Summary.Record(h.Name(), targets.GenerateTab, env.Locate(ctx, targets.GenerateTab), false)

	res, err := env.Act(ctx, targets.HistoryTab, locator.Click)
	switch {
	case err != nil:
		env.Summary.Add(Step{
			Scenario:   h.Name(),
			Name:       targets.HistoryTab,
			Status:     StatusFail,
			Detail:     err.Error(),
			Screenshot: env.Page.Capture("history_tab_click_failed", "History tab click failed"),
		})
		return nil
	case !res.Found:
		env.Summary.Add(Step{
			Scenario:   h.Name(),
			Name:       targets.HistoryTab,
			Status:     StatusFail,
			Detail:     res.String(),
			Screenshot: env.Page.Capture("history_tab_missing", "History tab not found"),
		})
		return nil
	}
	env.Page.Settle(ctx)
	env.Summary.Add(Step{
		Scenario:   h.Name(),
		Name:       targets.HistoryTab,
		Status:     StatusPass,
		Detail:     res.String(),
		Screenshot: env.Page.Capture("history_tab", "History tab opened"),
	})

	panel := env.Locate(ctx, targets.HistoryPanel)
	items := env.Count(ctx, targets.HistoryItems)
	images := env.Count(ctx, targets.GeneratedImages)
	switch {
	case panel.Found || items > 0:
		env.Summary.Pass(h.Name(), targets.HistoryPanel, fmt.Sprintf("%d items, %d generated images", items, images))
	case env.Locate(ctx, targets.EmptyState).Found:
		env.Summary.Info(h.Name(), targets.HistoryPanel, "empty state shown")
	default:
		env.Summary.Fail(h.Name(), targets.HistoryPanel, "neither history items nor empty state")
	}
	return nil
}
