// Package scenario drives the probe flows (sign-in, history tab, comparison
// slider) against a page, recording every check in a Summary.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"paintly-probe/internal/config"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"

	"go.uber.org/zap"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTargetMissing    = errors.New("required element not found")
)

// Page is the part of a browser tab the scenarios drive.
type Page interface {
	Goto(ctx context.Context, url string) error
	URL() string
	Document() locator.Document
	// ClickAt clicks at fractions fx, fy of el's bounding box.
	ClickAt(ctx context.Context, el locator.Element, fx, fy float64) error
	// Drag presses at fraction fromX of el's width and releases at toX.
	Drag(ctx context.Context, el locator.Element, fromX, toX float64) error
	// Capture saves a screenshot and returns its path, or "" on failure.
	Capture(name, message string) string
	// Settle waits for the page to quiet down after an interaction.
	Settle(ctx context.Context)
}

// Scenario is one probe flow.
type Scenario interface {
	Name() string
	// Run returns an error only when later scenarios cannot proceed.
	// Missing elements are recorded in the summary instead.
	Run(ctx context.Context, env *Env) error
}

// Env is what scenarios share during a run.
type Env struct {
	Page    Page
	Locator *locator.Locator
	Targets *targets.Catalogue
	Config  *config.Config
	Summary *Summary
	Logger  *zap.Logger
}

// RunAll runs scenarios in order and stops at the first one that errors.
func RunAll(ctx context.Context, env *Env, scenarios ...Scenario) error {
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			env.Summary.Skip(s.Name(), "run", "cancelled")
			return err
		}
		env.Logger.Info("▶️ Starting scenario", zap.String("scenario", s.Name()))
		if err := s.Run(ctx, env); err != nil {
			shot := env.Page.Capture("error_"+s.Name(), "Capturing failure state")
			env.Summary.Add(Step{Scenario: s.Name(), Name: "aborted", Status: StatusFail, Detail: err.Error(), Screenshot: shot})
			env.Logger.Error("❌ Scenario aborted", zap.String("scenario", s.Name()), zap.Error(err))
			return fmt.Errorf("scenario %s: %w", s.Name(), err)
		}
		env.Logger.Info("✅ Scenario finished", zap.String("scenario", s.Name()))
	}
	return nil
}

func (e *Env) target(name string) (locator.Target, bool) {
	t, err := e.Targets.Get(name)
	if err != nil {
		e.Logger.Warn("⚠️ target not in catalogue", zap.String("target", name))
		return locator.Target{}, false
	}
	return t, true
}

// Locate runs the named target's probe against the current page.
func (e *Env) Locate(ctx context.Context, name string) locator.Result {
	t, ok := e.target(name)
	if !ok {
		return locator.NotFound
	}
	return e.Locator.Locate(ctx, e.Page.Document(), t)
}

// Act locates the named target and applies act with the locator's
// retry-once policy.
func (e *Env) Act(ctx context.Context, name string, act locator.Action) (locator.Result, error) {
	t, ok := e.target(name)
	if !ok {
		return locator.NotFound, nil
	}
	return e.Locator.LocateAndAct(ctx, e.Page.Document(), t, act)
}

// MustAct is Act where absence is an error.
func (e *Env) MustAct(ctx context.Context, name string, act locator.Action) (locator.Result, error) {
	res, err := e.Act(ctx, name, act)
	if err != nil {
		return res, err
	}
	if !res.Found {
		return res, fmt.Errorf("%w: %s", ErrTargetMissing, name)
	}
	return res, nil
}

// Count returns how many elements the first productive expression of the
// named target resolves to, visible or not.
func (e *Env) Count(ctx context.Context, name string) int {
	t, ok := e.target(name)
	if !ok {
		return 0
	}
	doc := e.Page.Document()
	for _, c := range t.Candidates {
		for _, expr := range c.Expressions() {
			els, err := doc.Query(ctx, expr)
			if err != nil {
				e.Logger.Debug("count query failed", zap.String("expression", expr), zap.Error(err))
				continue
			}
			if len(els) > 0 {
				return len(els)
			}
		}
	}
	return 0
}
