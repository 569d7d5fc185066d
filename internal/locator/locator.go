package locator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultScanLimit caps a scan when the caller passes a non-positive limit.
const DefaultScanLimit = 20

// Scan is one exhaustive-scan fallback: a coarse selector covering a
// superset of plausible targets plus the text test that picks the target.
type Scan struct {
	Coarse    string
	Predicate Predicate
	Limit     int
}

// Target is a named logical element (e.g. "history tab") with a curated
// candidate list and zero or more scan fallbacks tried in order.
type Target struct {
	Name       string
	Candidates []Candidate
	Scans      []Scan
}

// Result is the outcome of one probe. A zero-value Found=false result is
// the normal "target absent" answer, not a failure.
type Result struct {
	Found   bool
	Element Element
	// Index is the matched candidate's position for first-match probes and
	// the element's position in the coarse result set for scans; -1 when
	// nothing matched.
	Index      int
	Expression string
	Strategy   Strategy
}

// Strategy records which tier produced a result.
type Strategy string

const (
	StrategyNone      Strategy = ""
	StrategyCandidate Strategy = "candidate"
	StrategyScan      Strategy = "scan"
)

// NotFound is returned when every strategy is exhausted.
var NotFound = Result{Index: -1}

func (r Result) String() string {
	if !r.Found {
		return "not found"
	}
	return fmt.Sprintf("found by %s #%d (%s)", r.Strategy, r.Index, r.Expression)
}

// Locator runs probes against a Document. It holds no page state and is
// safe to reuse, but a single probe is strictly sequential.
type Locator struct {
	logger *zap.Logger
}

// New creates a Locator. A nil logger discards output.
func New(logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{logger: logger.Named("locator")}
}

// LocateFirstMatch tries each candidate in order and returns the first whose
// first resolved element is visible. Candidate errors are logged and count
// as non-matches. If ctx is cancelled the probe stops and reports NotFound.
func (l *Locator) LocateFirstMatch(ctx context.Context, doc Document, candidates []Candidate) Result {
	for i, c := range candidates {
		if ctx.Err() != nil {
			l.logger.Debug("probe cancelled", zap.Int("candidate", i), zap.Error(ctx.Err()))
			return NotFound
		}
		exprs := c.Expressions()
		if len(exprs) == 0 {
			l.logger.Warn("candidate has no expressions", zap.Int("candidate", i), zap.Stringer("value", c))
			continue
		}
		for _, expr := range exprs {
			els, err := doc.Query(ctx, expr)
			if err != nil {
				l.logger.Warn("⚠️ candidate failed to resolve", zap.Int("candidate", i), zap.String("expression", expr), zap.Error(err))
				continue
			}
			if len(els) == 0 {
				continue
			}
			if els[0].IsVisible(ctx) {
				l.logger.Debug("candidate matched", zap.Int("candidate", i), zap.String("expression", expr))
				return Result{Found: true, Element: els[0], Index: i, Expression: expr, Strategy: StrategyCandidate}
			}
		}
	}
	return NotFound
}

// LocateByScan resolves coarse, inspects at most limit elements in document
// order and returns the first whose trimmed text satisfies match. Elements
// whose text cannot be read are skipped.
func (l *Locator) LocateByScan(ctx context.Context, doc Document, coarse string, match Predicate, limit int) Result {
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	els, err := doc.Query(ctx, coarse)
	if err != nil {
		l.logger.Warn("⚠️ coarse selector failed to resolve", zap.String("expression", coarse), zap.Error(err))
		return NotFound
	}
	l.logger.Debug("scanning elements", zap.String("expression", coarse), zap.Int("count", len(els)), zap.Int("limit", limit))
	for i, el := range els {
		if i >= limit {
			break
		}
		if ctx.Err() != nil {
			return NotFound
		}
		text, err := el.TextContent(ctx)
		if err != nil {
			l.logger.Debug("skipping unreadable element", zap.Int("element", i), zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if match(text) {
			l.logger.Debug("scan matched", zap.Int("element", i), zap.String("text", text))
			return Result{Found: true, Element: el, Index: i, Expression: coarse, Strategy: StrategyScan}
		}
	}
	return NotFound
}

// Locate applies the two-tier policy: curated candidates first, then each
// scan fallback in order.
func (l *Locator) Locate(ctx context.Context, doc Document, target Target) Result {
	if res := l.LocateFirstMatch(ctx, doc, target.Candidates); res.Found {
		l.logger.Info("🎯 target located", zap.String("target", target.Name), zap.Stringer("result", res))
		return res
	}
	for _, s := range target.Scans {
		if s.Predicate == nil {
			continue
		}
		l.logger.Info("🔎 curated candidates missed, scanning", zap.String("target", target.Name), zap.String("coarse", s.Coarse))
		if res := l.LocateByScan(ctx, doc, s.Coarse, s.Predicate, s.Limit); res.Found {
			l.logger.Info("🎯 target located", zap.String("target", target.Name), zap.Stringer("result", res))
			return res
		}
	}
	l.logger.Info("target absent", zap.String("target", target.Name))
	return NotFound
}

// Action is what a caller does with a located element.
type Action func(ctx context.Context, el Element) error

// Click is the Action most callers want.
func Click(ctx context.Context, el Element) error { return el.Click(ctx) }

// Fill returns an Action that types value into the element.
func Fill(value string) Action {
	return func(ctx context.Context, el Element) error { return el.Fill(ctx, value) }
}

// LocateAndAct locates target and runs act on it. If the action fails (for
// example the element went stale between the visibility check and the
// click) the whole locate-then-act sequence is retried once. The returned
// error is the last action error; a NotFound result carries no error.
func (l *Locator) LocateAndAct(ctx context.Context, doc Document, target Target, act Action) (Result, error) {
	var (
		res     Result
		lastErr error
	)
	for attempt := 1; attempt <= 2; attempt++ {
		res = l.Locate(ctx, doc, target)
		if !res.Found {
			if lastErr != nil {
				return res, fmt.Errorf("act on %s: %w", target.Name, lastErr)
			}
			return res, nil
		}
		if lastErr = act(ctx, res.Element); lastErr == nil {
			return res, nil
		}
		l.logger.Warn("⚠️ action on located element failed", zap.String("target", target.Name), zap.Int("attempt", attempt), zap.Error(lastErr))
	}
	return res, fmt.Errorf("act on %s: %w", target.Name, lastErr)
}
