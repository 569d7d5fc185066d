package scenario

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"paintly-probe/internal/locator"

	"github.com/google/uuid"
)

// Status is the outcome of one step.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusInfo Status = "info"
	StatusSkip Status = "skip"
)

func (s Status) icon() string {
	switch s {
	case StatusPass:
		return "✅"
	case StatusFail:
		return "❌"
	case StatusSkip:
		return "⏭️"
	default:
		return "ℹ️"
	}
}

// Step is one recorded check.
type Step struct {
	Scenario   string    `json:"scenario"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
	At         time.Time `json:"at"`
}

// Summary collects step outcomes for a run. Safe for concurrent use.
type Summary struct {
	// RunID tags the logs and reports of one run.
	RunID   string
	Title   string
	Started time.Time

	mu    sync.Mutex
	steps []Step
	now   func() time.Time
}

func NewSummary(title string) *Summary {
	return &Summary{RunID: uuid.NewString(), Title: title, Started: time.Now(), now: time.Now}
}

// Add appends a step, stamping it if At is zero.
func (s *Summary) Add(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step.At.IsZero() {
		step.At = s.now()
	}
	s.steps = append(s.steps, step)
}

func (s *Summary) Pass(scenario, name, detail string) {
	s.Add(Step{Scenario: scenario, Name: name, Status: StatusPass, Detail: detail})
}

func (s *Summary) Fail(scenario, name, detail string) {
	s.Add(Step{Scenario: scenario, Name: name, Status: StatusFail, Detail: detail})
}

func (s *Summary) Info(scenario, name, detail string) {
	s.Add(Step{Scenario: scenario, Name: name, Status: StatusInfo, Detail: detail})
}

func (s *Summary) Skip(scenario, name, detail string) {
	s.Add(Step{Scenario: scenario, Name: name, Status: StatusSkip, Detail: detail})
}

// Record adds a step for a locate result. A missing required target is a failure;
// a missing optional one is informational.
func (s *Summary) Record(scenario, target string, res locator.Result, required bool) {
	switch {
	case res.Found:
		s.Pass(scenario, target, res.String())
	case required:
		s.Fail(scenario, target, res.String())
	default:
		s.Info(scenario, target, res.String())
	}
}

// Steps returns a copy of the recorded steps in order.
func (s *Summary) Steps() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Step(nil), s.steps...)
}

// Failed reports whether any step failed.
func (s *Summary) Failed() bool {
	return s.Counts()[StatusFail] > 0
}

func (s *Summary) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, step := range s.Steps() {
		counts[step.Status]++
	}
	return counts
}

func (s *Summary) verdict() string {
	if s.Failed() {
		return "FAILED"
	}
	return "PASSED"
}

// Text renders the summary for logs and the terminal.
func (s *Summary) Text() string {
	var b strings.Builder
	counts := s.Counts()
	fmt.Fprintf(&b, "%s: %s (%d passed, %d failed, %d skipped)\n",
		s.Title, s.verdict(), counts[StatusPass], counts[StatusFail], counts[StatusSkip])
	fmt.Fprintf(&b, "run %s\n", s.RunID)
	for _, step := range s.Steps() {
		fmt.Fprintf(&b, "%s [%s] %s", step.Status.icon(), step.Scenario, step.Name)
		if step.Detail != "" {
			fmt.Fprintf(&b, ": %s", step.Detail)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Field caps for HTML rendering. Escaping grows a rune to at most 5
// bytes, which keeps every step line under Telegram's 4096-byte limit.
const (
	maxTitleRunes  = 200
	maxNameRunes   = 100
	maxDetailRunes = 500
)

// HTML renders the summary in Telegram's HTML subset.
func (s *Summary) HTML() string {
	var b strings.Builder
	counts := s.Counts()
	fmt.Fprintf(&b, "🧪 <b>%s</b>: %s\n", escape(s.Title, maxTitleRunes), s.verdict())
	fmt.Fprintf(&b, "✅ %d  ❌ %d  ⏭️ %d\n", counts[StatusPass], counts[StatusFail], counts[StatusSkip])
	fmt.Fprintf(&b, "<code>%s</code>\n\n", s.RunID)
	for _, step := range s.Steps() {
		fmt.Fprintf(&b, "%s <i>%s</i> %s", step.Status.icon(), escape(step.Scenario, maxNameRunes), escape(step.Name, maxNameRunes))
		if step.Detail != "" {
			fmt.Fprintf(&b, ": <code>%s</code>", escape(step.Detail, maxDetailRunes))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// escape clips s to max runes, marking the cut with an ellipsis, and
// escapes it for HTML.
func escape(s string, max int) string {
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max-1]) + "…"
	}
	return html.EscapeString(s)
}
