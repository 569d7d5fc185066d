package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateExpressions(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		expected  []string
	}{
		{
			name:      "css is verbatim",
			candidate: CSS(`[data-testid="history-tab"]`),
			expected:  []string{`[data-testid="history-tab"]`},
		},
		{
			name:      "text with scope",
			candidate: Text("button", "History", "履歴"),
			expected:  []string{`button:has-text("History")`, `button:has-text("履歴")`},
		},
		{
			name:      "text without scope uses the text engine",
			candidate: Text("", "Googleで始める"),
			expected:  []string{"text=Googleで始める"},
		},
		{
			name:      "role with names",
			candidate: Role("tab", "History"),
			expected:  []string{`[role="tab"]:has-text("History")`},
		},
		{
			name:      "bare role",
			candidate: Role("tab"),
			expected:  []string{`[role="tab"]`},
		},
		{
			name:      "quotes are escaped",
			candidate: Text("button", `Say "hi"`),
			expected:  []string{`button:has-text("Say \"hi\"")`},
		},
		{
			name:      "text filter applies to every scope in a list",
			candidate: Text(`button, [role="tab"]`, "History"),
			expected:  []string{`button:has-text("History"), [role="tab"]:has-text("History")`},
		},
		{
			name:      "text without variants yields nothing",
			candidate: Text("button"),
			expected:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.candidate.Expressions())
		})
	}
}

func TestSplitSelectorList(t *testing.T) {
	tests := []struct {
		expr     string
		expected []string
	}{
		{"button", []string{"button"}},
		{"button, a", []string{"button", "a"}},
		{`[data-x="a,b"], a`, []string{`[data-x="a,b"]`, "a"}},
		{`a:has-text('x, y'),b`, []string{`a:has-text('x, y')`, "b"}},
		{`div:is(a, b), nav`, []string{"div:is(a, b)", "nav"}},
		{`a:has-text("say \"hi, there\""), b`, []string{`a:has-text("say \"hi, there\"")`, "b"}},
		{"button, ", []string{"button", ""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SplitSelectorList(tt.expr), tt.expr)
	}
}

func TestPredicates(t *testing.T) {
	history := ContainsAny("history", "履歴")
	assert.True(t, history("History"))
	assert.True(t, history("  GENERATION HISTORY "))
	assert.True(t, history("生成履歴"))
	assert.False(t, history("Settings"))
	assert.False(t, ContainsAny()("anything"))
	assert.False(t, ContainsAny("", "  ")("anything"), "blank variants never match")

	exact := Equals("Generate", "生成")
	assert.True(t, exact(" generate "))
	assert.True(t, exact("生成"))
	assert.False(t, exact("生成履歴"))
}
