package targets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paintly-probe/internal/document/htmldoc"
	"paintly-probe/internal/locator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.FromFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return doc
}

func TestDefaultTargetsAgainstPages(t *testing.T) {
	loc := locator.New(nil)

	tests := []struct {
		page     string
		target   string
		found    bool
		index    int
		strategy locator.Strategy
	}{
		{"customer_testid.html", HistoryTab, true, 0, locator.StrategyCandidate},
		{"customer_radix.html", HistoryTab, true, 2, locator.StrategyCandidate},
		{"customer_hidden_first.html", HistoryTab, true, 3, locator.StrategyCandidate},
		{"customer_divtabs.html", HistoryTab, true, 3, locator.StrategyScan},
		{"signin.html", HistoryTab, false, -1, locator.StrategyNone},

		{"customer_testid.html", GenerateTab, true, 0, locator.StrategyCandidate},
		{"customer_radix.html", GenerateTab, true, 3, locator.StrategyCandidate},
		{"customer_testid.html", HistoryPanel, true, 0, locator.StrategyCandidate},
		{"customer_radix.html", HistoryPanel, false, -1, locator.StrategyNone},
		{"customer_radix.html", EmptyState, true, 0, locator.StrategyCandidate},
		{"customer_testid.html", DetailButton, true, 0, locator.StrategyCandidate},
		{"customer_testid.html", Sidebar, true, 0, locator.StrategyCandidate},
		{"dashboard_sidebar.html", Sidebar, true, 5, locator.StrategyCandidate},
		{"dashboard_sidebar.html", CloseSidebar, true, 1, locator.StrategyCandidate},
		{"dashboard_sidebar.html", NewCustomer, true, 1, locator.StrategyCandidate},
		{"customer_testid.html", CloseSidebar, false, -1, locator.StrategyNone},

		{"detail_slider.html", Slider, true, 0, locator.StrategyCandidate},
		{"detail_slider.html", SliderHandle, true, 0, locator.StrategyCandidate},
		{"detail_slider.html", SliderImages, true, 0, locator.StrategyCandidate},
		{"customer_testid.html", Slider, false, -1, locator.StrategyNone},

		{"signin.html", GoogleButton, true, 1, locator.StrategyCandidate},
		{"signin.html", EmailInput, true, 0, locator.StrategyCandidate},
		{"signin.html", PasswordInput, true, 0, locator.StrategyCandidate},
		{"signin.html", SignInSubmit, true, 0, locator.StrategyCandidate},
		{"customer_divtabs.html", GoogleButton, false, -1, locator.StrategyNone},
	}

	cat := Default()
	for _, tt := range tests {
		t.Run(tt.page+"/"+tt.target, func(t *testing.T) {
			res := loc.Locate(context.Background(), fixture(t, tt.page), cat.MustGet(tt.target))
			assert.Equal(t, tt.found, res.Found, res.String())
			assert.Equal(t, tt.index, res.Index)
			assert.Equal(t, tt.strategy, res.Strategy)
		})
	}
}

func TestHistoryTabScanFindsDivTab(t *testing.T) {
	res := locator.New(nil).Locate(context.Background(), fixture(t, "customer_divtabs.html"), Default().MustGet(HistoryTab))
	require.True(t, res.Found)
	assert.Equal(t, ClickableScan, res.Expression)
	text, err := res.Element.TextContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "History", strings.TrimSpace(text))
}

func TestCatalogue(t *testing.T) {
	cat := Default()

	_, err := cat.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Panics(t, func() { cat.MustGet("nope") })

	names := cat.Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, HistoryTab)
	assert.Contains(t, names, GooglePasswordNext)

	for _, name := range names {
		target := cat.MustGet(name)
		assert.Equal(t, name, target.Name)
		assert.NotEmpty(t, target.Candidates, name)
	}
}

func TestSetScanLimit(t *testing.T) {
	cat := New(locator.Target{
		Name: "x",
		Scans: []locator.Scan{
			{Coarse: "a"},
			{Coarse: "b", Limit: 5},
		},
	})
	cat.SetScanLimit(40)
	scans := cat.MustGet("x").Scans
	assert.Equal(t, 40, scans[0].Limit)
	assert.Equal(t, 5, scans[1].Limit)
}

func writeOverrides(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithOverrides(t *testing.T) {
	path := writeOverrides(t, `
targets:
  history-tab:
    candidates:
      - kind: css
        value: '[data-qa="tab-history"]'
      - kind: text
        value: button
        variants: [履歴]
  export-button:
    candidates:
      - kind: role
        value: button
        variants: [エクスポート]
    scans:
      - coarse: 'button, a'
        match: [export, エクスポート]
        limit: 10
`)

	cat, err := Load(path, 30)
	require.NoError(t, err)

	history := cat.MustGet(HistoryTab)
	require.Len(t, history.Candidates, 2)
	assert.Equal(t, locator.CSS(`[data-qa="tab-history"]`), history.Candidates[0])
	assert.Len(t, history.Scans, 2, "scans survive a candidates-only override")
	assert.Equal(t, 30, history.Scans[0].Limit)

	export := cat.MustGet("export-button")
	require.Len(t, export.Scans, 1)
	assert.Equal(t, 10, export.Scans[0].Limit)
	assert.True(t, export.Scans[0].Predicate("Export CSV"))

	doc, err := htmldoc.FromString(`<button>CSV エクスポート</button>`)
	require.NoError(t, err)
	res := locator.New(nil).Locate(context.Background(), doc, export)
	assert.True(t, res.Found)
	assert.Equal(t, locator.StrategyScan, res.Strategy)
}

func TestLoadOverrides_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty override", "targets:\n  x: {}\n", "no candidates"},
		{"bad kind", "targets:\n  x:\n    candidates:\n      - {kind: xpath, value: //a}\n", "unknown kind"},
		{"scan without match", "targets:\n  x:\n    scans:\n      - {coarse: a}\n", "required"},
		{"broken yaml", "targets: [\n", "error parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOverrides(writeOverrides(t, tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_NoPath(t *testing.T) {
	cat, err := Load("", 0)
	require.NoError(t, err)
	assert.Equal(t, Default().Names(), cat.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), 0)
	assert.Error(t, err)
}

func TestScanSpec_Exact(t *testing.T) {
	s := ScanSpec{Coarse: "button", Match: []string{"詳細"}, Exact: true}.Scan()
	assert.True(t, s.Predicate(" 詳細 "))
	assert.False(t, s.Predicate("詳細を見る"))
}
