package htmldoc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerPage = `<!doctype html>
<html>
<head><title>顧客 | Paintly</title><script>var history = "履歴";</script></head>
<body>
  <div role="tablist">
    <button role="tab" data-state="active" value="generate">シミュレーション作成</button>
    <button role="tab" data-state="inactive" value="history">履歴</button>
    <button role="tab" data-state="inactive" value="info" disabled>顧客情報</button>
  </div>
  <div role="tabpanel" hidden><div class="generation-history">old</div></div>
  <div style="display: none"><button id="ghost">History</button></div>
  <div aria-hidden="true"><span class="history-item">x</span></div>
  <form>
    <input type="hidden" name="csrf" value="t">
    <input type="email" name="email">
    <textarea name="note"></textarea>
    <button type="submit"><span>Paintlyにサインイン</span></button>
  </form>
</body>
</html>`

func load(t *testing.T) *Document {
	t.Helper()
	doc, err := FromString(customerPage)
	require.NoError(t, err)
	return doc
}

func TestQuery(t *testing.T) {
	doc := load(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		expr  string
		count int
	}{
		{"plain css", `[role="tab"]`, 3},
		{"attribute value", `[value="history"]`, 1},
		{"selector list", `input[type="email"], textarea`, 2},
		{"has-text matches ancestors too", `form:has-text("サインイン")`, 1},
		{"has-text is case-insensitive", `button:has-text("HISTORY")`, 1},
		{"text pseudo needs own text", `button:text("サインイン")`, 0},
		{"text pseudo own text", `span:text("サインイン")`, 1},
		{"text engine", `text=履歴`, 1},
		{"quoted text engine is whole-text", `text="履"`, 0},
		{"bare pseudo", `:has-text("シミュレーション")`, 4},
		{"no match", `.image-comparison`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := doc.Query(ctx, tt.expr)
			require.NoError(t, err)
			assert.Len(t, els, tt.count)
		})
	}
}

func TestQuery_SelectorListsScopeTextPerMember(t *testing.T) {
	doc, err := FromString(`<body><button>Settings</button><a>History</a><a>Other</a><span data-x="a,b">x</span></body>`)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name  string
		expr  string
		count int
	}{
		{"pseudo binds to last member only", `button, a:has-text("History")`, 2},
		{"each member has its own pseudo", `button:has-text("Settings"), a:has-text("Other")`, 2},
		{"single-quoted has-text", `a:has-text('History')`, 1},
		{"single-quoted text pseudo", `a:text('Other')`, 1},
		{"comma inside attribute value", `[data-x="a,b"], button`, 2},
		{"union keeps document order without duplicates", `a, a:has-text("History")`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := doc.Query(ctx, tt.expr)
			require.NoError(t, err)
			assert.Len(t, els, tt.count)
		})
	}

	els, err := doc.Query(ctx, `a:has-text("Other"), button`)
	require.NoError(t, err)
	require.Len(t, els, 2)
	assert.Equal(t, `button "Settings"`, els[0].(*Element).String())
}

func TestQuery_MalformedExpressions(t *testing.T) {
	doc := load(t)
	for _, expr := range []string{"[[bad", "", "text=", "button:has-text(", "button, ", ", a"} {
		_, err := doc.Query(context.Background(), expr)
		assert.Error(t, err, expr)
	}
}

func TestQuery_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := load(t).Query(ctx, "button")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsVisible(t *testing.T) {
	doc := load(t)
	ctx := context.Background()

	visible := func(expr string) bool {
		els, err := doc.Query(ctx, expr)
		require.NoError(t, err)
		require.NotEmpty(t, els, expr)
		return els[0].IsVisible(ctx)
	}

	assert.True(t, visible(`[value="history"]`))
	assert.True(t, visible(`input[type="email"]`))
	assert.False(t, visible(".generation-history"), "hidden ancestor")
	assert.False(t, visible("#ghost"), "display:none ancestor")
	assert.False(t, visible(".history-item"), "aria-hidden ancestor")
	assert.False(t, visible(`input[name="csrf"]`), "hidden input")
	assert.False(t, visible("title"))
}

func TestClickAndFill(t *testing.T) {
	doc := load(t)
	ctx := context.Background()

	els, err := doc.Query(ctx, `[value="history"]`)
	require.NoError(t, err)
	require.NoError(t, els[0].Click(ctx))

	els, err = doc.Query(ctx, `[value="info"]`)
	require.NoError(t, err)
	assert.Error(t, els[0].Click(ctx), "disabled buttons refuse clicks")

	assert.Equal(t, []string{`button "履歴"`}, doc.Clicked())

	els, err = doc.Query(ctx, `input[type="email"]`)
	require.NoError(t, err)
	require.NoError(t, els[0].Fill(ctx, "someone@example.com"))
	assert.Equal(t, "someone@example.com", els[0].(*Element).Value())

	els, err = doc.Query(ctx, `[role="tablist"]`)
	require.NoError(t, err)
	assert.Error(t, els[0].Fill(ctx, "x"))

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, out, `value="someone@example.com"`)
}

func TestTextContent(t *testing.T) {
	doc := load(t)
	els, err := doc.Query(context.Background(), `button[type="submit"]`)
	require.NoError(t, err)
	text, err := els[0].TextContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Paintlyにサインイン", text)
}
