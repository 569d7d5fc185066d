package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const page = `<html><body>
<div role="tablist">
  <button role="tab" data-state="active">シミュレーション</button>
  <button role="tab" data-state="inactive">生成履歴</button>
</div>
<form><input type="email" name="email"></form>
</body></html>`

func newRouter() *gin.Engine {
	return New(locator.New(nil), targets.Default(), nil).Router()
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ProbeResponse {
	t.Helper()
	var resp ProbeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListTargets(t *testing.T) {
	w := do(t, newRouter(), http.MethodGet, "/targets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Targets []targetView `json:"targets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Targets)

	var history *targetView
	for i := range body.Targets {
		if body.Targets[i].Name == targets.HistoryTab {
			history = &body.Targets[i]
		}
	}
	require.NotNil(t, history)
	assert.Equal(t, targets.ClickableScan, history.Scans[0].Coarse)
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name     string
		req      ProbeRequest
		found    bool
		index    int
		strategy locator.Strategy
	}{
		{
			name:     "catalogue target",
			req:      ProbeRequest{HTML: page, Target: targets.HistoryTab},
			found:    true,
			index:    2,
			strategy: locator.StrategyCandidate,
		},
		{
			name:  "absent target",
			req:   ProbeRequest{HTML: page, Target: targets.Slider},
			found: false,
			index: -1,
		},
		{
			name: "ad-hoc candidates",
			req: ProbeRequest{HTML: page, Candidates: []locator.Candidate{
				locator.CSS("[[bad"),
				locator.CSS(`input[name="email"]`),
			}},
			found:    true,
			index:    1,
			strategy: locator.StrategyCandidate,
		},
		{
			name: "ad-hoc scan",
			req: ProbeRequest{HTML: page, Scans: []targets.ScanSpec{
				{Coarse: `[data-state="active"], [data-state="inactive"]`, Match: []string{"履歴"}},
			}},
			found:    true,
			index:    1,
			strategy: locator.StrategyScan,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newRouter(), http.MethodPost, "/probe", tt.req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decode(t, w)
			assert.Equal(t, tt.found, resp.Found)
			assert.Equal(t, tt.index, resp.Index)
			assert.Equal(t, tt.strategy, resp.Strategy)
		})
	}
}

func TestProbe_Click(t *testing.T) {
	w := do(t, newRouter(), http.MethodPost, "/probe", ProbeRequest{
		HTML:   page,
		Target: targets.HistoryTab,
		Action: "click",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, []string{`button "生成履歴"`}, resp.Clicked)
	assert.Equal(t, `button "生成履歴"`, resp.Element)
	assert.Empty(t, resp.Error)
}

func TestProbe_ActionFailure(t *testing.T) {
	w := do(t, newRouter(), http.MethodPost, "/probe", ProbeRequest{
		HTML:       `<button disabled>履歴</button>`,
		Candidates: []locator.Candidate{locator.Text("button", "履歴")},
		Action:     "click",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Found)
	assert.Contains(t, resp.Error, "disabled")
}

func TestProbe_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing html", ProbeRequest{Target: targets.HistoryTab}, http.StatusBadRequest},
		{"no target", ProbeRequest{HTML: page}, http.StatusBadRequest},
		{"unknown target", ProbeRequest{HTML: page, Target: "nope"}, http.StatusNotFound},
		{"bad action", ProbeRequest{HTML: page, Target: targets.HistoryTab, Action: "hover"}, http.StatusBadRequest},
		{"oversized", ProbeRequest{HTML: strings.Repeat("a", MaxSnapshotBytes+1), Target: targets.HistoryTab}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newRouter(), http.MethodPost, "/probe", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
