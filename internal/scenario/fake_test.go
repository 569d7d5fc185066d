package scenario

import (
	"context"
	"fmt"
	"testing"

	"paintly-probe/internal/config"
	"paintly-probe/internal/document/htmldoc"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/targets"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const baseURL = "https://app.example.test"

// fakePage serves canned HTML per URL. Queued urls override what URL()
// reports, one per call, to simulate redirects after sign-in.
type fakePage struct {
	pages map[string]string
	doc   *htmldoc.Document
	url   string
	urls  []string

	gotoErr  error
	clickErr error
	clicksAt []float64
	drags    [][2]float64
	shots    []string

	// onSettle lets a test change the page the way the app would after
	// an interaction.
	onSettle func(f *fakePage)
}

func (f *fakePage) Goto(ctx context.Context, url string) error {
	if f.gotoErr != nil {
		return f.gotoErr
	}
	body, ok := f.pages[url]
	if !ok {
		return fmt.Errorf("no page for %s", url)
	}
	doc, err := htmldoc.FromString(body)
	if err != nil {
		return err
	}
	f.doc, f.url = doc, url
	return nil
}

func (f *fakePage) URL() string {
	if len(f.urls) == 0 {
		return f.url
	}
	u := f.urls[0]
	if len(f.urls) > 1 {
		f.urls = f.urls[1:]
	}
	return u
}

func (f *fakePage) Document() locator.Document { return f.doc }

func (f *fakePage) ClickAt(ctx context.Context, el locator.Element, fx, fy float64) error {
	if _, ok := el.(*htmldoc.Element); !ok {
		return fmt.Errorf("unexpected element %T", el)
	}
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicksAt = append(f.clicksAt, fx)
	return nil
}

func (f *fakePage) Drag(ctx context.Context, el locator.Element, fromX, toX float64) error {
	f.drags = append(f.drags, [2]float64{fromX, toX})
	return nil
}

func (f *fakePage) Capture(name, message string) string {
	f.shots = append(f.shots, name)
	return "shots/" + name + ".png"
}

func (f *fakePage) Settle(ctx context.Context) {
	if f.onSettle != nil {
		f.onSettle(f)
	}
}

func (f *fakePage) load(t *testing.T, body string) {
	t.Helper()
	doc, err := htmldoc.FromString(body)
	require.NoError(t, err)
	f.doc = doc
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:         baseURL,
		CustomerID:      "42",
		AuthMode:        config.AuthCredentials,
		Email:           "probe@example.test",
		Password:        "secret",
		AuthPollSeconds: 3,
	}
}

func newEnv(page *fakePage, cfg *config.Config) *Env {
	return &Env{
		Page:    page,
		Locator: locator.New(nil),
		Targets: targets.Default(),
		Config:  cfg,
		Summary: NewSummary("test run"),
		Logger:  zap.NewNop(),
	}
}

func stepNamed(t *testing.T, s *Summary, name string) Step {
	t.Helper()
	for _, step := range s.Steps() {
		if step.Name == name {
			return step
		}
	}
	require.Failf(t, "step not recorded", "no step %q in %v", name, s.Steps())
	return Step{}
}
