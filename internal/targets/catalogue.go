// Package targets holds the curated element targets for the Paintly app
// and loads per-deployment overrides.
package targets

import (
	"errors"
	"fmt"
	"sort"

	"paintly-probe/internal/locator"
)

// Target names.
const (
	HistoryTab         = "history-tab"
	GenerateTab        = "generate-tab"
	GenerateButton     = "generate-button"
	HistoryPanel       = "history-panel"
	HistoryItems       = "history-items"
	EmptyState         = "empty-state"
	DetailButton       = "detail-button"
	GeneratedImages    = "generated-images"
	Slider             = "slider"
	SliderHandle       = "slider-handle"
	SliderImages       = "slider-images"
	Sidebar            = "sidebar"
	CloseSidebar       = "close-sidebar"
	NewCustomer        = "new-customer"
	GoogleButton       = "google-button"
	SignInSubmit       = "signin-submit"
	EmailInput         = "email-input"
	PasswordInput      = "password-input"
	GoogleIdentifier   = "google-identifier"
	GoogleIdentifyNext = "google-identifier-next"
	GooglePassword     = "google-password"
	GooglePasswordNext = "google-password-next"
)

var ErrUnknownTarget = errors.New("unknown target")

// ClickableScan is the coarse set scanned when curated candidates for a
// clickable control all miss.
const ClickableScan = `button, [role="tab"], .tab, div[onclick], a`

// RadixTabScan covers Radix tab triggers, which expose data-state.
const RadixTabScan = `[data-state="active"], [data-state="inactive"]`

// Catalogue maps target names to locator targets.
type Catalogue struct {
	targets map[string]locator.Target
}

// New returns a catalogue holding ts.
func New(ts ...locator.Target) *Catalogue {
	c := &Catalogue{targets: make(map[string]locator.Target, len(ts))}
	for _, t := range ts {
		c.targets[t.Name] = t
	}
	return c
}

// Get returns the named target.
func (c *Catalogue) Get(name string) (locator.Target, error) {
	t, ok := c.targets[name]
	if !ok {
		return locator.Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
	return t, nil
}

// MustGet is Get for names known at compile time.
func (c *Catalogue) MustGet(name string) locator.Target {
	t, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Names lists target names in sorted order.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set adds or replaces a target.
func (c *Catalogue) Set(t locator.Target) {
	c.targets[t.Name] = t
}

// SetScanLimit applies limit to every scan that does not set its own.
func (c *Catalogue) SetScanLimit(limit int) {
	for name, t := range c.targets {
		scans := make([]locator.Scan, len(t.Scans))
		for i, s := range t.Scans {
			if s.Limit <= 0 {
				s.Limit = limit
			}
			scans[i] = s
		}
		t.Scans = scans
		c.targets[name] = t
	}
}
