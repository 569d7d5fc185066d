package targets

import (
	"fmt"
	"os"

	"paintly-probe/internal/locator"

	"gopkg.in/yaml.v3"
)

// ScanSpec is the YAML form of a scan fallback. Match words are compared
// case-insensitively; Exact requires the whole trimmed text to match.
type ScanSpec struct {
	Coarse string   `yaml:"coarse" json:"coarse"`
	Match  []string `yaml:"match" json:"match"`
	Exact  bool     `yaml:"exact" json:"exact"`
	Limit  int      `yaml:"limit" json:"limit"`
}

// Scan converts the YAML form into a locator scan.
func (s ScanSpec) Scan() locator.Scan {
	match := locator.ContainsAny(s.Match...)
	if s.Exact {
		match = locator.Equals(s.Match...)
	}
	return locator.Scan{Coarse: s.Coarse, Predicate: match, Limit: s.Limit}
}

// Override replaces the candidates and, when given, the scans of a target.
type Override struct {
	Candidates []locator.Candidate `yaml:"candidates"`
	Scans      []ScanSpec          `yaml:"scans"`
}

type overrideFile struct {
	Targets map[string]Override `yaml:"targets"`
}

// LoadOverrides reads a YAML file of the form
//
//	targets:
//	  history-tab:
//	    candidates:
//	      - {kind: css, value: '[data-testid="history"]'}
//	    scans:
//	      - {coarse: 'button', match: [履歴]}
func LoadOverrides(path string) (map[string]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	for name, o := range f.Targets {
		if len(o.Candidates) == 0 && len(o.Scans) == 0 {
			return nil, fmt.Errorf("target %q: override has no candidates or scans", name)
		}
		for i, c := range o.Candidates {
			switch c.Kind {
			case locator.KindCSS, locator.KindText, locator.KindRole:
			default:
				return nil, fmt.Errorf("target %q candidate %d: unknown kind %q", name, i, c.Kind)
			}
		}
		for i, s := range o.Scans {
			if s.Coarse == "" || len(s.Match) == 0 {
				return nil, fmt.Errorf("target %q scan %d: coarse and match are required", name, i)
			}
		}
	}
	return f.Targets, nil
}

// Apply merges overrides into the catalogue. Unknown names add new targets.
func (c *Catalogue) Apply(overrides map[string]Override) {
	for name, o := range overrides {
		t, ok := c.targets[name]
		if !ok {
			t = locator.Target{Name: name}
		}
		if len(o.Candidates) > 0 {
			t.Candidates = o.Candidates
		}
		if len(o.Scans) > 0 {
			scans := make([]locator.Scan, len(o.Scans))
			for i, s := range o.Scans {
				scans[i] = s.Scan()
			}
			t.Scans = scans
		}
		c.targets[name] = t
	}
}

// Load returns the default catalogue with the overrides at path applied.
// An empty path yields the defaults.
func Load(path string, scanLimit int) (*Catalogue, error) {
	c := Default()
	if path != "" {
		overrides, err := LoadOverrides(path)
		if err != nil {
			return nil, err
		}
		c.Apply(overrides)
	}
	if scanLimit > 0 {
		c.SetScanLimit(scanLimit)
	}
	return c, nil
}
