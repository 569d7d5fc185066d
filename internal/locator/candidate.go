package locator

import (
	"fmt"
	"strings"
)

// Kind tells how a Candidate's value is turned into query expressions.
type Kind string

const (
	KindCSS  Kind = "css"
	KindText Kind = "text"
	KindRole Kind = "role"
)

// Candidate is one strategy for locating a target element.
type Candidate struct {
	Kind  Kind   `yaml:"kind" json:"kind"`
	Value string `yaml:"value" json:"value"`
	// Variants are equivalent texts for the same target, e.g. "History" and "履歴".
	Variants []string `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// CSS returns a candidate that uses expr verbatim.
func CSS(expr string) Candidate {
	return Candidate{Kind: KindCSS, Value: expr}
}

// Text returns a candidate matching elements inside scope whose text contains
// any of the variants. An empty scope searches the whole document.
func Text(scope string, variants ...string) Candidate {
	return Candidate{Kind: KindText, Value: scope, Variants: variants}
}

// Role returns a candidate matching [role=role] elements, optionally
// narrowed to those whose text contains one of the variants.
func Role(role string, variants ...string) Candidate {
	return Candidate{Kind: KindRole, Value: role, Variants: variants}
}

// Expressions expands the candidate into the query expressions it tries,
// in order.
func (c Candidate) Expressions() []string {
	switch c.Kind {
	case KindText:
		exprs := make([]string, 0, len(c.Variants))
		scopes := SplitSelectorList(c.Value)
		for _, v := range c.Variants {
			if c.Value == "" {
				exprs = append(exprs, "text="+v)
				continue
			}
			// the text filter binds to each scope of a list, not just the last
			parts := make([]string, 0, len(scopes))
			for _, scope := range scopes {
				if scope != "" {
					parts = append(parts, fmt.Sprintf("%s:has-text(%s)", scope, quote(v)))
				}
			}
			exprs = append(exprs, strings.Join(parts, ", "))
		}
		return exprs
	case KindRole:
		base := fmt.Sprintf("[role=%s]", quote(c.Value))
		if len(c.Variants) == 0 {
			return []string{base}
		}
		exprs := make([]string, 0, len(c.Variants))
		for _, v := range c.Variants {
			exprs = append(exprs, fmt.Sprintf("%s:has-text(%s)", base, quote(v)))
		}
		return exprs
	default:
		return []string{c.Value}
	}
}

func (c Candidate) String() string {
	if len(c.Variants) == 0 {
		return fmt.Sprintf("%s(%s)", c.Kind, c.Value)
	}
	return fmt.Sprintf("%s(%s|%s)", c.Kind, c.Value, strings.Join(c.Variants, ","))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// SplitSelectorList splits a selector list at top-level commas. Commas
// inside quotes, brackets or parentheses stay put. Parts are trimmed and
// may be empty.
func SplitSelectorList(expr string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(expr[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(expr[start:]))
}
