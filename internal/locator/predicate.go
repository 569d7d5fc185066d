package locator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Predicate decides whether an element's trimmed text content is the target.
// Predicates must be pure.
type Predicate func(text string) bool

// ContainsAny matches text containing any of the variants, ignoring case.
// Matching is done on NFC-normalised, Unicode case-folded strings so that
// "HISTORY" matches "history" and composed/decomposed kana compare equal.
func ContainsAny(variants ...string) Predicate {
	folded := make([]string, 0, len(variants))
	for _, v := range variants {
		if v = fold(v); v != "" {
			folded = append(folded, v)
		}
	}
	return func(text string) bool {
		t := fold(text)
		for _, v := range folded {
			if strings.Contains(t, v) {
				return true
			}
		}
		return false
	}
}

// Equals matches text equal to one of the variants, ignoring case.
func Equals(variants ...string) Predicate {
	folded := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		folded[fold(v)] = struct{}{}
	}
	return func(text string) bool {
		_, ok := folded[fold(text)]
		return ok
	}
}

// fold builds a fresh Caser each call; Casers are stateful.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
