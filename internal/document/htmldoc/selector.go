package htmldoc

import (
	"fmt"
	"regexp"
	"strings"

	"paintly-probe/internal/locator"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// member is one entry of a selector list: a CSS part compiled by cascadia
// plus an optional text filter written in Playwright's selector dialect.
type member struct {
	css  cascadia.Matcher
	text string
	// own restricts the text test to the element's direct text nodes, which
	// approximates Playwright's "smallest element containing the text".
	own bool
	// whole requires the text to equal the element text instead of containing it.
	whole bool

	match locator.Predicate
}

func (m *member) Match(n *html.Node) bool {
	if !m.css.Match(n) {
		return false
	}
	if m.match == nil {
		return true
	}
	if rawTextTags[n.Data] {
		return false
	}
	if m.own {
		return m.match(ownText(n))
	}
	return m.match(nodeText(n))
}

// query matches an element when any of its members does.
type query []*member

func (q query) Match(n *html.Node) bool {
	for _, m := range q {
		if m.Match(n) {
			return true
		}
	}
	return false
}

var textPseudo = regexp.MustCompile(`:(has-text|text)\(\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s*\)$`)

// parse understands three forms:
//
//	css selector                      button#history
//	css selector + text pseudo        [role="tab"]:has-text("History")
//	text engine                       text=生成履歴  /  text="Exact"
//
// In a selector list ("a, b:has-text('x')") each member carries its own
// text pseudo, as in Playwright.
func parse(expr string) (query, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	if rest, ok := strings.CutPrefix(expr, "text="); ok {
		text := unquote(rest)
		if text == "" {
			return nil, fmt.Errorf("empty text engine expression")
		}
		m := &member{css: cascadia.Selector(anyElement), text: text, own: true, whole: text != rest}
		m.compile()
		return query{m}, nil
	}

	parts := locator.SplitSelectorList(expr)
	q := make(query, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid selector %q: empty list member", expr)
		}
		m, err := parseMember(part)
		if err != nil {
			return nil, err
		}
		q = append(q, m)
	}
	return q, nil
}

func parseMember(expr string) (*member, error) {
	m := &member{}
	if sub := textPseudo.FindStringSubmatchIndex(expr); sub != nil {
		m.own = expr[sub[2]:sub[3]] == "text"
		if sub[4] >= 0 {
			m.text = strings.ReplaceAll(expr[sub[4]:sub[5]], `\"`, `"`)
		} else {
			m.text = strings.ReplaceAll(expr[sub[6]:sub[7]], `\'`, `'`)
		}
		expr = strings.TrimSpace(expr[:sub[0]])
		if expr == "" {
			expr = "*"
		}
	}

	sel, err := cascadia.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", expr, err)
	}
	m.css = sel
	m.compile()
	return m, nil
}

func (m *member) compile() {
	switch {
	case m.text == "":
	case m.whole:
		m.match = locator.Equals(m.text)
	default:
		m.match = locator.ContainsAny(m.text)
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
