// Package htmldoc implements the locator's Document over a static HTML
// snapshot. It backs unit tests, the HTTP probe service and offline probing
// of saved pages.
package htmldoc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"paintly-probe/internal/locator"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page. Clicks are recorded rather than
// dispatched; fills update the element's value attribute.
type Document struct {
	doc *goquery.Document

	mu     sync.Mutex
	clicks []string
}

// New parses HTML from r.
func New(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// FromString parses an HTML string.
func FromString(s string) (*Document, error) {
	return New(strings.NewReader(s))
}

// FromFile parses a saved page.
func FromFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return New(f)
}

// Query resolves expr to elements in document order.
func (d *Document) Query(ctx context.Context, expr string) ([]locator.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := parse(expr)
	if err != nil {
		return nil, err
	}

	var out []locator.Element
	for _, n := range cascadia.QueryAll(d.doc.Get(0), q) {
		out = append(out, &Element{doc: d, node: n})
	}
	return out, nil
}

// Clicked returns descriptions of clicked elements in click order.
func (d *Document) Clicked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// HTML renders the current document, including filled values.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

func (d *Document) recordClick(desc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks = append(d.clicks, desc)
}

// Element is a node in a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

func (e *Element) selection() *goquery.Selection {
	return e.doc.doc.FindNodes(e.node)
}

// IsVisible applies a markup-only visibility heuristic: the element and
// its ancestors must not be hidden by attribute or inline style.
func (e *Element) IsVisible(ctx context.Context) bool {
	if e.node.Parent == nil {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if hiddenNode(n) {
			return false
		}
	}
	return true
}

// TextContent returns the concatenated text of the element's subtree.
func (e *Element) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return nodeText(e.node), nil
}

// Click records the click. Disabled controls refuse it.
func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := attr(e.node, "disabled"); ok {
		return fmt.Errorf("element %s is disabled", describe(e.node))
	}
	e.doc.recordClick(describe(e.node))
	return nil
}

// Fill sets the value of an input or textarea.
func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch e.node.Data {
	case "input", "textarea":
	default:
		if v, _ := attr(e.node, "contenteditable"); v != "true" {
			return fmt.Errorf("element %s is not fillable", describe(e.node))
		}
	}
	e.selection().SetAttr("value", value)
	return nil
}

// Value returns the element's value attribute.
func (e *Element) Value() string {
	v, _ := attr(e.node, "value")
	return v
}

// Attr returns an attribute of the element.
func (e *Element) Attr(name string) (string, bool) {
	return attr(e.node, name)
}

func (e *Element) String() string {
	return describe(e.node)
}

// text selectors never match inside these
var rawTextTags = map[string]bool{
	"script": true, "style": true, "template": true, "noscript": true,
}

var invisibleTags = map[string]bool{
	"head": true, "script": true, "style": true, "template": true,
	"noscript": true, "title": true, "meta": true, "link": true,
}

func hiddenNode(n *html.Node) bool {
	if invisibleTags[n.Data] {
		return true
	}
	if _, ok := attr(n, "hidden"); ok {
		return true
	}
	if v, _ := attr(n, "aria-hidden"); v == "true" {
		return true
	}
	if n.Data == "input" {
		if v, _ := attr(n, "type"); strings.EqualFold(v, "hidden") {
			return true
		}
	}
	if style, ok := attr(n, "style"); ok {
		s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
		if strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden") {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func anyElement(n *html.Node) bool {
	return n.Type == html.ElementNode
}

func describe(n *html.Node) string {
	var b strings.Builder
	b.WriteString(n.Data)
	if id, ok := attr(n, "id"); ok && id != "" {
		b.WriteString("#" + id)
	}
	if class, ok := attr(n, "class"); ok {
		for _, c := range strings.Fields(class) {
			b.WriteString("." + c)
		}
	}
	if text := strings.Join(strings.Fields(nodeText(n)), " "); text != "" {
		if len([]rune(text)) > 40 {
			text = string([]rune(text)[:40]) + "…"
		}
		fmt.Fprintf(&b, " %q", text)
	}
	return b.String()
}
