// Package dom builds HTML element trees and owns the page containers views
// render into. Nodes are golang.org/x/net/html nodes, so the same tree can
// be rendered to HTML, parsed back, and queried with goquery.
package dom

import (
	"bytes"
	"log"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attrs are element attributes. Keys are emitted in sorted order so that
// rendering the same tree twice yields identical bytes.
type Attrs map[string]string

// El creates an element with the given attributes and children. Nil children
// are skipped so callers can inline optional parts.
func El(tag string, attrs Attrs, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

// Text creates a text node. Content is escaped when rendered.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Raw parses trusted HTML (help pages, for example) into nodes suitable for
// appending to a <div>.
func Raw(fragment string) []*html.Node {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		log.Printf("dom: parse fragment: %v", err)
		return []*html.Node{Text(fragment)}
	}
	return nodes
}

// Group wraps several nodes so they can be passed where one is expected.
func Group(nodes ...*html.Node) *html.Node {
	return El("div", nil, nodes...)
}

// Link creates an anchor.
func Link(href, label string, attrs Attrs) *html.Node {
	a := Attrs{"href": href}
	for k, v := range attrs {
		a[k] = v
	}
	return El("a", a, Text(label))
}

// Render serializes nodes to HTML.
func Render(nodes ...*html.Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			log.Printf("dom: render: %v", err)
		}
	}
	return buf.String()
}

// RenderChildren serializes the children of n, excluding n itself.
func RenderChildren(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			log.Printf("dom: render: %v", err)
		}
	}
	return buf.String()
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// FindByID returns the first element under root (inclusive) whose id is id.
func FindByID(root *html.Node, id string) *html.Node {
	if root.Type == html.ElementNode {
		if v, ok := Attr(root, "id"); ok && v == id {
			return root
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := FindByID(c, id); n != nil {
			return n
		}
	}
	return nil
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// detach removes n from its parent so it can be appended elsewhere.
func detach(n *html.Node) *html.Node {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	return n
}
