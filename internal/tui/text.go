package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// target is something the reader can follow by number: a link to a route or
// a favorite toggle.
type target struct {
	Href string
	Kind string
	ID   string
	On   bool
}

func (t target) isFavorite() bool { return t.Kind != "" }

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "nav": true, "ul": true, "ol": true,
	"table": true, "tr": true, "blockquote": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "form": true, "header": true, "footer": true, "pre": true,
}

const barCells = 20

// textRenderer flattens a DOM subtree into terminal lines.
type textRenderer struct {
	lines   []string
	cur     strings.Builder
	targets []target
	depth   int
}

// renderText renders the nodes of sel as text. Links and favorite toggles
// are numbered from 1 in document order.
func renderText(sel *goquery.Selection) (string, []target) {
	r := &textRenderer{}
	for _, n := range sel.Nodes {
		r.walk(n)
	}
	r.flush()
	text := strings.Join(trimBlank(r.lines), "\n")
	return text, r.targets
}

func (r *textRenderer) flush() {
	line := strings.TrimRight(r.cur.String(), " ")
	r.cur.Reset()
	if strings.TrimSpace(line) == "" {
		if n := len(r.lines); n > 0 && r.lines[n-1] != "" {
			r.lines = append(r.lines, "")
		}
		return
	}
	r.lines = append(r.lines, line)
}

func (r *textRenderer) write(s string) {
	if r.cur.Len() == 0 && r.depth > 0 {
		r.cur.WriteString(strings.Repeat("  ", r.depth-1))
	}
	r.cur.WriteString(s)
}

func (r *textRenderer) text(s string) {
	if s == "" {
		return
	}
	words := strings.Fields(s)
	lead := s[0] == ' ' || s[0] == '\n' || s[0] == '\t'
	trail := strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n")
	if len(words) == 0 {
		if r.cur.Len() > 0 && !strings.HasSuffix(r.cur.String(), " ") {
			r.cur.WriteString(" ")
		}
		return
	}
	if lead && r.cur.Len() > 0 && !strings.HasSuffix(r.cur.String(), " ") {
		r.cur.WriteString(" ")
	}
	r.write(strings.Join(words, " "))
	if trail {
		r.cur.WriteString(" ")
	}
}

func (r *textRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.walk(c)
		}
		return
	}

	s := goquery.NewDocumentFromNode(n).Selection
	switch n.Data {
	case "script", "style", "input", "template":
		return
	case "br":
		r.flush()
		return
	case "form":
		if s.HasClass("tg-fav") {
			r.favorite(s)
			return
		}
	case "a":
		r.children(n)
		if href, ok := s.Attr("href"); ok && strings.HasPrefix(href, "#") {
			r.targets = append(r.targets, target{Href: href})
			r.cur.WriteString(linkStyle.Render(fmt.Sprintf("[%d]", len(r.targets))))
		}
		return
	case "td", "th":
		if s.Prev().Length() > 0 {
			r.cur.WriteString("  ")
		}
		r.children(n)
		return
	case "li":
		r.flush()
		r.write("• ")
		r.children(n)
		r.flush()
		return
	case "ul", "ol":
		r.flush()
		r.depth++
		r.children(n)
		r.depth--
		r.flush()
		return
	case "h1", "h2", "h3", "h4":
		r.flush()
		start := len(r.lines)
		r.children(n)
		r.flush()
		for i := start; i < len(r.lines); i++ {
			if r.lines[i] != "" {
				r.lines[i] = headingStyle.Render(r.lines[i])
			}
		}
		return
	case "div":
		if s.HasClass("tg-bar") {
			r.cur.WriteString(barStyle.Render(bar(s.AttrOr("style", ""))))
			return
		}
		if s.HasClass("tg-error") {
			r.flush()
			r.write(errorStyle.Render(strings.TrimSpace(s.Text())))
			r.flush()
			return
		}
	}

	block := blockTags[n.Data]
	if block {
		r.flush()
	}
	r.children(n)
	if block {
		r.flush()
	}
}

func (r *textRenderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *textRenderer) favorite(s *goquery.Selection) {
	t := target{
		Kind: s.Find(`input[name="kind"]`).AttrOr("value", ""),
		ID:   s.Find(`input[name="id"]`).AttrOr("value", ""),
	}
	label := strings.TrimSpace(s.Find("button").Text())
	t.On = label == "★"
	r.targets = append(r.targets, t)
	if r.cur.Len() > 0 && !strings.HasSuffix(r.cur.String(), " ") {
		r.cur.WriteString(" ")
	}
	r.cur.WriteString(linkStyle.Render(fmt.Sprintf("%s[%d]", label, len(r.targets))))
}

// bar draws a percentage bar from a "width: N%" style.
func bar(style string) string {
	pct := 0.0
	if _, v, ok := strings.Cut(style, "width:"); ok {
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(strings.Split(v, ";")[0]), "%"))
		pct, _ = strconv.ParseFloat(v, 64)
	}
	n := int(pct/100*barCells + 0.5)
	n = min(max(n, 0), barCells)
	return strings.Repeat("█", n) + strings.Repeat("░", barCells-n)
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
