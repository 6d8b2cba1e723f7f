package view

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	xhtml "golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/state"
)

// DefaultHelp is shown for views that provide no help of their own.
const DefaultHelp = "<p>The creators of this view didn't create a help page for you.</p>"

// Base implements the parts of View every concrete view shares. Embed it and
// call Init from the constructor.
type Base struct {
	Ctx   *Context
	Scope state.Scope

	subviews []Disposable
	disposed bool
}

// Init binds the base to ctx.
func (b *Base) Init(ctx *Context) { b.Ctx = ctx }

// Container returns the view's container.
func (b *Base) Container() *dom.Container { return b.Ctx.Container }

// Cleanup releases subscriptions and cleans up sub-views. Repeated calls do
// nothing.
func (b *Base) Cleanup() {
	if b.disposed {
		return
	}
	b.disposed = true
	for i := len(b.subviews) - 1; i >= 0; i-- {
		b.subviews[i].Cleanup()
	}
	b.subviews = nil
	b.Scope.Release()
}

// Disposed reports whether Cleanup has run.
func (b *Base) Disposed() bool { return b.disposed }

// AddSubview registers v to be cleaned up with the view.
func (b *Base) AddSubview(v Disposable) {
	if b.disposed {
		v.Cleanup()
		return
	}
	b.subviews = append(b.subviews, v)
}

// RenderHelpAsHTML returns the default help text.
func (b *Base) RenderHelpAsHTML() string { return DefaultHelp }

// RenderError replaces the container contents with an error message.
func (b *Base) RenderError(msg string) {
	b.Container().Replace(ErrorNode(msg))
}

// ErrorNode renders a server error message.
func ErrorNode(msg string) *xhtml.Node {
	return dom.El("div", dom.Attrs{"class": "tg-error"},
		dom.El("p", nil, dom.Text("Oops, there was a server error: "+msg)))
}

// LoadingNode is the placeholder shown while a fetch is outstanding.
func LoadingNode() *xhtml.Node {
	return dom.El("div", dom.Attrs{"class": "tg-loading"},
		dom.El("p", nil, dom.Text("Loading...")))
}

// Guard returns a fetch guard for c: valid while c keeps its current
// generation and the view has not been cleaned up.
func (b *Base) Guard(c *dom.Container) feed.Guard {
	return guard{tok: c.Claim(), b: b}
}

type guard struct {
	tok dom.Token
	b   *Base
}

func (g guard) Valid() bool { return !g.b.disposed && g.tok.Valid() }

// Begin starts a new rendering pass in c: any fetch issued for an earlier
// pass is superseded, and a loading placeholder is shown. The returned guard
// belongs to the new pass.
func (b *Base) Begin(c *dom.Container) feed.Guard {
	c.Reset()
	c.Replace(LoadingNode())
	return b.Guard(c)
}

// Failer returns an error callback rendering the failure into c.
func (b *Base) Failer(c *dom.Container) func(error) {
	return func(err error) {
		c.Replace(ErrorNode(feed.Message(err)))
	}
}

// NeedsAnalysis renders a prompt and reports true when no dataset or
// analysis is selected.
func (b *Base) NeedsAnalysis() bool {
	v := b.Ctx.App.Selection.Get()
	switch {
	case v.Dataset == "":
		b.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("Select a dataset to continue. "),
			dom.Link(b.Ctx.Href("datasets", nil), "Browse datasets", nil)))
		return true
	case v.Analysis == "":
		b.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("Select an analysis of "+b.Ctx.App.Data.DatasetName(v.Dataset)+" to continue. "),
			dom.Link(b.Ctx.Href("datasets", nil), "Browse analyses", nil)))
		return true
	}
	return false
}

// HelpHTML converts Markdown help text to HTML.
func HelpHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return strings.TrimSpace(string(markdown.ToHTML([]byte(md), p, r)))
}
