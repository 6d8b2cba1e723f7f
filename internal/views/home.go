package views

import (
	"fmt"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const homeHelp = `# Topical Guide

The Topical Guide lets you explore topic models of document collections.

1. Pick a dataset and one of its analyses under **Datasets**.
2. Browse the topics, documents and words the analysis found.
3. Follow links between them; the breadcrumbs show what is selected.

Every page has an address, so you can bookmark or share what you see.`

// homeView is the root view.
type homeView struct {
	view.Base
}

func newHomeView(ctx *view.Context) view.View {
	v := &homeView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Data.Subscribe(v.Render))
	return v
}

func (v *homeView) Title() string { return "Home" }

func (v *homeView) Render() {
	status := "Loading the list of datasets..."
	if v.Ctx.App.Data.Loaded() {
		status = fmt.Sprintf("%d datasets are available.", len(v.Ctx.App.Data.Catalog()))
	}
	v.Container().Replace(dom.El("div", dom.Attrs{"class": "tg-home"},
		dom.El("h1", nil, dom.Text("Welcome to the Topical Guide")),
		dom.El("p", nil, dom.Text("Explore the topics, documents and words of topic models.")),
		dom.El("p", dom.Attrs{"class": "tg-status"}, dom.Text(status+" "),
			dom.Link(v.Ctx.Href("datasets", nil), "Browse datasets", nil)),
	))
}

func (v *homeView) RenderHelpAsHTML() string { return view.HelpHTML(homeHelp) }

// unknownView is mounted for routes naming no registered view.
type unknownView struct {
	view.Base
}

func newUnknownView(ctx *view.Context) view.View {
	v := &unknownView{}
	v.Init(ctx)
	return v
}

func (v *unknownView) Title() string { return "Not Found" }

func (v *unknownView) Render() {
	v.Container().Replace(dom.El("div", dom.Attrs{"class": "tg-not-found"},
		dom.El("h2", nil, dom.Text("Page not found")),
		dom.El("p", nil, dom.Text(fmt.Sprintf("There is no view named %q.", v.Ctx.Name))),
		dom.El("p", nil, dom.Link(rootHref(v.Ctx), "Go to the home page", nil)),
	))
}
