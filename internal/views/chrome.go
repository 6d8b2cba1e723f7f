package views

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

// navView renders the menu tree, highlighting the current view.
type navView struct {
	view.Base
}

func newNavView(ctx *view.Context) view.View {
	v := &navView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		// Menu links carry the selection.
		v.Render()
	}))
	return v
}

func (v *navView) Render() {
	brand := dom.Link(rootHref(v.Ctx), "Topical Guide", dom.Attrs{"class": "tg-brand"})
	v.Container().Replace(dom.El("nav", dom.Attrs{"class": "tg-menu"},
		brand, v.menu(v.Ctx.Registry.BuildMenu())))
}

func (v *navView) menu(items []view.MenuItem) *html.Node {
	current := v.Ctx.App.Selection.Get().View
	ul := dom.El("ul", nil)
	for _, it := range items {
		if it.Path == "" {
			ul.AppendChild(dom.El("li", dom.Attrs{"class": "tg-menu-group"},
				dom.El("span", nil, dom.Text(it.Label)),
				v.menu(it.Children)))
			continue
		}
		attrs := dom.Attrs{}
		if it.Path == current {
			attrs["class"] = "active"
		}
		ul.AppendChild(dom.El("li", attrs, dom.Link(v.Ctx.Href(it.Path, nil), it.Label, nil)))
	}
	return ul
}

// breadcrumbsView shows what is selected.
type breadcrumbsView struct {
	view.Base
}

func newBreadcrumbsView(ctx *view.Context) view.View {
	v := &breadcrumbsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(state.Change) { v.Render() }))
	v.Scope.Add(ctx.App.Data.Subscribe(v.Render))
	v.Scope.Add(ctx.App.Favorites.Subscribe(func(state.Kind) { v.Render() }))
	return v
}

func (v *breadcrumbsView) Render() {
	sel := v.Ctx.App.Selection.Get()
	data := v.Ctx.App.Data
	favs := v.Ctx.App.Favorites

	crumb := func(class, empty, label, href string, fav bool) *html.Node {
		if label == "" {
			return dom.El("li", dom.Attrs{"class": class + " tg-empty"}, dom.Text(empty))
		}
		li := dom.El("li", dom.Attrs{"class": class}, dom.Link(href, label, nil))
		if fav {
			li.AppendChild(dom.El("span", dom.Attrs{"class": "tg-fav-mark", "title": "Favorite"}, dom.Text(" ★")))
		}
		return li
	}

	var ds, an, topic, doc string
	if sel.Dataset != "" {
		ds = data.DatasetName(sel.Dataset)
	}
	if sel.Analysis != "" {
		an = data.AnalysisName(sel.Dataset, sel.Analysis)
	}
	if n, err := strconv.Atoi(sel.Topic); err == nil {
		topic = data.TopicName(n)
	}
	doc = sel.Document

	v.Container().Replace(dom.El("ol", dom.Attrs{"class": "tg-breadcrumbs"},
		crumb("tg-crumb-dataset", "No dataset selected.", ds,
			v.Ctx.SelectHref("datasets", nil), favs.Has(state.KindDatasets, sel.Dataset)),
		crumb("tg-crumb-analysis", "No analysis selected.", an,
			v.Ctx.SelectHref("topics", nil), favs.Has(state.KindAnalyses, sel.Analysis)),
		crumb("tg-crumb-topic", "No topic selected.", topic,
			v.Ctx.SelectHref("similar-topics", nil), favs.Has(state.KindTopics, sel.Topic)),
		crumb("tg-crumb-document", "No document selected.", doc,
			v.Ctx.SelectHref("similar-documents", nil), favs.Has(state.KindDocuments, sel.Document)),
	))
}
