package views

import (
	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const datasetsHelp = `# Datasets

Lists every dataset on the server together with its analyses. Choose an
analysis to browse its topics. Use the star to keep a dataset or analysis
among your favorites.`

type datasetsView struct {
	view.Base
}

func newDatasetsView(ctx *view.Context) view.View {
	v := &datasetsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Data.Subscribe(v.Render))
	v.Scope.Add(ctx.App.Favorites.Subscribe(func(state.Kind) { v.Render() }))
	return v
}

func (v *datasetsView) RenderHelpAsHTML() string { return view.HelpHTML(datasetsHelp) }

func (v *datasetsView) Render() {
	data := v.Ctx.App.Data
	if !data.Loaded() {
		v.Container().Replace(view.LoadingNode())
		return
	}
	cat := data.Catalog()
	list := dom.El("ul", dom.Attrs{"class": "tg-datasets"})
	for _, name := range cat.DatasetNames() {
		list.AppendChild(v.dataset(cat[name]))
	}
	if list.FirstChild == nil {
		list.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("The server has no datasets.")))
	}
	v.Container().Replace(dom.El("h2", nil, dom.Text("Datasets")), list)
}

func (v *datasetsView) dataset(ds model.Dataset) *html.Node {
	sel := v.Ctx.App.Selection.Get()
	analyses := dom.El("ul", dom.Attrs{"class": "tg-analyses"})
	for _, an := range ds.AnalysisNames() {
		a := ds.Analyses[an]
		attrs := dom.Attrs{}
		if sel.Dataset == ds.Name && sel.Analysis == an {
			attrs["class"] = "selected"
		}
		href := v.Ctx.SelectHref("topics", state.Update{state.FieldDataset: ds.Name, state.FieldAnalysis: an})
		li := dom.El("li", attrs, dom.Link(href, a.ReadableName(), nil))
		if sel.Dataset == ds.Name {
			li.AppendChild(favoriteForm(state.KindAnalyses, an, v.Ctx.App.Favorites.Has(state.KindAnalyses, an)))
		}
		analyses.AppendChild(li)
	}
	attrs := dom.Attrs{"data-dataset": ds.Name}
	if sel.Dataset == ds.Name {
		attrs["class"] = "selected"
	}
	return dom.El("li", attrs,
		dom.El("span", dom.Attrs{"class": "tg-dataset-name"}, dom.Text(ds.ReadableName())),
		favoriteForm(state.KindDatasets, ds.Name, v.Ctx.App.Favorites.Has(state.KindDatasets, ds.Name)),
		analyses,
	)
}

// favoriteForm renders the star that toggles a favorite.
func favoriteForm(kind state.Kind, id string, on bool) *html.Node {
	label, title := "☆", "Add to favorites"
	if on {
		label, title = "★", "Remove from favorites"
	}
	return dom.El("form", dom.Attrs{"class": "tg-fav", "method": "post", "action": "/favorites/toggle"},
		dom.El("input", dom.Attrs{"type": "hidden", "name": "kind", "value": string(kind)}),
		dom.El("input", dom.Attrs{"type": "hidden", "name": "id", "value": id}),
		dom.El("button", dom.Attrs{"type": "submit", "title": title}, dom.Text(label)),
	)
}
