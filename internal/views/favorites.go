package views

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const favoritesHelp = `# Favorites

Collects the datasets, analyses, topics and documents you starred. Analyses
are listed for the selected dataset; topics and documents for the selected
analysis.`

type favoritesView struct {
	view.Base
}

func newFavoritesView(ctx *view.Context) view.View {
	v := &favoritesView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Favorites.Subscribe(func(state.Kind) { v.Render() }))
	v.Scope.Add(ctx.App.Data.Subscribe(v.Render))
	return v
}

func (v *favoritesView) RenderHelpAsHTML() string { return view.HelpHTML(favoritesHelp) }

func (v *favoritesView) Render() {
	sel := v.Ctx.App.Selection.Get()
	data := v.Ctx.App.Data
	nodes := []*html.Node{dom.El("h2", nil, dom.Text("Favorites"))}

	nodes = append(nodes, v.section(state.KindDatasets, "Datasets", func(id string) (string, string) {
		return data.DatasetName(id), v.Ctx.SelectHref("datasets", state.Update{state.FieldDataset: id})
	}))
	if sel.Dataset == "" {
		nodes = append(nodes, dom.El("p", dom.Attrs{"class": "tg-prompt"}, dom.Text("Select a dataset to see its favorite analyses.")))
		v.Container().Replace(nodes...)
		return
	}
	nodes = append(nodes, v.section(state.KindAnalyses, "Analyses", func(id string) (string, string) {
		return data.AnalysisName(sel.Dataset, id), v.Ctx.SelectHref("topics", state.Update{state.FieldAnalysis: id})
	}))
	if sel.Analysis == "" {
		nodes = append(nodes, dom.El("p", dom.Attrs{"class": "tg-prompt"}, dom.Text("Select an analysis to see its favorite topics and documents.")))
		v.Container().Replace(nodes...)
		return
	}
	nodes = append(nodes,
		v.section(state.KindTopics, "Topics", func(id string) (string, string) {
			name := "Topic " + id
			if n, err := strconv.Atoi(id); err == nil {
				name = data.TopicName(n)
			}
			return name, v.Ctx.SelectHref("similar-topics", state.Update{state.FieldTopic: id})
		}),
		v.section(state.KindDocuments, "Documents", func(id string) (string, string) {
			return id, v.Ctx.SelectHref("similar-documents", state.Update{state.FieldDocument: id})
		}),
	)
	v.Container().Replace(nodes...)
}

func (v *favoritesView) section(kind state.Kind, heading string, entry func(id string) (label, href string)) *html.Node {
	ul := dom.El("ul", dom.Attrs{"class": "tg-list tg-favorites", "data-kind": string(kind)})
	for _, id := range v.Ctx.App.Favorites.List(kind) {
		label, href := entry(id)
		ul.AppendChild(dom.El("li", nil, dom.Link(href, label, nil), favoriteForm(kind, id, true)))
	}
	if ul.FirstChild == nil {
		ul.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("None yet.")))
	}
	return dom.El("section", nil, dom.El("h3", nil, dom.Text(heading)), ul)
}
