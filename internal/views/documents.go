package views

import (
	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const documentsHelp = `# Documents

Lists the documents of the selected dataset, one page at a time. Choose an
ordering to sort the list. Select a document to see the documents most
similar to it.`

const (
	orderSetting = "order"
	// noDocument fills the document segment of the page feed when no
	// document is selected; the backend then starts from the first page.
	noDocument = "none"
)

var documentOrderings = []struct{ field, label string }{
	{"", "Default"},
	{"title", "Title"},
	{"-title", "Title, descending"},
}

type documentsView struct {
	view.Base
	list *dom.Container
}

func newDocumentsView(ctx *view.Context) view.View {
	v := &documentsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		switch {
		case c.Has(orderSetting) && v.Ctx.Settings.Get(orderSetting) != "":
			v.sortDocuments(v.Ctx.Settings.Get(orderSetting))
		case c.Has(view.PageSetting) || c.Has(orderSetting):
			v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
		}
	}))
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldDocument) && v.list != nil {
			v.Render()
		}
	}))
	return v
}

func (v *documentsView) RenderHelpAsHTML() string { return view.HelpHTML(documentsHelp) }

func (v *documentsView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	order := v.Ctx.Settings.Get(orderSetting)
	orderings := dom.El("ul", dom.Attrs{"class": "tg-orderings"})
	for _, o := range documentOrderings {
		attrs := dom.Attrs{}
		if o.field == order {
			attrs["class"] = "selected"
		}
		href := v.Ctx.SelfHrefSet(map[string]string{orderSetting: o.field, view.PageSetting: ""})
		orderings.AppendChild(dom.El("li", attrs, dom.Link(href, o.label, nil)))
	}
	v.Container().Replace(
		dom.El("h2", nil, dom.Text("Documents")),
		orderings,
		dom.El("div", dom.Attrs{"id": "tg-document-list"}),
	)
	v.list = v.Container().Sub("tg-document-list")
	if order != "" && v.Ctx.Settings.Get(view.PageSetting) == "" {
		v.sortDocuments(order)
		return
	}
	v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
}

func (v *documentsView) getPage(page int) {
	if v.list == nil {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	doc := sel.Document
	if doc == "" {
		doc = noDocument
	}
	v.redrawListControl(feed.DocumentPage(sel.Dataset, sel.Analysis, doc, page))
}

func (v *documentsView) sortDocuments(field string) {
	if v.list == nil {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	v.redrawListControl(feed.DocumentOrdering(sel.Dataset, sel.Analysis, field))
}

func (v *documentsView) redrawListControl(path string) {
	list := v.list
	g := v.Begin(list)
	feed.FetchPage(v.Ctx.Feed, g, path, "documents", func(p model.PageResult[model.Document]) {
		list.Replace(v.Ctx.PagerFor(p.Page, p.NumPages), v.updateListContents(p.Items))
	}, v.Failer(list))
}

func (v *documentsView) updateListContents(docs []model.Document) *html.Node {
	cur := v.Ctx.App.Selection.Get().Document
	favs := v.Ctx.App.Favorites
	ul := dom.El("ul", dom.Attrs{"class": "tg-list tg-documents"})
	for _, d := range docs {
		attrs := dom.Attrs{"data-document": d.ID}
		if d.ID == cur {
			attrs["class"] = "selected"
		}
		href := v.Ctx.SelectHref("similar-documents", state.Update{state.FieldDocument: d.ID})
		ul.AppendChild(dom.El("li", attrs,
			dom.Link(href, d.Name, nil),
			favoriteForm(state.KindDocuments, d.ID, favs.Has(state.KindDocuments, d.ID)),
		))
	}
	if len(docs) == 0 {
		ul.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("No documents.")))
	}
	return ul
}
