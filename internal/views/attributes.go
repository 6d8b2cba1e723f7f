package views

import (
	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const attributesHelp = `# Attributes

Lists the values a document attribute takes across the dataset. The
attribute is named in the address, for example
` + "`#/attributes/{dataset}/{analysis}/year`" + `.`

const valueSetting = "value"

type attributesView struct {
	view.Base
	list *dom.Container
}

func newAttributesView(ctx *view.Context) view.View {
	v := &attributesView{}
	v.Init(ctx)
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		switch {
		case c.Has(view.PageSetting):
			v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
		case c.Has(valueSetting):
			v.Render()
		}
	}))
	return v
}

func (v *attributesView) RenderHelpAsHTML() string { return view.HelpHTML(attributesHelp) }

func (v *attributesView) attribute() string {
	if len(v.Ctx.Route.Params) > 0 {
		return v.Ctx.Route.Params[0]
	}
	return ""
}

func (v *attributesView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	attr := v.attribute()
	if attr == "" {
		v.Container().Replace(
			dom.El("h2", nil, dom.Text("Attributes")),
			dom.El("p", dom.Attrs{"class": "tg-prompt"}, dom.Text("No attribute selected.")),
		)
		v.list = nil
		return
	}
	v.Container().Replace(
		dom.El("h2", nil, dom.Text("Attribute: "+attr)),
		dom.El("div", dom.Attrs{"id": "tg-attribute-list"}),
	)
	v.list = v.Container().Sub("tg-attribute-list")
	v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
}

func (v *attributesView) getPage(page int) {
	if v.list == nil {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	v.redrawListControl(feed.AttributePage(sel.Dataset, sel.Analysis, v.attribute(), page))
}

func (v *attributesView) redrawListControl(path string) {
	list := v.list
	g := v.Begin(list)
	feed.FetchPage(v.Ctx.Feed, g, path, "values", func(p model.PageResult[model.AttributeValue]) {
		list.Replace(v.Ctx.PagerFor(p.Page, p.NumPages), v.updateListContents(p.Items))
	}, v.Failer(list))
}

func (v *attributesView) updateListContents(values []model.AttributeValue) *html.Node {
	cur := v.Ctx.Settings.Get(valueSetting)
	ul := dom.El("ul", dom.Attrs{"class": "tg-list tg-attribute-values"})
	for _, val := range values {
		attrs := dom.Attrs{}
		if val.Value == cur {
			attrs["class"] = "selected"
		}
		ul.AppendChild(dom.El("li", attrs, dom.Link(v.Ctx.SelfHref(valueSetting, val.Value), val.Value, nil)))
	}
	if len(values) == 0 {
		ul.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("No values.")))
	}
	return ul
}
