package views

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const topicsHelp = `# Topics

Lists the topics of the selected analysis, one page at a time. Topic names
follow the selected name scheme. Select a topic to see the topics most
similar to it.`

type topicsView struct {
	view.Base
	list *dom.Container
}

func newTopicsView(ctx *view.Context) view.View {
	v := &topicsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		if c.Has(view.PageSetting) {
			v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
		}
	}))
	v.Scope.Add(ctx.App.Favorites.Subscribe(func(k state.Kind) {
		if k == state.KindTopics {
			v.Render()
		}
	}))
	return v
}

func (v *topicsView) RenderHelpAsHTML() string { return view.HelpHTML(topicsHelp) }

func (v *topicsView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	v.Container().Replace(
		dom.El("h2", nil, dom.Text("Topics")),
		dom.El("div", dom.Attrs{"id": "tg-topic-list"}),
	)
	v.list = v.Container().Sub("tg-topic-list")
	v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
}

func (v *topicsView) getPage(page int) {
	if v.list == nil {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	v.redrawListControl(feed.TopicPage(sel.Dataset, sel.Analysis, page))
}

func (v *topicsView) redrawListControl(path string) {
	list := v.list
	g := v.Begin(list)
	feed.FetchPage(v.Ctx.Feed, g, path, "topics", func(p model.PageResult[model.Topic]) {
		list.Replace(v.Ctx.PagerFor(p.Page, p.NumPages), v.updateListContents(p.Items))
	}, v.Failer(list))
}

func (v *topicsView) updateListContents(topics []model.Topic) *html.Node {
	sel := v.Ctx.App.Selection.Get()
	ul := dom.El("ul", dom.Attrs{"class": "tg-list"})
	for _, t := range topics {
		id := strconv.Itoa(t.Number)
		name := t.Name
		if name == "" {
			name = v.Ctx.App.Data.TopicName(t.Number)
		}
		attrs := dom.Attrs{"data-topic": id}
		if id == sel.Topic {
			attrs["class"] = "selected"
		}
		href := v.Ctx.SelectHref("similar-topics", state.Update{state.FieldTopic: id})
		ul.AppendChild(dom.El("li", attrs,
			dom.Link(href, name, nil),
			favoriteForm(state.KindTopics, id, v.Ctx.App.Favorites.Has(state.KindTopics, id)),
		))
	}
	if len(topics) == 0 {
		ul.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("No topics.")))
	}
	return ul
}
