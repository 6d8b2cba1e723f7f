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

const wordsHelp = `# Words

Lists the vocabulary of the selected analysis, one page at a time. Type the
start of a word into **Find** to jump to the page holding it. Select a word
to read it in context.`

const findSetting = "find"

type wordsView struct {
	view.Base
	list *dom.Container
}

func newWordsView(ctx *view.Context) view.View {
	v := &wordsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		switch {
		case c.Has(findSetting) && v.Ctx.Settings.Get(findSetting) != "":
			v.findWord(v.Ctx.Settings.Get(findSetting))
		case c.Has(view.PageSetting) || c.Has(findSetting):
			v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
		}
	}))
	return v
}

func (v *wordsView) RenderHelpAsHTML() string { return view.HelpHTML(wordsHelp) }

func (v *wordsView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	find := v.Ctx.Settings.Get(findSetting)
	form := dom.El("form", dom.Attrs{"class": "tg-find", "method": "get", "action": v.Ctx.SelfHref(findSetting, "")},
		dom.El("label", dom.Attrs{"for": "tg-find-word"}, dom.Text("Find ")),
		dom.El("input", dom.Attrs{"id": "tg-find-word", "name": findSetting, "type": "text", "value": find}),
	)
	v.Container().Replace(
		dom.El("h2", nil, dom.Text("Words")),
		form,
		dom.El("div", dom.Attrs{"id": "tg-word-list"}),
	)
	v.list = v.Container().Sub("tg-word-list")
	if find != "" {
		v.findWord(find)
		return
	}
	v.getPage(v.Ctx.Settings.Int(view.PageSetting, 1))
}

func (v *wordsView) getPage(page int) {
	if v.list == nil {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	v.redrawListControl(feed.WordPage(sel.Dataset, sel.Analysis, page))
}

func (v *wordsView) findWord(prefix string) {
	if v.list == nil {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	v.redrawListControl(feed.WordPageFind(sel.Dataset, sel.Analysis, prefix))
}

func (v *wordsView) redrawListControl(path string) {
	list := v.list
	g := v.Begin(list)
	feed.FetchPage(v.Ctx.Feed, g, path, "words", func(p model.PageResult[model.Word]) {
		pager := view.Pager(p.Page, p.NumPages, func(n int) string {
			return v.Ctx.SelfHrefSet(map[string]string{view.PageSetting: strconv.Itoa(n), findSetting: ""})
		})
		list.Replace(pager, v.updateListContents(p.Items))
	}, v.Failer(list))
}

func (v *wordsView) updateListContents(words []model.Word) *html.Node {
	ul := dom.El("ul", dom.Attrs{"class": "tg-list tg-words"})
	for _, w := range words {
		ul.AppendChild(dom.El("li", nil, dom.Link(wordInContextHref(v.Ctx, w.Type), w.Type, nil)))
	}
	if len(words) == 0 {
		ul.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("No words.")))
	}
	return ul
}
