package views

import (
	"strconv"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/router"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const wordInContextHelp = `# Word in Context

Shows one occurrence of a word with the text around it. When a topic is
selected, the occurrence is drawn from text assigned to that topic. Ask for
another example to see a different occurrence.`

func wordInContextHref(ctx *view.Context, word string) string {
	sel := ctx.App.Selection.Get()
	sel.View = "word-in-context"
	return router.Format(router.Route{Params: []string{word}}.WithSelection(sel))
}

type wordInContextView struct {
	view.Base
}

func newWordInContextView(ctx *view.Context) view.View {
	v := &wordInContextView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldTopic) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.Settings.Subscribe(func(state.SettingsChange) { v.Render() }))
	return v
}

func (v *wordInContextView) RenderHelpAsHTML() string { return view.HelpHTML(wordInContextHelp) }

func (v *wordInContextView) word() string {
	if len(v.Ctx.Route.Params) > 0 {
		return v.Ctx.Route.Params[0]
	}
	return ""
}

func (v *wordInContextView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	word := v.word()
	if word == "" {
		v.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("No word selected. "),
			dom.Link(v.Ctx.Href("words", nil), "Choose a word", nil)))
		return
	}
	sel := v.Ctx.App.Selection.Get()
	c := v.Container()
	g := v.Begin(c)
	feed.FetchDecoded(v.Ctx.Feed, g, feed.WordInContext(sel.Dataset, sel.Analysis, sel.Topic, word),
		feed.DecodeJSON[model.WordContext]("word", "left_context", "right_context"),
		func(wc model.WordContext) {
			another := v.Ctx.SelfHref("sample", strconv.Itoa(v.Ctx.Settings.Int("sample", 0)+1))
			c.Replace(
				dom.El("h2", nil, dom.Text("“"+wc.Word+"” in context")),
				dom.El("blockquote", dom.Attrs{"class": "tg-context"},
					dom.Text(wc.LeftContext+" "),
					dom.El("strong", nil, dom.Text(wc.Word)),
					dom.Text(" "+wc.RightContext)),
				dom.El("p", dom.Attrs{"class": "tg-source"},
					dom.Text("From "),
					dom.Link(v.Ctx.SelectHref("similar-documents", state.Update{state.FieldDocument: wc.DocID}), wc.DocName, nil)),
				dom.El("p", nil, dom.Link(another, "Another example", dom.Attrs{"class": "tg-another"})),
			)
		}, v.Failer(c))
}
