package views

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const similarDocumentsHelp = `# Similar Documents

Lists the documents most similar to the selected document under the chosen
similarity measure. Values are shown to two decimal places.`

const similarTopicsHelp = `# Similar Topics

Lists the topics most similar to the selected topic under the chosen
similarity measure. Values are shown to two decimal places.`

const measureSetting = "measure"

// formatValue renders a similarity value the way every table shows it.
func formatValue(v float64) string { return fmt.Sprintf("%.2f", v) }

func measure(s *state.Settings) string {
	return s.GetDefault(measureSetting, model.DefaultSimilarityMeasure)
}

type similarDocumentsView struct {
	view.Base
}

func newSimilarDocumentsView(ctx *view.Context) view.View {
	v := &similarDocumentsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldDocument) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		if c.Has(measureSetting) {
			v.Render()
		}
	}))
	return v
}

func (v *similarDocumentsView) RenderHelpAsHTML() string {
	return view.HelpHTML(similarDocumentsHelp)
}

func (v *similarDocumentsView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	if sel.Document == "" {
		v.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("No document selected. "),
			dom.Link(v.Ctx.Href("documents", nil), "Choose a document", nil)))
		return
	}
	c := v.Container()
	g := v.Begin(c)
	m := measure(v.Ctx.Settings)
	feed.FetchDecoded(v.Ctx.Feed, g, feed.SimilarDocuments(sel.Dataset, sel.Analysis, sel.Document, m), feed.DecodeSimilarDocuments,
		func(docs []model.ScoredDocument) {
			c.Replace(
				dom.El("h2", nil, dom.Text("Documents similar to "+sel.Document)),
				dom.El("p", dom.Attrs{"class": "tg-measure"}, dom.Text("Measure: "+m)),
				v.table(docs),
			)
		}, v.Failer(c))
}

func (v *similarDocumentsView) table(docs []model.ScoredDocument) *html.Node {
	body := dom.El("tbody", nil)
	for _, d := range docs {
		href := v.Ctx.SelectHref("similar-documents", state.Update{state.FieldDocument: d.ID})
		body.AppendChild(dom.El("tr", dom.Attrs{"data-document": d.ID},
			dom.El("td", nil, dom.Link(href, d.Name, nil)),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(formatValue(d.Value))),
		))
	}
	return dom.El("table", dom.Attrs{"class": "tg-similar"},
		dom.El("thead", nil, dom.El("tr", nil,
			dom.El("th", nil, dom.Text("Document")),
			dom.El("th", nil, dom.Text("Similarity")))),
		body)
}

type similarTopicsView struct {
	view.Base
}

func newSimilarTopicsView(ctx *view.Context) view.View {
	v := &similarTopicsView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldTopic) || c.Changed(state.FieldTopicNameScheme) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		if c.Has(measureSetting) {
			v.Render()
		}
	}))
	return v
}

func (v *similarTopicsView) RenderHelpAsHTML() string { return view.HelpHTML(similarTopicsHelp) }

func (v *similarTopicsView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	n, err := strconv.Atoi(sel.Topic)
	if err != nil {
		v.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("No topic selected. "),
			dom.Link(v.Ctx.Href("topics", nil), "Choose a topic", nil)))
		return
	}
	c := v.Container()
	g := v.Begin(c)
	m := measure(v.Ctx.Settings)
	feed.FetchDecoded(v.Ctx.Feed, g, feed.SimilarTopics(sel.Dataset, sel.Analysis, sel.Topic, m), feed.DecodeSimilarTopics,
		func(topics []model.ScoredTopic) {
			c.Replace(
				dom.El("h2", nil, dom.Text("Topics similar to "+v.Ctx.App.Data.TopicName(n))),
				dom.El("p", dom.Attrs{"class": "tg-measure"}, dom.Text("Measure: "+m)),
				v.table(topics),
			)
		}, v.Failer(c))
}

func (v *similarTopicsView) table(topics []model.ScoredTopic) *html.Node {
	body := dom.El("tbody", nil)
	for _, t := range topics {
		id := strconv.Itoa(t.Number)
		name := t.Name
		if name == "" {
			name = v.Ctx.App.Data.TopicName(t.Number)
		}
		href := v.Ctx.SelectHref("similar-topics", state.Update{state.FieldTopic: id})
		body.AppendChild(dom.El("tr", dom.Attrs{"data-topic": id},
			dom.El("td", nil, dom.Link(href, name, nil)),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(formatValue(t.Value))),
		))
	}
	return dom.El("table", dom.Attrs{"class": "tg-similar"},
		dom.El("thead", nil, dom.El("tr", nil,
			dom.El("th", nil, dom.Text("Topic")),
			dom.El("th", nil, dom.Text("Similarity")))),
		body)
}
