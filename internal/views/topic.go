package views

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const topicHelp = `# Single Topic

Shows one topic: its most frequent words, the documents with the most
tokens assigned to it, and its metrics. Select a word to see it in context
within the topic, or a document to open it.

The ` + "`top`" + ` setting changes how many words and documents are listed.`

const (
	topSetting     = "top"
	defaultTopSize = 10
	maxTopSize     = 100
)

type topicView struct {
	view.Base
}

func newTopicView(ctx *view.Context) view.View {
	v := &topicView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldTopic) || c.Changed(state.FieldTopicNameScheme) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		if c.Has(topSetting) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.App.Favorites.Subscribe(func(k state.Kind) {
		if k == state.KindTopics {
			v.Render()
		}
	}))
	return v
}

func (v *topicView) RenderHelpAsHTML() string { return view.HelpHTML(topicHelp) }

func (v *topicView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	if _, err := strconv.Atoi(sel.Topic); err != nil {
		v.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("No topic selected. "),
			dom.Link(v.Ctx.Href("topics", nil), "Choose a topic", nil)))
		return
	}
	top := min(max(v.Ctx.Settings.Int(topSetting, defaultTopSize), 1), maxTopSize)
	c := v.Container()
	g := v.Begin(c)
	feed.FetchDecoded(v.Ctx.Feed, g, feed.TopicQuery(sel.Dataset, sel.Analysis, sel.Topic, top),
		feed.DecodeTopic(sel.Dataset, sel.Analysis, sel.Topic),
		func(t model.TopicDetail) {
			id := strconv.Itoa(t.Number)
			c.Replace(
				dom.El("h2", nil,
					dom.Text("Topic: "+v.Ctx.App.Data.TopicName(t.Number)),
					favoriteForm(state.KindTopics, id, v.Ctx.App.Favorites.Has(state.KindTopics, id))),
				dom.El("h3", nil, dom.Text(fmt.Sprintf("Top %d words", top))),
				v.words(t),
				dom.El("h3", nil, dom.Text(fmt.Sprintf("Top %d documents", top))),
				v.documents(t),
				dom.El("h3", nil, dom.Text("Metrics")),
				metricsTable(t.Metrics),
			)
		}, func(err error) {
			if errors.Is(err, feed.ErrNotFound) {
				c.Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
					dom.Text("Topic "+sel.Topic+" does not exist. "),
					dom.Link(v.Ctx.Href("topics", nil), "Choose a topic", nil)))
				return
			}
			v.Failer(c)(err)
		})
}

func (v *topicView) words(t model.TopicDetail) *html.Node {
	ol := dom.El("ol", dom.Attrs{"class": "tg-list tg-topic-words"})
	for _, w := range t.Words {
		ol.AppendChild(dom.El("li", dom.Attrs{"data-count": strconv.FormatFloat(w.Count, 'f', -1, 64)},
			dom.Link(wordInContextHref(v.Ctx, w.Word), w.Word, nil),
			dom.El("span", dom.Attrs{"class": "tg-value"}, dom.Text(" "+strconv.FormatFloat(w.Count, 'f', -1, 64))),
		))
	}
	if len(t.Words) == 0 {
		ol.AppendChild(dom.El("li", dom.Attrs{"class": "tg-empty"}, dom.Text("No words.")))
	}
	return ol
}

func (v *topicView) documents(t model.TopicDetail) *html.Node {
	total := t.TokenCount()
	body := dom.El("tbody", nil)
	for _, d := range t.Documents {
		pct := 0.0
		if total > 0 {
			pct = 100 * d.Count / total
		}
		href := v.Ctx.SelectHref("document", state.Update{state.FieldDocument: d.Document})
		body.AppendChild(dom.El("tr", dom.Attrs{"data-document": d.Document},
			dom.El("td", nil, dom.Link(href, d.Document, nil)),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(strconv.FormatFloat(d.Count, 'f', -1, 64))),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(formatValue(pct))),
			dom.El("td", dom.Attrs{"class": "tg-bar-cell"},
				dom.El("div", dom.Attrs{"class": "tg-bar", "style": barStyle(pct)})),
		))
	}
	if len(t.Documents) == 0 {
		body.AppendChild(dom.El("tr", dom.Attrs{"class": "tg-empty"},
			dom.El("td", dom.Attrs{"colspan": "4"}, dom.Text("No documents."))))
	}
	return dom.El("table", dom.Attrs{"class": "tg-topic-documents"},
		dom.El("thead", nil, dom.El("tr", nil,
			dom.El("th", nil, dom.Text("Document")),
			dom.El("th", nil, dom.Text("Tokens")),
			dom.El("th", nil, dom.Text("% of Topic")),
			dom.El("th", nil))),
		body)
}

// metricsTable lists key/value pairs sorted by key. Numbers are shown to
// two decimal places unless they are whole.
func metricsTable(m map[string]any) *html.Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	body := dom.El("tbody", nil)
	for _, k := range keys {
		body.AppendChild(dom.El("tr", dom.Attrs{"data-key": k},
			dom.El("th", nil, dom.Text(k)),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(formatAny(m[k]))),
		))
	}
	if len(keys) == 0 {
		body.AppendChild(dom.El("tr", dom.Attrs{"class": "tg-empty"},
			dom.El("td", dom.Attrs{"colspan": "2"}, dom.Text("None."))))
	}
	return dom.El("table", dom.Attrs{"class": "tg-metrics"}, body)
}

func formatAny(v any) string {
	switch x := v.(type) {
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return formatValue(x)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
