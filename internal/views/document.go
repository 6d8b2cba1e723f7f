package views

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

const documentHelp = `# Document Information

Shows one document.

## Text

The text of the document as given to the import system.

## Metadata and Metrics

The metadata and metrics of the document as key value pairs.

The topics with the most tokens in the document are listed beside either
tab. Select a topic to open it.`

const (
	tabSetting  = "tab"
	textTab     = "text"
	metadataTab = "metadata"
)

var documentTabs = []struct{ key, label string }{
	{textTab, "Text"},
	{metadataTab, "Metadata and Metrics"},
}

type documentView struct {
	view.Base
}

func newDocumentView(ctx *view.Context) view.View {
	v := &documentView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldDocument) || c.Changed(state.FieldTopicNameScheme) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		if c.Has(tabSetting) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.App.Favorites.Subscribe(func(k state.Kind) {
		if k == state.KindDocuments {
			v.Render()
		}
	}))
	return v
}

func (v *documentView) RenderHelpAsHTML() string { return view.HelpHTML(documentHelp) }

func (v *documentView) Render() {
	if v.NeedsAnalysis() {
		return
	}
	sel := v.Ctx.App.Selection.Get()
	if sel.Document == "" {
		v.Container().Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
			dom.Text("You need to select a document to see any information. "),
			dom.Link(v.Ctx.Href("documents", nil), "All Documents", nil)))
		return
	}
	tab := v.Ctx.Settings.GetDefault(tabSetting, textTab)
	c := v.Container()
	g := v.Begin(c)
	feed.FetchDecoded(v.Ctx.Feed, g, feed.DocumentQuery(sel.Dataset, sel.Analysis, sel.Document),
		feed.DecodeDocument(sel.Dataset, sel.Analysis, sel.Document),
		func(d model.DocumentDetail) {
			var content *html.Node
			if tab == metadataTab {
				content = dom.El("div", dom.Attrs{"class": "tg-document-metadata"},
					dom.El("h3", nil, dom.Text("Metadata")), metricsTable(d.Metadata),
					dom.El("h3", nil, dom.Text("Metrics")), metricsTable(d.Metrics))
			} else {
				content = documentText(d.Text)
			}
			c.Replace(
				dom.El("h2", nil,
					dom.Text("Document: "+d.ID),
					favoriteForm(state.KindDocuments, d.ID, v.Ctx.App.Favorites.Has(state.KindDocuments, d.ID))),
				v.tabs(tab),
				content,
				dom.El("h3", nil, dom.Text("Topics")),
				v.topics(d),
			)
		}, func(err error) {
			if errors.Is(err, feed.ErrNotFound) {
				c.Replace(dom.El("p", dom.Attrs{"class": "tg-prompt"},
					dom.Text("The document "+sel.Document+" does not exist. "),
					dom.Link(v.Ctx.Href("documents", nil), "All Documents", nil)))
				return
			}
			v.Failer(c)(err)
		})
}

func (v *documentView) tabs(cur string) *html.Node {
	ul := dom.El("ul", dom.Attrs{"class": "tg-tabs"})
	for _, t := range documentTabs {
		attrs := dom.Attrs{}
		if t.key == cur {
			attrs["class"] = "selected"
		}
		ul.AppendChild(dom.El("li", attrs, dom.Link(v.Ctx.SelfHref(tabSetting, t.key), t.label, nil)))
	}
	return ul
}

// documentText renders text one paragraph per line.
func documentText(text string) *html.Node {
	div := dom.El("div", dom.Attrs{"class": "tg-document-text"})
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		div.AppendChild(dom.El("p", nil, dom.Text(line)))
	}
	if div.FirstChild == nil {
		div.AppendChild(dom.El("p", dom.Attrs{"class": "tg-empty"}, dom.Text("Document text unavailable.")))
	}
	return div
}

func (v *documentView) topics(d model.DocumentDetail) *html.Node {
	var total float64
	for _, t := range d.Topics {
		total += t.Count
	}
	body := dom.El("tbody", nil)
	for _, t := range d.Topics {
		id := strconv.Itoa(t.Topic)
		pct := 0.0
		if total > 0 {
			pct = 100 * t.Count / total
		}
		href := v.Ctx.SelectHref("topic", state.Update{state.FieldTopic: id})
		body.AppendChild(dom.El("tr", dom.Attrs{"data-topic": id},
			dom.El("td", nil, dom.Link(href, v.Ctx.App.Data.TopicName(t.Topic), nil)),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(strconv.FormatFloat(t.Count, 'f', -1, 64))),
			dom.El("td", dom.Attrs{"class": "tg-bar-cell"},
				dom.El("div", dom.Attrs{"class": "tg-bar", "style": barStyle(pct)})),
		))
	}
	if len(d.Topics) == 0 {
		body.AppendChild(dom.El("tr", dom.Attrs{"class": "tg-empty"},
			dom.El("td", dom.Attrs{"colspan": "3"}, dom.Text("No topics."))))
	}
	return dom.El("table", dom.Attrs{"class": "tg-document-topics"},
		dom.El("thead", nil, dom.El("tr", nil,
			dom.El("th", nil, dom.Text("Topic")),
			dom.El("th", nil, dom.Text("Tokens")),
			dom.El("th", nil))),
		body)
}
