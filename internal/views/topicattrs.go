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

const topicAttributesHelp = `# Attribute Values

Breaks the selected topic down by the values of a document attribute. Each
row shows how many tokens of the topic fall in documents with that value and
the share of the topic they make up.

Set the attribute with the ` + "`attribute`" + ` setting and the ordering with
` + "`order`" + ` (` + "`percent`" + `, ` + "`count`" + ` or ` + "`value`" + `).`

const (
	attributeSetting    = "attribute"
	defaultAttributeKey = "year"
	defaultTopicOrder   = "percent"
)

var topicOrderings = []struct{ field, label string }{
	{"percent", "Percent"},
	{"count", "Count"},
	{"value", "Value"},
}

type topicAttributesView struct {
	view.Base
}

func newTopicAttributesView(ctx *view.Context) view.View {
	v := &topicAttributesView{}
	v.Init(ctx)
	v.Scope.Add(ctx.App.Selection.Subscribe(func(c state.Change) {
		if c.Changed(state.FieldTopic) || c.Changed(state.FieldTopicNameScheme) {
			v.Render()
		}
	}))
	v.Scope.Add(ctx.Settings.Subscribe(func(c state.SettingsChange) {
		if c.Has(attributeSetting) || c.Has(orderSetting) {
			v.Render()
		}
	}))
	return v
}

func (v *topicAttributesView) RenderHelpAsHTML() string { return view.HelpHTML(topicAttributesHelp) }

func (v *topicAttributesView) Render() {
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
	attr := v.Ctx.Settings.GetDefault(attributeSetting, defaultAttributeKey)
	order := v.Ctx.Settings.GetDefault(orderSetting, defaultTopicOrder)
	c := v.Container()
	g := v.Begin(c)
	feed.FetchDecoded(v.Ctx.Feed, g, feed.TopicAttributeValues(sel.Dataset, sel.Analysis, sel.Topic, attr, order),
		feed.DecodeJSON[model.TopicAttributeValues]("values"),
		func(tav model.TopicAttributeValues) {
			if tav.Attribute == "" {
				tav.Attribute = attr
			}
			c.Replace(
				dom.El("h2", nil, dom.Text(v.Ctx.App.Data.TopicName(n)+" by "+tav.Attribute)),
				v.orderings(order),
				v.table(tav),
			)
		}, v.Failer(c))
}

func (v *topicAttributesView) orderings(cur string) *html.Node {
	ul := dom.El("ul", dom.Attrs{"class": "tg-orderings"})
	for _, o := range topicOrderings {
		attrs := dom.Attrs{}
		if o.field == cur {
			attrs["class"] = "selected"
		}
		ul.AppendChild(dom.El("li", attrs, dom.Link(v.Ctx.SelfHref(orderSetting, o.field), o.label, nil)))
	}
	return ul
}

func (v *topicAttributesView) table(tav model.TopicAttributeValues) *html.Node {
	body := dom.El("tbody", nil)
	for _, val := range tav.Values {
		pct := formatValue(val.Percent)
		body.AppendChild(dom.El("tr", dom.Attrs{"data-value": val.Value, "data-percent": pct},
			dom.El("td", nil, dom.Text(val.Value)),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(formatValue(val.Count))),
			dom.El("td", dom.Attrs{"class": "tg-value"}, dom.Text(pct)),
			dom.El("td", dom.Attrs{"class": "tg-bar-cell"},
				dom.El("div", dom.Attrs{"class": "tg-bar", "style": barStyle(val.Percent)})),
		))
	}
	if len(tav.Values) == 0 {
		body.AppendChild(dom.El("tr", dom.Attrs{"class": "tg-empty"},
			dom.El("td", dom.Attrs{"colspan": "4"}, dom.Text("No values."))))
	}
	return dom.El("table", dom.Attrs{"class": "tg-topic-attributes", "data-attribute": tav.Attribute},
		dom.El("thead", nil, dom.El("tr", nil,
			dom.El("th", nil, dom.Text(tav.Attribute)),
			dom.El("th", nil, dom.Text("Count")),
			dom.El("th", nil, dom.Text("Percent")),
			dom.El("th", nil))),
		body)
}

// barStyle sizes a bar to pct, clamped to [0, 100].
func barStyle(pct float64) string {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	return fmt.Sprintf("width: %.2f%%", pct)
}
