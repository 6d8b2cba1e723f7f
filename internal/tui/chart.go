package tui

import (
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
)

const maxChartBars = 24

// attributeBar is one row of a topic attribute table.
type attributeBar struct {
	Value   string
	Percent float64
}

// attributeBars reads the rows of the topic attribute table in doc.
func attributeBars(doc *goquery.Selection) []attributeBar {
	var bars []attributeBar
	doc.Find("table.tg-topic-attributes tr[data-percent]").Each(func(_ int, tr *goquery.Selection) {
		pct, err := strconv.ParseFloat(tr.AttrOr("data-percent", ""), 64)
		if err != nil {
			return
		}
		bars = append(bars, attributeBar{Value: tr.AttrOr("data-value", ""), Percent: pct})
	})
	return bars
}

// renderAttributeChart draws the bars as a bar chart. It returns "" when
// there is nothing to draw or no room for it.
func renderAttributeChart(bars []attributeBar, width, height int) string {
	if len(bars) == 0 || width < 10 || height < 4 {
		return ""
	}
	if len(bars) > maxChartBars {
		bars = bars[:maxChartBars]
	}

	barWidth := max(1, (width-len(bars))/len(bars))
	bc := barchart.New(width, height,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
	)

	style := lipgloss.NewStyle().Foreground(ColorGreen).Background(ColorGreen)
	for _, b := range bars {
		bc.Push(barchart.BarData{
			Label: truncateLabel(b.Value, barWidth),
			Values: []barchart.BarValue{
				{Name: b.Value, Value: b.Percent, Style: style},
			},
		})
	}

	bc.Draw()
	return bc.View()
}

func truncateLabel(s string, width int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= width {
		return string(r)
	}
	return string(r[:width])
}
