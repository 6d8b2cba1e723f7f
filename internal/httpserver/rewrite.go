package httpserver

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rewriteLinks turns the page's fragment links into /v/ paths. GET forms
// lose their action query on submit, so its values become hidden inputs.
func rewriteLinks(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", err
	}

	doc.Find(`a[href^="#/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		a.SetAttr("href", pageURL(href))
	})

	doc.Find(`form[action^="#/"]`).Each(func(_ int, f *goquery.Selection) {
		action, _ := f.Attr("action")
		path, query, _ := strings.Cut(strings.TrimPrefix(action, "#"), "?")
		f.SetAttr("action", pageURL(path))
		if !strings.EqualFold(f.AttrOr("method", "get"), "get") {
			return
		}
		values, err := url.ParseQuery(query)
		if err != nil {
			return
		}
		for k, vs := range values {
			if f.Find(`[name="` + k + `"]`).Length() > 0 {
				continue
			}
			f.AppendHtml(`<input type="hidden" name="` + template.HTMLEscapeString(k) +
				`" value="` + template.HTMLEscapeString(vs[0]) + `"/>`)
		}
	})

	return doc.Find("body").Html()
}

var pageTemplates = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0 2em; }
#tg-header ul { list-style: none; padding: 0; }
.tg-menu > ul > li { display: inline-block; margin-right: 1em; vertical-align: top; }
.tg-breadcrumbs li { display: inline; margin-right: 1em; }
.tg-error { color: #a00; }
.selected, .active { font-weight: bold; }
.tg-fav { display: inline; }
.tg-fav button { border: none; background: none; cursor: pointer; }
.tg-bar { background: #48c; height: 0.8em; }
.tg-bar-cell { width: 40%; }
.tg-value { text-align: right; }
</style>
</head>
<body data-fragment="{{.Fragment}}">
{{.Body}}
<footer><a href="/help">Help</a></footer>
</body>
</html>
`))

func init() {
	template.Must(pageTemplates.New("help").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Help | {{.Title}}</title>
</head>
<body>
<div class="tg-help">{{.Body}}</div>
<p><a href="{{.Back}}">Back</a></p>
</body>
</html>
`))
}
