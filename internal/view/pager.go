package view

import (
	"fmt"
	"strconv"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
)

// PageSetting is the settings key holding the current page number.
const PageSetting = "page"

// Pager renders the navigation arrows of a paginated list. First and
// previous appear only after page 1; next and last only before the final
// page. href builds the link for a page number.
func Pager(page, numPages int, href func(page int) string) *html.Node {
	if numPages < 1 {
		numPages = 1
	}
	nav := dom.El("nav", dom.Attrs{"class": "tg-pager"})
	link := func(class, label string, target int) {
		nav.AppendChild(dom.Link(href(target), label, dom.Attrs{
			"class":     class,
			"data-page": strconv.Itoa(target),
		}))
	}
	if page > 1 {
		link("tg-first", "« First", 1)
		link("tg-prev", "‹ Previous", page-1)
	}
	nav.AppendChild(dom.El("span", dom.Attrs{"class": "tg-page-status"},
		dom.Text(fmt.Sprintf("Page %d of %d", page, numPages))))
	if page < numPages {
		link("tg-next", "Next ›", page+1)
		link("tg-last", "Last »", numPages)
	}
	return nav
}

// PagerFor renders the pager of the mounted view, linking each page through
// the view's page setting.
func (c *Context) PagerFor(page, numPages int) *html.Node {
	return Pager(page, numPages, func(p int) string {
		return c.SelfHref(PageSetting, strconv.Itoa(p))
	})
}
