package shell

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/router"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

// Page exposes the page state inside Shell.Do. A Page must not be retained
// after the callback returns.
type Page struct {
	s *Shell
}

// App returns the shared models.
func (p *Page) App() *state.App { return p.s.app }

// Router returns the page router.
func (p *Page) Router() *router.Router { return p.s.router }

// Route returns the route of the mounted view.
func (p *Page) Route() router.Route { return p.s.router.Current() }

// Active returns the mounted view, or nil.
func (p *Page) Active() view.View { return p.s.active }

// ViewName returns the name the mounted view was routed as.
func (p *Page) ViewName() string { return p.s.activeName }

// Title returns the page title.
func (p *Page) Title() string { return p.s.title }

// Main returns the container the routed view renders into.
func (p *Page) Main() *dom.Container { return p.s.main }

// Nav returns the navigation menu container.
func (p *Page) Nav() *dom.Container { return p.s.nav }

// Breadcrumbs returns the breadcrumbs container.
func (p *Page) Breadcrumbs() *dom.Container { return p.s.crumbs }

// Document returns a goquery view of the whole page.
func (p *Page) Document() *goquery.Document {
	return goquery.NewDocumentFromNode(p.s.page)
}

// HTML renders the whole page.
func (p *Page) HTML() string { return dom.Render(p.s.page) }

// Help returns the help of the mounted view.
func (p *Page) Help() string {
	if p.s.active == nil {
		return view.DefaultHelp
	}
	return p.s.active.RenderHelpAsHTML()
}

// Menu returns the navigation tree.
func (p *Page) Menu() []view.MenuItem { return p.s.opts.Registry.BuildMenu() }
