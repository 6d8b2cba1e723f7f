// Package shell hosts one page: the navigation chrome, the container the
// routed view is mounted into, the shared models and the router. All page
// state is confined to the page's event loop; the exported methods are safe
// to call from any goroutine.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"golang.org/x/net/html"

	"github.com/tinytelemetry/topicalguide/internal/dom"
	"github.com/tinytelemetry/topicalguide/internal/feed"
	"github.com/tinytelemetry/topicalguide/internal/loop"
	"github.com/tinytelemetry/topicalguide/internal/model"
	"github.com/tinytelemetry/topicalguide/internal/router"
	"github.com/tinytelemetry/topicalguide/internal/state"
	"github.com/tinytelemetry/topicalguide/internal/view"
)

// Element ids of the page regions.
const (
	NavID         = "tg-nav"
	BreadcrumbsID = "tg-breadcrumbs"
	MainID        = "tg-current-view-container"
)

// Options configure a Shell.
type Options struct {
	Registry *view.Registry
	Feed     *feed.Client
	Store    model.KVStore

	// Nav and Breadcrumbs render the page chrome. Either may be nil.
	Nav         view.Constructor
	Breadcrumbs view.Constructor
	// Fallback is mounted for unregistered view names.
	Fallback view.Constructor
}

// Shell is one page.
type Shell struct {
	opts     Options
	loop     *loop.Loop
	ctx      context.Context
	cancel   context.CancelFunc
	app      *state.App
	requests *feed.Requester
	router   *router.Router

	page   *html.Node
	nav    *dom.Container
	crumbs *dom.Container
	main   *dom.Container

	chrome     []view.View
	active     view.View
	activeName string
	title      string
	scope      state.Scope
	closed     bool
}

// New builds a page and loads the dataset catalog. The page shows nothing in
// its main container until the first Navigate.
func New(opts Options) (*Shell, error) {
	if opts.Registry == nil || opts.Feed == nil {
		return nil, errors.New("shell: registry and feed client are required")
	}
	if opts.Store == nil {
		opts.Store = state.NewMemoryStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Shell{
		opts:   opts,
		loop:   loop.New(),
		ctx:    ctx,
		cancel: cancel,
		app:    state.NewApp(opts.Store),
		nav:    dom.NewContainer(NavID),
		crumbs: dom.NewContainer(BreadcrumbsID),
		main:   dom.NewContainer(MainID),
		title:  model.SiteTitle,
	}
	s.requests = opts.Feed.Bind(ctx, s.loop)
	s.page = dom.El("div", dom.Attrs{"id": "tg-page"},
		dom.El("header", dom.Attrs{"id": "tg-header"}, s.nav.Node(), s.crumbs.Node()),
		dom.El("main", nil, s.main.Node()),
	)

	err := s.loop.Do(func() {
		s.router = router.New(s.app.Selection, s, func(fn func()) { s.loop.Post(fn) })
		s.scope.Add(s.app.Selection.Subscribe(s.onSelection))
		s.mountChrome(s.nav, opts.Nav, "nav")
		s.mountChrome(s.crumbs, opts.Breadcrumbs, "breadcrumbs")
		s.loadCatalog()
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start page loop: %w", err)
	}
	return s, nil
}

func (s *Shell) mountChrome(c *dom.Container, ctor view.Constructor, name string) {
	if ctor == nil {
		return
	}
	v := ctor(s.viewContext(name, c, nil, router.Route{}))
	s.chrome = append(s.chrome, v)
	s.render(v)
}

func (s *Shell) viewContext(name string, c *dom.Container, settings *state.Settings, r router.Route) *view.Context {
	if settings == nil {
		settings = state.LoadSettings(nil, "")
	}
	return &view.Context{
		Name:      name,
		Container: c,
		App:       s.app,
		Settings:  settings,
		Feed:      s.requests,
		Registry:  s.opts.Registry,
		Route:     r,
	}
}

func (s *Shell) loadCatalog() {
	feed.FetchDecoded(s.requests, nil, feed.CatalogQuery(), feed.DecodeCatalog,
		func(c model.Catalog) { s.app.Data.SetCatalog(c) },
		func(err error) { log.Printf("shell: load catalog: %v", err) })
}

// onSelection fetches topic names whenever a new analysis is selected.
func (s *Shell) onSelection(c state.Change) {
	if !c.Changed(state.FieldDataset) && !c.Changed(state.FieldAnalysis) {
		return
	}
	ds, an := c.Next.Dataset, c.Next.Analysis
	if ds == "" || an == "" || s.app.Data.HasTopicNames(ds, an) {
		return
	}
	feed.FetchDecoded(s.requests, selectionGuard{s.app.Selection, ds, an}, feed.TopicNamesQuery(ds, an), feed.DecodeTopicNames(ds, an),
		func(names model.TopicNames) { s.app.Data.SetTopicNames(ds, an, names) },
		func(err error) { log.Printf("shell: load topic names for %s/%s: %v", ds, an, err) })
}

type selectionGuard struct {
	sel    *state.Selection
	ds, an string
}

func (g selectionGuard) Valid() bool {
	v := g.sel.Get()
	return v.Dataset == g.ds && v.Analysis == g.an
}

// Canonical implements router.Mounter.
func (s *Shell) Canonical(name string) (string, bool) {
	if name == "" {
		root := s.opts.Registry.Root()
		return root.Name, root.Found()
	}
	return name, s.opts.Registry.Resolve(name).Found()
}

// Mount implements router.Mounter. The previous view is cleaned up before
// the container starts a new generation, so nothing it still has in flight
// can draw into the new view.
func (s *Shell) Mount(r router.Route) *state.Settings {
	if s.active != nil {
		s.active.Cleanup()
		s.active = nil
	}
	s.main.Reset()

	name := r.View
	desc := s.opts.Registry.Resolve(name)
	settings := state.LoadSettings(nil, "")
	if desc.Found() {
		settings = s.app.Settings(name)
	} else {
		log.Printf("shell: no view registered as %q", name)
		desc = view.Descriptor{Name: name, ReadableName: "Not Found", New: s.opts.Fallback}
		if desc.New == nil {
			desc.New = s.opts.Registry.Root().New
		}
	}
	if err := settings.Set(r.Settings); err != nil {
		log.Printf("shell: apply route settings: %v", err)
	}

	s.activeName = name
	s.title = model.SiteTitle
	if desc.New == nil {
		s.main.Replace(view.ErrorNode("no view is available for " + r.String()))
		return settings
	}

	v := s.construct(desc, s.viewContext(name, s.main, settings, r))
	if v == nil {
		return settings
	}
	s.active = v
	if t, ok := v.(view.Titled); ok {
		s.title = model.SiteTitle + " | " + t.Title()
	} else if desc.ReadableName != "" {
		s.title = model.SiteTitle + " | " + desc.ReadableName
	}
	s.render(v)
	return settings
}

func (s *Shell) construct(desc view.Descriptor, ctx *view.Context) (v view.View) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("shell: constructing view %q: %v\n%s", desc.Name, r, debug.Stack())
			ctx.Container.Replace(view.ErrorNode("the view could not be created"))
			v = nil
		}
	}()
	return desc.New(ctx)
}

// render draws v, logging a failure in place of the view.
func (s *Shell) render(v view.View) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("shell: rendering view: %v\n%s", r, debug.Stack())
			v.RenderError(fmt.Sprint(r))
		}
	}()
	v.Render()
}

// Navigate routes to fragment.
func (s *Shell) Navigate(fragment string) {
	s.loop.Post(func() { s.router.Navigate(fragment) })
}

// Back moves back in history.
func (s *Shell) Back() {
	s.loop.Post(func() { s.router.Back() })
}

// Forward moves forward in history.
func (s *Shell) Forward() {
	s.loop.Post(func() { s.router.Forward() })
}

// Do runs fn on the page loop with access to the page state.
func (s *Shell) Do(fn func(p *Page)) error {
	return s.loop.Do(func() { fn(&Page{s: s}) })
}

// Idle waits until no work or fetch of the page is outstanding.
func (s *Shell) Idle(ctx context.Context) error { return s.loop.Idle(ctx) }

// Snapshot is a consistent copy of what the page shows.
type Snapshot struct {
	Fragment string
	Title    string
	View     string
	HTML     string
	Main     string
}

// Snapshot captures the page.
func (s *Shell) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.Do(func(p *Page) {
		snap = Snapshot{
			Fragment: s.router.Fragment(),
			Title:    s.title,
			View:     s.activeName,
			HTML:     dom.Render(s.page),
			Main:     s.main.HTML(),
		}
	})
	return snap, err
}

// Close tears the page down.
func (s *Shell) Close() {
	_ = s.loop.Do(func() {
		if s.closed {
			return
		}
		s.closed = true
		if s.active != nil {
			s.active.Cleanup()
			s.active = nil
		}
		for _, v := range s.chrome {
			v.Cleanup()
		}
		s.scope.Release()
		s.router.Close()
		s.app.Close()
	})
	s.cancel()
	s.loop.Close()
}
