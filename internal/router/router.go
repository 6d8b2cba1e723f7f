package router

import (
	"log"

	"github.com/tinytelemetry/topicalguide/internal/state"
)

// Mounter is the page the router drives.
type Mounter interface {
	// Canonical maps a routed view name to the name that will be mounted:
	// the root view for "", the name itself when registered. ok is false
	// for unregistered names.
	Canonical(name string) (canonical string, ok bool)
	// Mount replaces the mounted view with the one r names and returns the
	// settings model of the new view.
	Mount(r Route) *state.Settings
}

// Router owns the fragment history of one page.
type Router struct {
	sel  *state.Selection
	m    Mounter
	post func(func())

	current  Route
	settings *state.Settings
	mounted  bool
	applying bool

	history []string
	pos     int

	selSub      *state.Subscription
	settingsSub *state.Subscription
}

// New creates a router. post defers a function until the current
// notification has finished; the page loop's Post is the usual choice.
func New(sel *state.Selection, m Mounter, post func(func())) *Router {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	rt := &Router{sel: sel, m: m, post: post, pos: -1}
	rt.selSub = sel.Subscribe(rt.onSelection)
	return rt
}

// Close detaches the router from the models.
func (rt *Router) Close() {
	rt.selSub.Unsubscribe()
	rt.settingsSub.Unsubscribe()
}

// Current returns the route of the mounted view.
func (rt *Router) Current() Route { return rt.current.clone() }

// Fragment returns the fragment of the current history entry.
func (rt *Router) Fragment() string {
	if rt.pos < 0 {
		return ""
	}
	return rt.history[rt.pos]
}

// Navigate handles a fragment change: a link followed or an address typed.
func (rt *Router) Navigate(fragment string) {
	r, err := Parse(fragment)
	if err != nil {
		log.Printf("router: %v", err)
	}
	rt.apply(r, true)
}

// Go navigates to r as if its fragment had been followed.
func (rt *Router) Go(r Route) { rt.apply(r, true) }

// Back moves one entry back in history. It reports false at the start.
func (rt *Router) Back() bool {
	if rt.pos <= 0 {
		return false
	}
	rt.pos--
	rt.reapply()
	return true
}

// Forward moves one entry forward in history.
func (rt *Router) Forward() bool {
	if rt.pos >= len(rt.history)-1 {
		return false
	}
	rt.pos++
	rt.reapply()
	return true
}

func (rt *Router) reapply() {
	r, err := Parse(rt.history[rt.pos])
	if err != nil {
		log.Printf("router: %v", err)
	}
	rt.apply(r, false)
}

func (rt *Router) apply(r Route, push bool) {
	name, known := rt.m.Canonical(r.View)
	if known {
		r.View = name
	}

	rt.applying = true
	defer func() { rt.applying = false }()

	if known && rt.mounted && r.SameMount(rt.current) {
		if err := rt.sel.Set(r.Update()); err != nil {
			log.Printf("router: update selection: %v", err)
		}
		rt.current = r
		if rt.settings != nil {
			if err := rt.settings.Replace(r.Settings); err != nil {
				log.Printf("router: update settings: %v", err)
			}
			rt.current = r.WithSettings(rt.settings.Values())
		}
		rt.record(push)
		return
	}

	if known {
		if err := rt.sel.Set(r.Update()); err != nil {
			log.Printf("router: update selection: %v", err)
		}
	}
	rt.mount(r)
	rt.record(push)
}

func (rt *Router) mount(r Route) {
	rt.settingsSub.Unsubscribe()
	rt.settings = rt.m.Mount(r)
	rt.mounted = true
	rt.current = r
	if rt.settings != nil {
		rt.current = r.WithSettings(rt.settings.Values())
		rt.settingsSub = rt.settings.Subscribe(rt.onSettings)
	}
}

// record stores the current route in history, pushing a new entry or
// replacing the current one.
func (rt *Router) record(push bool) {
	frag := Format(rt.current)
	if push {
		if rt.pos >= 0 && rt.history[rt.pos] == frag {
			return
		}
		rt.history = append(rt.history[:rt.pos+1], frag)
		rt.pos++
		return
	}
	if rt.pos < 0 {
		rt.history = []string{frag}
		rt.pos = 0
		return
	}
	rt.history[rt.pos] = frag
}

// onSelection follows selection changes made by views.
func (rt *Router) onSelection(c state.Change) {
	if rt.applying {
		return
	}
	next := rt.current.WithSelection(c.Next)
	if c.Changed(state.FieldView) || c.Changed(state.FieldDataset) || c.Changed(state.FieldAnalysis) {
		rt.post(func() {
			rt.applying = true
			rt.mount(next.WithSettings(nil))
			rt.applying = false
			rt.record(true)
		})
		return
	}
	rt.current = next
	rt.record(true)
}

// onSettings follows settings changed by the mounted view. The history
// entry is replaced rather than pushed.
func (rt *Router) onSettings(c state.SettingsChange) {
	if rt.applying {
		return
	}
	rt.current = rt.current.WithSettings(rt.settings.Values())
	rt.record(false)
}
